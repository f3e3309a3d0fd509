package job

import (
	"time"

	"gopkg.in/yaml.v3"

	basisv1 "basislab/api/v1"
)

// Sink blocks stay as raw nodes; each sink decodes its own block.
type sinkConfigs struct {
	Kafka  yaml.Node `yaml:"kafka"`
	Stdout yaml.Node `yaml:"stdout"`
}

type engineOverride struct {
	Policy string `yaml:"policy"` // "orthogonal" | "centered"; empty keeps the process default

	// Remote evaluates on a basis server (host:port) instead of in-process.
	Remote  string        `yaml:"remote"`
	Timeout time.Duration `yaml:"timeout"` // per case, remote only
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`   // "inline", "file", "kafka"
		Driver string `yaml:"driver"` // kafka only: "sarama"
		Config string `yaml:"config"` // kafka only: path to the consumer config
		Path   string `yaml:"path"`   // file only: *.yml, *.jsonl or "-" for stdin
	} `yaml:"source"`

	// Evaluated in order when source.kind is "inline".
	Cases []basisv1.Case `yaml:"cases"`

	Engine engineOverride `yaml:"engine"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`
}
