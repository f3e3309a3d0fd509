package pipeline

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"basislab/internal/basis"
	"basislab/internal/config"
	"basislab/internal/job"
	"basislab/internal/render"
	"basislab/internal/telemetry"
	"basislab/internal/transform"
	"basislab/sink"
	kafkasink "basislab/sink/kafka"
	"basislab/sink/stdout"
	"basislab/source"
	"basislab/source/file"
	"basislab/source/kafka"
)

// Compile loads a job file and builds a runner. Cases are evaluated
// in-process unless the job names a remote server, which is health-checked
// here and always sent the resolved policy. A policy set in the job
// overrides the one in base. view sizes the diagrams of plotting sinks.
func Compile(path string, base basis.Config, view render.PlotOptions, m *telemetry.Metrics) (*Runner, error) {
	f, err := config.LoadJob(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if f.Engine.Policy != "" {
		if cfg.Policy, err = basis.ParsePolicy(f.Engine.Policy); err != nil {
			return nil, fmt.Errorf("job %s: %w", path, err)
		}
	}

	var r *Runner
	if f.Engine.Remote != "" {
		cli, err := dialRemote(f.Engine.Remote, cfg.Policy, f.Engine.Timeout)
		if err != nil {
			return nil, fmt.Errorf("job %s: remote %s: %w", path, f.Engine.Remote, err)
		}
		r = NewRunner(cli)
		r.ownsClient = true
		r.SetTimeout(f.Engine.Timeout)
	} else {
		r = NewRunner(transform.NewInProcessClient(basis.New(cfg), m))
	}
	if err := Load(f, r, view); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

const remoteHealthTimeout = 5 * time.Second

func dialRemote(target string, policy basis.RotationPolicy, timeout time.Duration) (*transform.GRPCClient, error) {
	cli, err := transform.NewGRPCClient(target, policy.String())
	if err != nil {
		return nil, err
	}
	if timeout <= 0 || timeout > remoteHealthTimeout {
		timeout = remoteHealthTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := cli.Health(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("health: %w", err)
	}
	return cli, nil
}

// Load wires the source and sinks described by f into r.
func Load(f job.File, r *Runner, view render.PlotOptions) error {
	src, err := source.NewAdapter(f.Source.Kind)
	if err != nil {
		return err
	}
	switch f.Source.Kind {
	case "inline", "file":
		err = src.Configure(file.Config{Cases: f.Cases, Path: f.Source.Path})
	case "kafka":
		if f.Source.Driver != "" && f.Source.Driver != "sarama" {
			return fmt.Errorf("kafka: unsupported driver %q", f.Source.Driver)
		}
		var kc kafka.Config
		if kc, err = kafka.LoadConfig(f.Source.Config); err == nil {
			err = src.Configure(kc)
		}
	default:
		err = fmt.Errorf("unsupported source %q", f.Source.Kind)
	}
	if err != nil {
		return err
	}
	r.SetSource(src)

	for _, name := range f.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return err
		}

		switch name {
		case "stdout":
			c := stdout.Config{View: view}
			if err = decodeNode(&f.SinkConfigs.Stdout, &c); err == nil {
				err = sDrv.Configure(c)
			}
		case "kafka":
			var c kafkasink.Config
			if err = decodeNode(&f.SinkConfigs.Kafka, &c); err == nil {
				err = sDrv.Configure(c)
			}
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return fmt.Errorf("sink %s: %w", name, err)
		}
		r.AddSink(sDrv)
	}
	return nil
}

// decodeNode leaves v untouched when the block is absent.
func decodeNode(n *yaml.Node, v any) error {
	if n.Kind == 0 {
		return nil
	}
	return n.Decode(v)
}
