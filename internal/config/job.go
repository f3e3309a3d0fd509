package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"basislab/internal/job"
)

const SupportedSchema = "v1"

// LoadJob parses a job YAML, validates schema_version, and resolves
// source.config and source.path relative to the job file.
func LoadJob(path string) (job.File, error) {
	var f job.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("job %s: %w", path, err)
	}
	if f.SchemaVersion == "" {
		f.SchemaVersion = SupportedSchema
	}
	if f.SchemaVersion != SupportedSchema {
		return f, fmt.Errorf("job schema_version %q not supported (want %q)", f.SchemaVersion, SupportedSchema)
	}
	if f.Source.Kind == "" {
		f.Source.Kind = "inline"
	}
	if len(f.Sinks) == 0 {
		f.Sinks = []string{"stdout"}
	}
	dir := filepath.Dir(path)
	f.Source.Config = resolve(dir, f.Source.Config)
	if f.Source.Path != "-" {
		f.Source.Path = resolve(dir, f.Source.Path)
	}
	return f, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
