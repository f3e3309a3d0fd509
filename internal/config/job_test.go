package config

import (
	"os"
	"path/filepath"
	"testing"

	"basislab/internal/basis"
)

func TestLoadJob_ResolvesRelativeSourceConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`schema_version: v1
source:
  kind: kafka
  driver: sarama
  config: kafka_source.yml
sinks: [stdout]
`)
	if err := os.WriteFile(filepath.Join(dir, "job.yml"), body, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}

	f, err := LoadJob(filepath.Join(dir, "job.yml"))
	if err != nil {
		t.Fatalf("LoadJob: %v", err)
	}
	if f.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, f.SchemaVersion)
	}
	if f.Source.Config == "" || !filepath.IsAbs(f.Source.Config) {
		t.Fatalf("want absolute kafka config path, got %q", f.Source.Config)
	}
}

func TestLoadJob_InlineCasesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`cases:
  - id: scenario-a
    point:  {x: 3, y: 2}
    basis1: {x: 1, y: 0.5}
    basis2: {x: -0.5, y: 1}
    origin: {x: 1, y: 1}
  - id: parallel
    basis1: {x: 2, y: 0}
    basis2: {x: 4, y: 0}
`)
	if err := os.WriteFile(filepath.Join(dir, "job.yml"), body, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	f, err := LoadJob(filepath.Join(dir, "job.yml"))
	if err != nil {
		t.Fatalf("LoadJob: %v", err)
	}
	if f.Source.Kind != "inline" {
		t.Fatalf("want inline source, got %q", f.Source.Kind)
	}
	if len(f.Sinks) != 1 || f.Sinks[0] != "stdout" {
		t.Fatalf("want default stdout sink, got %v", f.Sinks)
	}
	if len(f.Cases) != 2 {
		t.Fatalf("want 2 cases, got %d", len(f.Cases))
	}
	if f.Cases[0].Input.Basis2 != basis.V(-0.5, 1) || f.Cases[0].Input.Origin != basis.V(1, 1) {
		t.Fatalf("unexpected first case %+v", f.Cases[0])
	}
	if f.Cases[1].ID != "parallel" || f.Cases[1].Input.Point != (basis.Vec2{}) {
		t.Fatalf("unexpected second case %+v", f.Cases[1])
	}
}

func TestLoadJob_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`schema_version: v999
source: { kind: kafka, driver: sarama, config: cf.yml }
sinks: [stdout]
`)
	if err := os.WriteFile(filepath.Join(dir, "job.yml"), body, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	_, err := LoadJob(filepath.Join(dir, "job.yml"))
	if err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}
