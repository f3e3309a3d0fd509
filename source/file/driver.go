// Package file reads evaluation cases from a job's inline list, a YAML
// file, or JSON lines (file or stdin).
package file

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	basisv1 "basislab/api/v1"
	"basislab/source"
)

type Config struct {
	// Inline cases take precedence over Path.
	Cases []basisv1.Case
	// *.yml / *.yaml hold a `cases:` list; anything else, and "-", is
	// read as one JSON case per line.
	Path string
	// Stdin replaces os.Stdin when Path is "-".
	Stdin io.Reader
}

type driver struct {
	cfg Config
	rc  io.ReadCloser
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("file-source: expected Config, got %T", raw)
	}
	if len(c.Cases) == 0 && c.Path == "" {
		return fmt.Errorf("file-source: no cases and no path")
	}
	d.cfg = c
	return nil
}

func (d *driver) Run(ctx context.Context, emit source.EmitFunc) error {
	if len(d.cfg.Cases) > 0 {
		return emitAll(ctx, d.cfg.Cases, "inline", emit)
	}

	r, err := d.open()
	if err != nil {
		return err
	}
	if isYAML(d.cfg.Path) {
		cases, err := decodeYAML(r)
		if err != nil {
			return fmt.Errorf("file-source %s: %w", d.cfg.Path, err)
		}
		return emitAll(ctx, cases, filepath.Base(d.cfg.Path), emit)
	}
	return scanJSONLines(ctx, r, d.name(), emit)
}

func (d *driver) Close() error {
	if d.rc != nil {
		err := d.rc.Close()
		d.rc = nil
		return err
	}
	return nil
}

func (d *driver) open() (io.Reader, error) {
	if d.cfg.Path == "-" {
		if d.cfg.Stdin != nil {
			return d.cfg.Stdin, nil
		}
		return os.Stdin, nil
	}
	f, err := os.Open(d.cfg.Path)
	if err != nil {
		return nil, err
	}
	d.rc = f
	return f, nil
}

func (d *driver) name() string {
	if d.cfg.Path == "-" {
		return "stdin"
	}
	return filepath.Base(d.cfg.Path)
}

func isYAML(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func decodeYAML(r io.Reader) ([]basisv1.Case, error) {
	var doc struct {
		Cases []basisv1.Case `yaml:"cases"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return doc.Cases, nil
}

// Cases without an id get "<name>#<n>", n counting from 1.
func emitAll(ctx context.Context, cases []basisv1.Case, name string, emit source.EmitFunc) error {
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.ID == "" {
			c.ID = name + "#" + strconv.Itoa(i+1)
		}
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}

func scanJSONLines(ctx context.Context, r io.Reader, name string, emit source.EmitFunc) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		c, err := basisv1.DecodeCase(raw, name+"#"+strconv.Itoa(line))
		if err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
		if err := emit(c); err != nil {
			return err
		}
	}
	return sc.Err()
}

func init() {
	f := func() source.Adapter { return &driver{} }
	source.Register("inline", f)
	source.Register("file", f)
}
