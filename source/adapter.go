package source

import (
	"context"
	"fmt"

	basisv1 "basislab/api/v1"
)

// EmitFunc hands one case to the pipeline. A non-nil error stops the
// source.
type EmitFunc func(basisv1.Case) error

// Adapter is the common behaviour every source exposes. Run returns nil
// when a finite source is exhausted; unbounded sources run until ctx is
// done.
type Adapter interface {
	Configure(any) error
	Run(context.Context, EmitFunc) error
	Close() error
}

/*──────── registry ───────*/

// Factory builds an Adapter.
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name ("inline", "file", "kafka").
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown source %q", name)
}
