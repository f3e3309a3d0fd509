// Package engine assembles the long-running service behind `basis serve`.
package engine

import (
	"context"
	"net"

	"basislab/internal/pipeline"
	"basislab/internal/telemetry"
	"basislab/internal/transport"
)

type Engine struct {
	transport *transport.Server
	runner    *pipeline.Runner
	metrics   *telemetry.Metrics
}

func (e *Engine) Addr() net.Addr              { return e.transport.Addr() }
func (e *Engine) Metrics() *telemetry.Metrics { return e.metrics }
func (e *Engine) Runner() *pipeline.Runner    { return e.runner }

// Run serves until ctx is done, then drains in-flight calls.
func (e *Engine) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		e.transport.Stop()
		if e.runner != nil {
			_ = e.runner.Close()
		}
	}()

	return e.transport.Serve()
}
