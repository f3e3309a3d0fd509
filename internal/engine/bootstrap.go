package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"basislab/internal/config"
	"basislab/internal/logging"
	"basislab/internal/pipeline"
	"basislab/internal/telemetry"
	"basislab/internal/transport"
)

// Bootstrap starts the gRPC transform service, the metrics listener and,
// when cfg.Server.Job is set, a background pipeline.
func Bootstrap(ctx context.Context, cfg config.Config) (*Engine, error) {
	bc, err := cfg.Engine.Basis()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	m := telemetry.NewMetrics()

	// 1. transport server
	srv, err := transport.StartServer(cfg.Server.GRPCPort, bc, m)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	logging.L().Info("transform service listening",
		zap.Stringer("addr", srv.Addr()),
		zap.Stringer("policy", bc.Policy))

	// 2. pipeline runner
	var runner *pipeline.Runner
	if cfg.Server.Job != "" {
		runner, err = pipeline.Compile(cfg.Server.Job, bc, cfg.View.PlotOptions(), m)
		if err != nil {
			srv.Stop()
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		if err := runner.Start(ctx); err != nil {
			srv.Stop()
			return nil, err
		}
	}

	// 3. metrics
	if cfg.Server.MetricsPort > 0 {
		telemetry.Expose(ctx, cfg.Server.MetricsPort, m)
	}

	return &Engine{
		transport: srv,
		runner:    runner,
		metrics:   m,
	}, nil
}
