package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"basislab/internal/engine"
	"basislab/internal/logging"
	"basislab/internal/pipeline"
	"basislab/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		job                   string
		grpcPort, metricsPort int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC transform service and the metrics endpoint",
		Long: `Serves basis.v1.TransformService and the gRPC health service, exposes
Prometheus metrics on /metrics, and optionally drives a job in the
background. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if job != "" {
				cfg.Server.Job = job
			}
			if cmd.Flags().Changed("grpc-port") {
				cfg.Server.GRPCPort = grpcPort
			}
			if cmd.Flags().Changed("metrics-port") {
				cfg.Server.MetricsPort = metricsPort
			}

			e, err := engine.Bootstrap(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			logging.L().Info("serving", zap.Int("metrics_port", cfg.Server.MetricsPort))
			return e.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&job, "job", "", "Job file to run in the background")
	cmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "gRPC listen port (overrides config)")
	cmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "Metrics listen port, 0 disables (overrides config)")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "run <job.yml>",
		Short: "Run a batch job to completion",
		Long: `Evaluates every case produced by the job's source and sends the outcomes
to its sinks, then prints a summary. --policy replaces the configured
policy; a policy in the job's engine block wins over both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := a.engineConfig(policy)
			if err != nil {
				return err
			}
			r, err := pipeline.Compile(args[0], bc, a.plotOptions(), telemetry.NewMetrics())
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.Run(cmd.Context()); err != nil {
				return err
			}
			st := r.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "cases: %d  degenerate: %d  failed: %d\n", st.Cases, st.Degenerate, st.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "Rotation policy: orthogonal or centered")
	return cmd
}
