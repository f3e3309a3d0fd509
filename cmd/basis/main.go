package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"basislab/internal/basis"
	"basislab/internal/config"
	"basislab/internal/logging"
	"basislab/internal/render"
)

// app carries the persistent flags and the configuration they resolve to.
type app struct {
	configPath string
	verbose    bool
	timeout    time.Duration

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "basis",
		Short: "Change-of-basis calculator for 2D affine frames",
		Long: `basis converts a point from the global frame into the frame spanned by two
basis vectors placed at a new origin, and reports whether that frame is a
pure rotation, a rotation with shift, or a skewed grid.

Configuration is read from --config (YAML) and BASIS__* environment
variables, e.g. BASIS__ENGINE__POLICY=centered.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if a.verbose {
				cfg.Logging.Level = "debug"
			}
			logging.Configure(cfg.Logging.Options())
			a.cfg = cfg
			logging.L().Debug("configuration loaded",
				zap.String("path", a.configPath),
				zap.String("policy", cfg.Engine.Policy))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "Timeout for remote calls")

	root.AddCommand(
		newEvalCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newTUICmd(a),
	)
	return root
}

// engineConfig resolves the engine section, letting a non-empty override
// replace the configured policy.
func (a *app) engineConfig(policy string) (basis.Config, error) {
	bc, err := a.cfg.Engine.Basis()
	if err != nil {
		return bc, err
	}
	if policy != "" {
		if bc.Policy, err = basis.ParsePolicy(policy); err != nil {
			return bc, err
		}
	}
	return bc, nil
}

func (a *app) plotOptions() render.PlotOptions {
	return a.cfg.View.PlotOptions()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
