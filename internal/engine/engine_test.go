package engine

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basislab/internal/basis"
	"basislab/internal/config"
	"basislab/internal/transform"
)

func bootstrap(t *testing.T, cfg config.Config) (*Engine, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("engine did not stop")
		}
	})
	return e, cancel
}

func TestBootstrap_ServesTransform(t *testing.T) {
	cfg := config.Default()
	cfg.Server.GRPCPort = 0
	cfg.Server.MetricsPort = 0
	e, _ := bootstrap(t, cfg)
	assert.Nil(t, e.Runner())

	cli, err := transform.NewGRPCClient(fmt.Sprintf("localhost:%d", e.Addr().(*net.TCPAddr).Port), "")
	require.NoError(t, err)
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := cli.Transform(ctx, basis.Input{Point: basis.V(2, 1), Basis1: basis.V(1, 0), Basis2: basis.V(0, 1)})
	require.NoError(t, err)
	assert.Equal(t, basis.ClassRotation, res.Class)
	assert.Equal(t, basis.V(2, 1), *res.Coords)
}

func TestBootstrap_RunsJob(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yml")
	require.NoError(t, os.WriteFile(job, []byte(`cases:
  - id: identity
    point: {x: 2, y: 1}
    basis1: {x: 1, y: 0}
    basis2: {x: 0, y: 1}
sinks: [stdout]
sink_configs:
  stdout:
    json: true
`), 0o644))

	cfg := config.Default()
	cfg.Server.GRPCPort = 0
	cfg.Server.MetricsPort = 0
	cfg.Server.Job = job
	e, _ := bootstrap(t, cfg)
	require.NotNil(t, e.Runner())

	assert.Eventually(t, func() bool { return e.Runner().Stats().Cases == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestBootstrap_RejectsBadPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Policy = "diagonal"
	_, err := Bootstrap(context.Background(), cfg)
	assert.Error(t, err)
}
