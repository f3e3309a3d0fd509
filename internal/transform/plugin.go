package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	basisv1 "basislab/api/v1"
	"basislab/internal/basis"
	"basislab/internal/telemetry"
)

// Client evaluates inputs somewhere. Transform follows basis.Engine:
// a degenerate basis yields a Result with Degenerate set together with an
// error matching basis.ErrDegenerateBasis.
type Client interface {
	Transform(ctx context.Context, in basis.Input) (basis.Result, error)
	Health(ctx context.Context) error
	Close() error
}

// InProcessClient runs the engine compiled into the binary.
type InProcessClient struct {
	engine  *basis.Engine
	metrics *telemetry.Metrics
}

func NewInProcessClient(e *basis.Engine, m *telemetry.Metrics) *InProcessClient {
	return &InProcessClient{engine: e, metrics: m}
}

func (c *InProcessClient) Transform(ctx context.Context, in basis.Input) (basis.Result, error) {
	if err := ctx.Err(); err != nil {
		return basis.Result{}, err
	}
	start := time.Now()
	res, err := c.engine.Evaluate(in)
	c.metrics.Observe(res, time.Since(start))
	return res, err
}

func (c *InProcessClient) Engine() *basis.Engine { return c.engine }

func (c *InProcessClient) Health(context.Context) error { return nil }

func (c *InProcessClient) Close() error { return nil }

// GRPCClient calls a remote TransformService.
type GRPCClient struct {
	conn   *grpc.ClientConn
	svc    basisv1.TransformServiceClient
	health healthpb.HealthClient
	policy string
}

// NewGRPCClient dials target. policy is forwarded with every request; an
// empty policy defers to the server's configuration.
func NewGRPCClient(target, policy string, opts ...grpc.DialOption) (*GRPCClient, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		conn:   conn,
		svc:    basisv1.NewTransformServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		policy: policy,
	}, nil
}

func (c *GRPCClient) Transform(ctx context.Context, in basis.Input) (basis.Result, error) {
	req, err := basisv1.RequestToStruct(basisv1.Request{Input: in, Policy: c.policy})
	if err != nil {
		return basis.Result{}, err
	}
	out, err := c.svc.Transform(ctx, req)
	if err != nil {
		return basis.Result{}, fmt.Errorf("transform rpc: %w", err)
	}
	res, err := basisv1.ResultFromStruct(out)
	if err != nil {
		return basis.Result{}, err
	}
	if res.Degenerate {
		tol := res.Tolerance
		if tol <= 0 {
			tol = basis.DefaultDegenerateTol
		}
		return res, &basis.DegenerateBasisError{Det: res.Determinant, Tolerance: tol}
	}
	return res, nil
}

func (c *GRPCClient) Health(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: basisv1.TransformService_ServiceDesc.ServiceName})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return errors.New("transform service not serving: " + resp.GetStatus().String())
	}
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
