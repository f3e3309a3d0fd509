package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	basisv1 "basislab/api/v1"
	"basislab/internal/basis"
	"basislab/internal/logging"
	"basislab/internal/telemetry"
)

type Server struct {
	grpc   *grpc.Server
	lis    net.Listener
	health *health.Server
}

// StartServer listens on port (0 picks a free one) and registers the
// transform and health services.
func StartServer(port int, cfg basis.Config, m *telemetry.Metrics) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, cfg, m), nil
}

// NewServer wires the services onto an existing listener.
func NewServer(lis net.Listener, cfg basis.Config, m *telemetry.Metrics) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		lis:    lis,
		health: health.NewServer(),
	}
	basisv1.RegisterTransformServiceServer(s.grpc, NewTransformHandler(cfg, m))
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(basisv1.TransformService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// TransformHandler serves basis.v1.TransformService. Each request may pick
// a policy; tolerances always come from the server configuration.
type TransformHandler struct {
	basisv1.UnimplementedTransformServiceServer

	engines map[basis.RotationPolicy]*basis.Engine
	def     basis.RotationPolicy
	metrics *telemetry.Metrics
}

func NewTransformHandler(cfg basis.Config, m *telemetry.Metrics) *TransformHandler {
	h := &TransformHandler{
		engines: make(map[basis.RotationPolicy]*basis.Engine, 2),
		def:     cfg.Policy,
		metrics: m,
	}
	for _, p := range []basis.RotationPolicy{basis.PolicyOrthogonal, basis.PolicyCenteredOrthogonal} {
		h.engines[p] = basis.New(basis.Config{Policy: p, Tolerances: cfg.Tolerances})
	}
	return h
}

func (h *TransformHandler) Transform(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := basisv1.RequestFromStruct(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	if !req.Input.Finite() {
		return nil, status.Error(codes.InvalidArgument, "inputs must be finite")
	}
	policy := h.def
	if req.Policy != "" {
		if policy, err = basis.ParsePolicy(req.Policy); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%v", err)
		}
	}

	start := time.Now()
	// The degenerate classification travels in the payload, not as a status.
	res, _ := h.engines[policy].Evaluate(req.Input)
	h.metrics.Observe(res, time.Since(start))
	logging.L().Debug("transform",
		zap.String("class", string(res.Class)),
		zap.Float64("det", res.Determinant),
		zap.Stringer("policy", policy))

	out, err := basisv1.ResultToStruct(res)
	if err != nil {
		h.metrics.Failed()
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}
