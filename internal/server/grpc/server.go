// Package grpc exposes the standard grpc.health.v1 service so that
// orchestrators can probe the server over gRPC. Health follows the storage
// probe: SERVING while it succeeds, NOT_SERVING otherwise.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "notekeeper"

const defaultProbeInterval = 5 * time.Second

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

type HealthServer struct {
	address  string
	logger   logging.Logger
	probe    Probe
	interval time.Duration
	health   *health.Server
}

func NewHealthServer(address string, l logging.Logger, probe Probe) *HealthServer {
	return &HealthServer{
		address:  address,
		logger:   l.With("module", "grpc_health"),
		probe:    probe,
		interval: defaultProbeInterval,
		health:   health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.Check(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", lis.Addr().String())
	return srv.Serve(lis)
}

// Check runs the probe once and publishes the result.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.probe(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn(ctx, "health probe failed", "error", err)
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}
