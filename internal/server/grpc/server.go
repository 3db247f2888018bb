// Package grpc serves the standard gRPC health service. Its status for the
// survey service follows database readiness, so clients can use it as a
// reachability probe.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Checker reports whether the server can do useful work.
type Checker interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	checker  Checker
	interval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, c Checker, interval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
		checker:  c,
		interval: interval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watchReadiness(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) watchReadiness(ctx context.Context) {
	s.checkReadiness(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkReadiness(ctx)
		}
	}
}

// checkReadiness pings the checker and publishes the result for both the
// survey service and the overall server.
func (s *GRPCServer) checkReadiness(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.checker.Ping(pingCtx); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn(ctx, "not ready", "error", err)
	}

	s.health.SetServingStatus(common.HealthService, st)
	s.health.SetServingStatus("", st)
	return st
}
