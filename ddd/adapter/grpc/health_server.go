package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"hls-service/pkg/logger"
)

// ServiceName is the name reported by the health service besides "".
const ServiceName = "hls.HLSService"

// HealthServer serves the standard gRPC health protocol so orchestrators
// can probe the instance. It runs as a background task.
type HealthServer struct {
	addr   string
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
	logger *logger.Logger
}

func NewHealthServer(addr string, log *logger.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &HealthServer{addr: addr, srv: srv, health: hs, logger: log}
}

func (s *HealthServer) Name() string { return "grpc-health" }

// Start listens on the configured address and serves in the background.
func (s *HealthServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen grpc: %w", err)
	}
	s.lis = lis
	s.SetServing(true)
	go func() {
		s.logger.Infof("gRPC health server listening addr=%s", lis.Addr())
		if err := s.srv.Serve(lis); err != nil {
			s.logger.Errorf("gRPC server error: %v", err)
		}
	}()
	return nil
}

// Stop reports NOT_SERVING to watchers and drains open calls.
func (s *HealthServer) Stop() error {
	s.health.Shutdown()
	s.srv.GracefulStop()
	return nil
}

// SetServing flips the status of both the overall server and ServiceName.
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Addr is the bound listener address once started.
func (s *HealthServer) Addr() string {
	if s.lis == nil {
		return s.addr
	}
	return s.lis.Addr().String()
}
