// Package health exposes grpc.health.v1.Health so orchestrators can probe the
// service over gRPC.
package health

import (
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "shiftsense.Ingest"

type Server struct {
	grpc   *grpc.Server
	health *grpchealth.Server
	logger logrus.FieldLogger
}

// NewServer returns a server reporting SERVING for the overall status and
// for ServiceName.
func NewServer(logger logrus.FieldLogger) *Server {
	gs := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	s := &Server{grpc: gs, health: hs, logger: logger}
	s.SetServing(true)
	return s
}

// SetServing flips both statuses.
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !ok {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.WithField("addr", lis.Addr().String()).Info("gRPC health listening")
	return s.grpc.Serve(lis)
}

// Stop marks the service NOT_SERVING and drains open streams.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
