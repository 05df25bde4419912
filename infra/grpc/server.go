package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	server   *grpc.Server
	listener net.Listener
	health   *health.Server
}

func NewServer(port string) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	return newServer(lis), nil
}

func newServer(lis net.Listener) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		listener: lis,
		health:   healthServer,
	}
}

func (s *Server) GetGRPCServer() grpc.ServiceRegistrar {
	return s.server
}

// SetServing marks service as healthy on the health endpoint.
func (s *Server) SetServing(service string) {
	s.health.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
