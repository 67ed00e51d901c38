package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/turtacn/usersvc/pkg/logger"
)

// Server is the gRPC surface of the service: UserService behind the authentication
// interceptors and the standard health service.
type Server struct {
	server *grpc.Server
	health *health.Server
	logger logger.Logger
}

// NewServer creates the gRPC server with chain installed.
func NewServer(chain *InterceptorChain, users *UserService, log logger.Logger) *Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(chain.Unary()...))
	s.RegisterService(&UserServiceDesc, users)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	return &Server{server: s, health: hs, logger: log.WithComponent("GRPCServer")}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.logger.Info(context.Background(), "Starting gRPC server", logger.String("address", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop marks the server as not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info(context.Background(), "gRPC server stopped")
}

// GRPCServer returns the underlying server so further services can be registered.
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}
