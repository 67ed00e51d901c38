package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/usersvc/internal/application/service"
)

const (
	// UserServiceName is the fully qualified gRPC service name.
	UserServiceName = "usersvc.v1.UserService"
	// AuthorizeMethod is the full method name of UserService.Authorize.
	AuthorizeMethod = "/" + UserServiceName + "/Authorize"
)

type userServiceServer interface {
	Authorize(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// UserService exposes the gateway authorization check over gRPC. The reply carries the
// identity headers as a struct of strings.
type UserService struct {
	auth service.AuthAppService
}

// NewUserService creates a new UserService.
func NewUserService(auth service.AuthAppService) *UserService {
	return &UserService{auth: auth}
}

// Authorize returns the identity headers of the authenticated caller.
func (s *UserService) Authorize(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	headers, err := s.auth.Authorize(ctx)
	if err != nil {
		return nil, StatusFromError(err)
	}
	fields := make(map[string]any, len(headers))
	for name, value := range headers {
		fields[name] = value
	}
	return structpb.NewStruct(fields)
}

func authorizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(userServiceServer).Authorize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AuthorizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(userServiceServer).Authorize(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// UserServiceDesc describes UserService for grpc.Server.RegisterService.
var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*userServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authorize", Handler: authorizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "usersvc/v1/user_service",
}
