// Package grpc exposes the authentication filter to gRPC callers.
package grpc

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/turtacn/usersvc/internal/application/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// authorizationKey is the metadata key carrying the bearer token. gRPC lower-cases keys.
const authorizationKey = "authorization"

// InterceptorChain holds the unary interceptors of the gRPC server.
type InterceptorChain struct {
	log           logger.Logger
	authenticator *service.Authenticator
}

// NewInterceptorChain creates a new InterceptorChain.
func NewInterceptorChain(log logger.Logger, authenticator *service.Authenticator) *InterceptorChain {
	return &InterceptorChain{
		log:           log.WithComponent("grpc"),
		authenticator: authenticator,
	}
}

// Unary returns recovery, logging and authentication in that order. Health checks skip
// authentication.
func (ic *InterceptorChain) Unary() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(ic.recover)),
		logging.UnaryServerInterceptor(InterceptorLogger(ic.log), logging.WithLogOnEvents(logging.FinishCall)),
		selector.UnaryServerInterceptor(auth.UnaryServerInterceptor(ic.AuthFunc), selector.MatchFunc(requiresAuth)),
	}
}

func requiresAuth(_ context.Context, call interceptors.CallMeta) bool {
	return call.Service != healthpb.Health_ServiceDesc.ServiceName
}

// AuthFunc runs the authentication filter on the authorization metadata. Requests
// without a usable bearer token continue anonymously.
func (ic *InterceptorChain) AuthFunc(ctx context.Context) (context.Context, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}

	out, outcome, err := ic.authenticator.Authenticate(ctx, header)
	if !outcome.Proceeds() {
		return nil, StatusFromError(err)
	}
	return out, nil
}

func (ic *InterceptorChain) recover(ctx context.Context, p any) error {
	err := fmt.Errorf("panic: %v", p)
	ic.log.Error(ctx, "gRPC handler panic recovered", err)
	return status.Error(codes.Internal, "Internal server error")
}

// StatusFromError converts an application error to a gRPC status error.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	switch errors.KindOf(err) {
	case errors.KindTokenInvalid:
		code = codes.Unauthenticated
	case errors.KindForbidden:
		code = codes.PermissionDenied
	case errors.KindUserNotFound:
		code = codes.NotFound
	case errors.KindInvalidRequest, errors.KindUserExists, errors.KindTokenNotFound,
		errors.KindAlreadyActivated, errors.KindExpired:
		code = codes.InvalidArgument
	case errors.KindKMSFailure, errors.KindStorageFailure, errors.KindPublishFailure:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, errors.PublicMessage(err))
}

// InterceptorLogger adapts logger.Logger to the go-grpc-middleware logging interface.
func InterceptorLogger(l logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		fs := make([]logger.Field, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			fs = append(fs, logger.Any(key, fields[i+1]))
		}

		switch lvl {
		case logging.LevelDebug:
			l.Debug(ctx, msg, fs...)
		case logging.LevelWarn:
			l.Warn(ctx, msg, fs...)
		case logging.LevelError:
			l.Error(ctx, msg, nil, fs...)
		default:
			l.Info(ctx, msg, fs...)
		}
	})
}
