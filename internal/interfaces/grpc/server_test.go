package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/internal/application/service"
	appmocks "github.com/turtacn/usersvc/internal/application/service/mocks"
	"github.com/turtacn/usersvc/internal/domain/models"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/internal/domain/service/mocks"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

type grpcFixture struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	tokens *mocks.MockTokenService
	users  *mocks.MockUserLookup
	app    *appmocks.MockAuthAppService
}

func newGRPCFixture(t *testing.T) *grpcFixture {
	t.Helper()
	log := logger.NewNoopLogger()
	tokens := new(mocks.MockTokenService)
	users := new(mocks.MockUserLookup)
	app := new(appmocks.MockAuthAppService)
	chain := NewInterceptorChain(log, service.NewAuthenticator(tokens, users, domainService.NoopMetrics{}, log))
	srv := NewServer(chain, NewUserService(app), log)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &grpcFixture{conn: conn, health: healthpb.NewHealthClient(conn), tokens: tokens, users: users, app: app}
}

func (f *grpcFixture) authorize(ctx context.Context) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := f.conn.Invoke(ctx, AuthorizeMethod, &emptypb.Empty{}, out)
	return out, err
}

func withAuthorization(value string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", value)
}

func hasIdentity(userID uuid.UUID) func(ctx context.Context) bool {
	return func(ctx context.Context) bool {
		id, ok := models.IdentityFromContext(ctx)
		return ok && id.UserID == userID
	}
}

func TestServer_HealthSkipsAuthentication(t *testing.T) {
	f := newGRPCFixture(t)

	resp, err := f.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = f.health.Check(withAuthorization("Bearer forged"), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	f.tokens.AssertNotCalled(t, "ExtractSubject", mock.Anything, mock.Anything)
}

func TestServer_AuthorizeAnonymousIsDenied(t *testing.T) {
	f := newGRPCFixture(t)
	f.app.On("Authorize", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := models.IdentityFromContext(ctx)
		return !ok
	})).Return(nil, errors.ErrForbidden("Access denied"))

	_, err := f.authorize(context.Background())

	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Equal(t, "Access denied", status.Convert(err).Message())
	f.tokens.AssertNotCalled(t, "ExtractSubject", mock.Anything, mock.Anything)
}

func TestServer_ForgedTokenIsUnauthenticated(t *testing.T) {
	f := newGRPCFixture(t)
	f.tokens.On("ExtractSubject", mock.Anything, "forged").Return("", errors.ErrTokenInvalid("signature"))

	_, err := f.authorize(withAuthorization("Bearer forged"))

	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "JWT is invalid", status.Convert(err).Message())
	f.app.AssertNotCalled(t, "Authorize", mock.Anything)
}

func TestServer_ExpiredTokenIsUnauthenticated(t *testing.T) {
	f := newGRPCFixture(t)
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleUser}
	f.tokens.On("ExtractSubject", mock.Anything, "old").Return("jane@example.com", nil)
	f.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	f.tokens.On("Validate", mock.Anything, "old", "jane@example.com").Return(false, nil)

	_, err := f.authorize(withAuthorization("Bearer old"))

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	f.app.AssertNotCalled(t, "Authorize", mock.Anything)
}

func TestServer_AuthorizeReturnsIdentityHeaders(t *testing.T) {
	f := newGRPCFixture(t)
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleUser}
	f.tokens.On("ExtractSubject", mock.Anything, "good").Return("jane@example.com", nil)
	f.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	f.tokens.On("Validate", mock.Anything, "good", "jane@example.com").Return(true, nil)
	f.app.On("Authorize", mock.MatchedBy(hasIdentity(user.ID))).
		Return(dto.AuthorizationHeaders{"X-User-Id": user.ID.String(), "X-User-Role": "USER"}, nil).Once()

	resp, err := f.authorize(withAuthorization("Bearer good"))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"X-User-Id": user.ID.String(), "X-User-Role": "USER"}, resp.AsMap())
	f.app.AssertExpectations(t)
}

func TestAuthFunc_EstablishesIdentity(t *testing.T) {
	log := logger.NewNoopLogger()
	tokens := new(mocks.MockTokenService)
	users := new(mocks.MockUserLookup)
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleAdmin}
	tokens.On("ExtractSubject", mock.Anything, "good").Return("jane@example.com", nil)
	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	tokens.On("Validate", mock.Anything, "good", "jane@example.com").Return(true, nil)

	chain := NewInterceptorChain(log, service.NewAuthenticator(tokens, users, domainService.NoopMetrics{}, log))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))

	out, err := chain.AuthFunc(ctx)
	require.NoError(t, err)
	id, ok := models.IdentityFromContext(out)
	require.True(t, ok)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, []string{"ROLE_ADMIN"}, id.Authorities)
}

func TestStatusFromError(t *testing.T) {
	assert.NoError(t, StatusFromError(nil))
	assert.Equal(t, codes.NotFound, status.Code(StatusFromError(errors.ErrUserNotFound("x"))))
	assert.Equal(t, codes.PermissionDenied, status.Code(StatusFromError(errors.ErrForbidden("no"))))
	assert.Equal(t, codes.Unavailable, status.Code(StatusFromError(errors.ErrKMSFailure("decrypt"))))
	assert.Equal(t, "Internal server error", status.Convert(StatusFromError(errors.ErrStorageFailure("find"))).Message())
}
