package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/turtacn/usersvc/internal/domain/models"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

var tracer = otel.Tracer("usersvc/application")

// AuthOutcome names the path a request took through the Authenticator.
type AuthOutcome string

const (
	OutcomeNoHeader             AuthOutcome = "no_header"
	OutcomeInvalidFormat        AuthOutcome = "invalid_format"
	OutcomeMissingSubject       AuthOutcome = "missing_subject"
	OutcomeAlreadyAuthenticated AuthOutcome = "already_authenticated"
	OutcomeAuthenticated        AuthOutcome = "authenticated"
	OutcomeRejected             AuthOutcome = "rejected"
)

// Proceeds reports whether the request continues down the chain. Every outcome except
// Rejected passes through; access control on anonymous requests is left to later stages.
func (o AuthOutcome) Proceeds() bool {
	return o != OutcomeRejected
}

// Authenticator turns an Authorization header into an Identity on the request context.
// It holds no per-request state and never writes a response; transports adapt it.
type Authenticator struct {
	tokens  domainService.TokenService
	users   domainService.UserLookup
	metrics domainService.Metrics
	logger  logger.Logger
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(tokens domainService.TokenService, users domainService.UserLookup, metrics domainService.Metrics, log logger.Logger) *Authenticator {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	return &Authenticator{
		tokens:  tokens,
		users:   users,
		metrics: metrics,
		logger:  log.WithComponent("Authenticator"),
	}
}

// Authenticate evaluates header for the request carried by ctx. On OutcomeAuthenticated
// the returned context carries the identity; on OutcomeRejected err says why and the
// caller must report it and stop. All other outcomes return ctx unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (context.Context, AuthOutcome, error) {
	out, outcome, err := a.authenticate(ctx, header)
	a.metrics.RecordAuthOutcome(string(outcome))
	if err != nil {
		a.logger.Debug(ctx, "Request rejected by authentication",
			logger.String("reason", errors.KindOf(err).String()),
		)
	}
	return out, outcome, err
}

func (a *Authenticator) authenticate(ctx context.Context, header string) (context.Context, AuthOutcome, error) {
	if header == "" {
		return ctx, OutcomeNoHeader, nil
	}
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return ctx, OutcomeInvalidFormat, nil
	}
	token := header[len(constants.BearerPrefix):]

	spanCtx, span := tracer.Start(ctx, "authenticate")
	defer span.End()

	subject, err := a.tokens.ExtractSubject(spanCtx, token)
	if err != nil {
		return ctx, OutcomeRejected, err
	}
	if subject == "" {
		return ctx, OutcomeMissingSubject, nil
	}
	if _, ok := models.IdentityFromContext(ctx); ok {
		return ctx, OutcomeAlreadyAuthenticated, nil
	}

	user, err := a.users.FindByEmail(spanCtx, subject)
	if err != nil {
		return ctx, OutcomeRejected, err
	}

	valid, err := a.tokens.Validate(spanCtx, token, user.Email)
	if err != nil {
		return ctx, OutcomeRejected, err
	}
	if !valid {
		return ctx, OutcomeRejected, errors.ErrTokenInvalid("expired or subject mismatch")
	}

	// The identity is built from a fresh read so it reflects the account as of now.
	user, err = a.users.FindByEmail(spanCtx, subject)
	if err != nil {
		return ctx, OutcomeRejected, err
	}

	return models.WithIdentity(ctx, models.NewIdentity(user)), OutcomeAuthenticated, nil
}
