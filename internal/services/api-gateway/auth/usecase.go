package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	domainauth "github.com/NordCoder/Carelink/internal/domain/auth"
	"github.com/NordCoder/Carelink/internal/domain/user"
	"github.com/NordCoder/Carelink/internal/obs"
)

var authOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_operations_total",
	Help: "Auth operations by name and outcome.",
}, []string{"op", "outcome"})

var ErrMissingCredentials = domain.Detail(domain.ErrInvalidInput, "email and password are required")

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
	// Burn spends the cost of one Verify without a stored hash.
	Burn(password string)
}

type TokenCodec interface {
	Encode(userID int64) (string, error)
	Decode(token string) (int64, error)
	TTL() time.Duration
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Usecase struct {
	users  user.Repo
	store  *RefreshStore
	tx     Transactor
	hasher PasswordHasher
	codec  TokenCodec
	log    *zap.Logger
	tracer trace.Tracer
}

func NewUseCase(
	users user.Repo,
	store *RefreshStore,
	tx Transactor,
	hasher PasswordHasher,
	codec TokenCodec,
	log *zap.Logger,
) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		users:  users,
		store:  store,
		tx:     tx,
		hasher: hasher,
		codec:  codec,
		log:    log.With(zap.String("component", "auth.usecase")),
		tracer: otel.Tracer("auth.usecase"),
	}
}

// Register creates an account. The email is stored as given and duplicates
// are matched case for case. A blank email counts as missing.
func (u *Usecase) Register(ctx context.Context, email, password string) (_ *user.User, err error) {
	ctx, span := u.tracer.Start(ctx, "auth.register")
	defer u.finish(span, "register", &err)

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created := &user.User{Email: email, Password: hash}
	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		_, err := u.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return domainauth.ErrEmailAlreadyRegistered
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("find user: %w", err)
		}
		if err := u.users.Create(ctx, created); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domainauth.ErrEmailAlreadyRegistered
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", created.ID))
	obs.WithTrace(ctx, u.log).Info("user registered", zap.Int64("user_id", created.ID))
	return created, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, email, password string) (_ *domainauth.TokenPair, err error) {
	ctx, span := u.tracer.Start(ctx, "auth.login")
	defer u.finish(span, "login", &err)

	found, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.hasher.Burn(password)
			return nil, domainauth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !u.hasher.Verify(password, found.Password) {
		return nil, domainauth.ErrInvalidCredentials
	}

	var pair *domainauth.TokenPair
	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		pair, err = u.issue(ctx, found.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	obs.WithTrace(ctx, u.log).Info("user logged in", zap.Int64("user_id", found.ID))
	return pair, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued for the same user in one transaction.
func (u *Usecase) Refresh(ctx context.Context, raw string) (_ *domainauth.TokenPair, err error) {
	ctx, span := u.tracer.Start(ctx, "auth.refresh")
	defer u.finish(span, "refresh", &err)

	if raw == "" {
		return nil, domainauth.ErrInvalidRefreshToken
	}

	var pair *domainauth.TokenPair
	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		rec, err := u.store.Consume(ctx, raw)
		if err != nil {
			return err
		}
		pair, err = u.issue(ctx, rec.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the token if it exists. Unknown, revoked and expired
// tokens are accepted silently.
func (u *Usecase) Logout(ctx context.Context, raw string) (err error) {
	ctx, span := u.tracer.Start(ctx, "auth.logout")
	defer u.finish(span, "logout", &err)

	return u.tx.WithTx(ctx, func(ctx context.Context) error {
		rec, err := u.store.Lookup(ctx, raw)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("lookup refresh: %w", err)
		}
		if rec.Revoked {
			return nil
		}
		if err := u.store.Revoke(ctx, rec); err != nil {
			return fmt.Errorf("revoke refresh: %w", err)
		}
		obs.WithTrace(ctx, u.log).Info("user logged out", zap.Int64("user_id", rec.UserID))
		return nil
	})
}

func (u *Usecase) issue(ctx context.Context, userID int64) (*domainauth.TokenPair, error) {
	access, err := u.codec.Encode(userID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := u.store.Issue(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domainauth.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresIn:    int64(u.codec.TTL() / time.Second),
	}, nil
}

func (u *Usecase) finish(span trace.Span, op string, errp *error) {
	defer span.End()
	err := *errp
	switch {
	case err == nil:
		authOps.WithLabelValues(op, "ok").Inc()
	case isClientError(err):
		authOps.WithLabelValues(op, "rejected").Inc()
		span.SetAttributes(attribute.String("auth.rejected", err.Error()))
	default:
		authOps.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		u.log.Error("auth operation failed", zap.String("op", op), zap.Error(err))
	}
}

func isClientError(err error) bool {
	return errors.Is(err, domainauth.ErrEmailAlreadyRegistered) ||
		errors.Is(err, domainauth.ErrInvalidCredentials) ||
		errors.Is(err, domainauth.ErrInvalidRefreshToken) ||
		errors.Is(err, domainauth.ErrInvalidAccessToken) ||
		errors.Is(err, domainauth.ErrUserNotFound) ||
		errors.Is(err, domain.ErrInvalidInput)
}
