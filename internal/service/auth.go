package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/usecase"
)

var tracer = otel.Tracer("service")

// Claims is the identity claim carried by the bearer token. Only UserID
// is consumed; role and email always come from the directory.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

type AuthService struct {
	secret []byte
	users  usecase.UserRepository
	cache  *gocache.Cache
}

func NewAuthService(secret []byte, users usecase.UserRepository) *AuthService {
	return &AuthService{
		secret: secret,
		users:  users,
		cache:  gocache.New(30*time.Second, time.Minute),
	}
}

// AuthJWT validates the bearer token and resolves it to the current user
// record. Lookups are cached briefly; membership races are still safe
// because the invitation transition is a conditional write at the store.
func (s *AuthService) AuthJWT(ctx context.Context, token string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthJWT")
	defer span.End()

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "jwt validation failed")
	}
	if !parsed.Valid || claims.UserID == "" {
		err := errors.New("token carries no user identity")
		span.RecordError(err)
		return domain.User{}, err
	}

	if cached, ok := s.cache.Get(claims.UserID); ok {
		return cached.(domain.User), nil
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "token user lookup failed")
	}

	s.cache.Set(claims.UserID, user, gocache.DefaultExpiration)
	return user, nil
}

// Invalidate drops a cached user, used after membership changes.
func (s *AuthService) Invalidate(userID string) {
	s.cache.Delete(userID)
}
