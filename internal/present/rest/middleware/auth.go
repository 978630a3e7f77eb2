package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/present/rest/presenter"
	"github.com/agencyvault/agencyvault/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// RequireActor resolves the bearer token to a user record and stores it
// in the request context. Every /api route runs behind this.
func (s *AuthMiddleware) RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireActor")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")
		if authHeader == "" {
			return presenter.Unauthorized(c, "authorization header is required")
		}

		split := strings.Split(authHeader, " ")
		if len(split) != 2 || split[0] != "Bearer" {
			span.RecordError(errors.New("invalid authentication header"))
			return presenter.Unauthorized(c, "only Bearer authentication is acceptable")
		}

		actor, err := s.auth.AuthJWT(ctx, split[1])
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireActor: s.auth.AuthJWT failed"))
			return presenter.Unauthorized(c, "invalid or expired token")
		}

		ctx = context.WithValue(ctx, domain.ActorCtxKey, actor)
		span.SetAttributes(attribute.String("ActorId", actor.ID))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
