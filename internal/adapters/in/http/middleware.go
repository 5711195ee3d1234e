package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"washline/internal/pkg/auth"
	"washline/internal/pkg/metrics"
)

// Context keys set by the authentication middleware.
const (
	contextKeyActorID = "actorID"
	contextKeyRole    = "actorRole"
)

// Authenticate verifies the bearer token and stores the actor's identity in
// the request context.
func Authenticate(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    "unauthorized",
					Message: "authorization header is required",
				})
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    "unauthorized",
					Message: "invalid token format",
				})
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    "unauthorized",
					Message: "invalid or expired token",
				})
			}

			ctx.Set(contextKeyActorID, claims.ActorID)
			ctx.Set(contextKeyRole, claims.Role)
			return next(ctx)
		}
	}
}

// Authorize restricts a route to the given roles. Must run after Authenticate.
func Authorize(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role, _ := ctx.Get(contextKeyRole).(string)
			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(ctx)
				}
			}

			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Code:    "forbidden",
				Message: "insufficient role for this resource",
			})
		}
	}
}

// measureRequests records each request's wall time in the request duration
// histogram.
func measureRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			metrics.RequestDuration.Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// actorID returns the authenticated actor's identifier from the context.
func actorID(ctx echo.Context) string {
	id, _ := ctx.Get(contextKeyActorID).(string)
	return id
}
