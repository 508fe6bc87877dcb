package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	authvalidator "github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/auth"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/metrics"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
)

const (
	principalContextKey = "principal"
	profileContextKey   = "profile"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (*authvalidator.PrincipalClaims, error)
}

// ProfileResolver materialises the console profile for an identity.
type ProfileResolver interface {
	EnsureUser(ctx context.Context, identity user.Identity) (*user.User, error)
}

// AuthMiddleware validates the bearer token and resolves the caller's
// profile row, storing both on the request context. Every request
// through here has a persisted profile.
func AuthMiddleware(validator TokenValidator, profiles ProfileResolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			metrics.RecordAuth("missing_token")
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			metrics.RecordAuth("invalid_token")
			logger.Error().Err(err).Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		identity := user.Identity{Subject: claims.Subject, Email: claims.Email}
		if claims.Name != "" {
			name := claims.Name
			identity.FullName = &name
		}
		profile, err := profiles.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			metrics.RecordAuth("profile_error")
			logger.Error().Err(err).Str("subject", claims.Subject).Msg("failed to resolve profile")
			responses.HandleError(c, err, "failed to resolve profile")
			return
		}

		metrics.RecordAuth("ok")
		setPrincipal(c, domain.Principal{
			Subject: claims.Subject,
			Issuer:  claims.Issuer,
			Email:   claims.Email,
			Name:    claims.Name,
			Scopes:  claims.Scopes,
			TokenID: claims.TokenID,
		})
		c.Set(profileContextKey, profile)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// ProfileFromContext returns the caller's profile row, if any.
func ProfileFromContext(c *gin.Context) (*user.User, bool) {
	val, ok := c.Get(profileContextKey)
	if !ok {
		return nil, false
	}
	profile, ok := val.(*user.User)
	return profile, ok
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_subject", principal.Subject)
	c.Set("user_email", principal.Email)
	if principal.Subject != "" {
		c.Writer.Header().Set("X-User-Subject", principal.Subject)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
