package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

const userContextKey = "user"

// JWTAuthMiddleware validates the access token from the accessToken cookie or
// the Authorization header (cookie wins) and attaches the resolved user to
// the request context. The user is looked up once with credential fields
// projected away, and every downstream check in the request reuses it.
func JWTAuthMiddleware(tokens *auth.TokenService, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, tokens, users)
			if err != nil {
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalJWTAuthMiddleware resolves the user when a valid token is present
// and continues anonymously otherwise. Read endpoints use it for
// personalization fields such as isSubscribed.
func OptionalJWTAuthMiddleware(tokens *auth.TokenService, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := resolveUser(c, tokens, users); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by the auth middleware, or nil
// for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

func resolveUser(c echo.Context, tokens *auth.TokenService, users repositories.UserRepository) (*models.User, error) {
	raw := extractToken(c)
	if raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized request")
	}

	claims, err := tokens.VerifyAccessToken(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}

	user, err := users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve user")
	}
	return user, nil
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
