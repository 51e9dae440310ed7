package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/config"
	"github.com/playtube/backend/pkg/storage"
)

// AuthHandler handles registration, login and token lifecycle requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokenService   *auth.TokenService
	store          storage.ObjectStore
	accessExpiry   time.Duration
	refreshExpiry  time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokenService *auth.TokenService, store storage.ObjectStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokenService:   tokenService,
		store:          store,
		accessExpiry:   cfg.AccessTokenExpiry,
		refreshExpiry:  cfg.RefreshTokenExpiry,
	}
}

// RegisterAuthRoutes registers authentication routes on the public and
// protected groups.
func (h *AuthHandler) RegisterAuthRoutes(public, protected *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)
	protected.POST("/auth/logout", h.Logout)
	protected.POST("/auth/change-password", h.ChangePassword)
}

// Register handles user registration with avatar and optional cover image
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Username) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}

	// reject a taken email or username before touching the object store; the
	// unique index still backstops concurrent registrations
	if _, err := h.userRepository.GetByEmailOrUsername(c.Request().Context(), req.Email, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with email or username already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while registering the user").SetInternal(err)
	}

	avatar, err := uploadFormFile(c, h.store, "avatar", "avatars", true)
	if err != nil {
		return err
	}
	cover, err := uploadFormFile(c, h.store, "coverImage", "covers", false)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password").SetInternal(err)
	}

	user := &models.User{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     req.Email,
		Username:  req.Username,
		Password:  passwordHash,
		Avatar:    avatar.URL,
		AvatarKey: avatar.Key,
	}
	if cover != nil {
		user.CoverImage = cover.URL
		user.CoverKey = cover.Key
	}

	if err := h.userRepository.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "User with email or username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while registering the user").SetInternal(err)
	}

	created, err := h.userRepository.GetByID(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while registering the user").SetInternal(err)
	}

	return c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, created, "User registered successfully"))
}

// Login authenticates with email or username plus password and issues a
// token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Email == "" && req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username or email is required")
	}

	user, err := h.userRepository.GetByEmailOrUsername(c.Request().Context(), req.Email, req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user credentials")
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user credentials")
	}

	accessToken, refreshToken, err := h.issueTokenPair(c.Request().Context(), user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens").SetInternal(err)
	}
	h.setAuthCookies(c, accessToken, refreshToken)

	loggedIn, err := h.userRepository.GetByID(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while logging in").SetInternal(err)
	}

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{
		"user":         loggedIn,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "User logged in successfully"))
}

// Logout invalidates the stored refresh token and clears auth cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	user := middleware.CurrentUser(c)

	if err := h.userRepository.ClearRefreshToken(c.Request().Context(), user.ID); err != nil {
		log.Printf("Logout: failed to clear refresh token for %s: %v", user.ID.Hex(), err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while logging out").SetInternal(err)
	}

	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "User logged out successfully"))
}

// Refresh rotates the token pair. The presented refresh token must both
// verify and equal the stored value; older tokens are rejected even when
// their signature is still valid.
func (h *AuthHandler) Refresh(c echo.Context) error {
	incoming := h.incomingRefreshToken(c)
	if incoming == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized request")
	}

	claims, err := h.tokenService.VerifyRefreshToken(incoming)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	user, err := h.userRepository.GetByIDWithSecrets(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}
	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is expired or invalid")
	}

	accessToken, refreshToken, err := h.issueTokenPair(c.Request().Context(), user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens").SetInternal(err)
	}
	h.setAuthCookies(c, accessToken, refreshToken)

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Access token refreshed"))
}

// ChangePassword verifies the old password and stores a new hash.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	current := middleware.CurrentUser(c)
	user, err := h.userRepository.GetByIDWithSecrets(c.Request().Context(), current.ID)
	if err != nil {
		return repoError(err, "User not found")
	}
	if err := auth.CheckPassword(user.Password, req.OldPassword); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid old password")
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password").SetInternal(err)
	}
	if err := h.userRepository.UpdatePassword(c.Request().Context(), user.ID, newHash); err != nil {
		return repoError(err, "User not found")
	}

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "Password changed successfully"))
}

// issueTokenPair issues both tokens and persists the refresh token, replacing
// any prior value.
func (h *AuthHandler) issueTokenPair(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, err := h.tokenService.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := h.tokenService.IssueRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	if err := h.userRepository.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (h *AuthHandler) incomingRefreshToken(c echo.Context) string {
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(authCookie("accessToken", accessToken, h.accessExpiry))
	c.SetCookie(authCookie("refreshToken", refreshToken, h.refreshExpiry))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	c.SetCookie(authCookie("accessToken", "", -time.Hour))
	c.SetCookie(authCookie("refreshToken", "", -time.Hour))
}

func authCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
