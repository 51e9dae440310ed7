package router

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/handlers"
	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/config"
	"github.com/playtube/backend/pkg/storage"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			log.Printf("%s %s -> %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.HTTPErrorHandler = errorHandler
	log.Println("Global middleware configured.")
}

// errorHandler renders every failure as the standard error envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	message := "Internal Server Error"
	if httpErr, ok := err.(*echo.HTTPError); ok {
		statusCode = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(statusCode)
		}
	}

	// internal failures carry the underlying error; the client only ever
	// sees the generic message
	if statusCode >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	}

	resp := models.APIErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     []string{message},
	}
	if jsonErr := c.JSON(statusCode, resp); jsonErr != nil {
		log.Printf("errorHandler: failed to write response: %v", jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, store storage.ObjectStore, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	videoRepo := repositories.NewMongoVideoRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	tweetRepo := repositories.NewMongoTweetRepository(db)
	playlistRepo := repositories.NewMongoPlaylistRepository(db)
	likeRepo := repositories.NewMongoLikeRepository(db)
	subscriptionRepo := repositories.NewMongoSubscriptionRepository(db)
	dashboardRepo := repositories.NewMongoDashboardRepository(db)

	tokenService := auth.NewTokenService(cfg)

	// --- Route groups ---
	// public: no token handling. optional: token resolved when present, used
	// by reads that personalize output. protected: token required.
	public := e.Group("/api/v1")
	optional := e.Group("/api/v1")
	optional.Use(middleware.OptionalJWTAuthMiddleware(tokenService, userRepo))
	protected := e.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokenService, userRepo))

	authHandler := handlers.NewAuthHandler(userRepo, tokenService, store, cfg)
	authHandler.RegisterAuthRoutes(public, protected)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, likeRepo, store)
	userHandler.RegisterUserRoutes(optional, protected)
	log.Println("User routes configured.")

	videoHandler := handlers.NewVideoHandler(videoRepo, userRepo, store)
	videoHandler.RegisterVideoRoutes(optional, protected)
	log.Println("Video routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, videoRepo)
	commentHandler.RegisterCommentRoutes(optional, protected)
	log.Println("Comment routes configured.")

	tweetHandler := handlers.NewTweetHandler(tweetRepo)
	tweetHandler.RegisterTweetRoutes(optional, protected)
	log.Println("Tweet routes configured.")

	playlistHandler := handlers.NewPlaylistHandler(playlistRepo, videoRepo)
	playlistHandler.RegisterPlaylistRoutes(optional, protected)
	log.Println("Playlist routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, videoRepo, commentRepo, tweetRepo)
	likeHandler.RegisterLikeRoutes(protected)
	log.Println("Like routes configured.")

	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, userRepo)
	subscriptionHandler.RegisterSubscriptionRoutes(protected)
	log.Println("Subscription routes configured.")

	dashboardHandler := handlers.NewDashboardHandler(dashboardRepo, videoRepo)
	dashboardHandler.RegisterDashboardRoutes(protected)
	log.Println("Dashboard routes configured.")

	log.Println("All routes configured.")
}
