package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saludtech/profiling-api/internal/api/handler"
	"github.com/saludtech/profiling-api/internal/api/middleware"
	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/service"
	"github.com/saludtech/profiling-api/internal/infrastructure/config"
	mongodb "github.com/saludtech/profiling-api/internal/infrastructure/db/mongo"
	redisdb "github.com/saludtech/profiling-api/internal/infrastructure/db/redis"
	"github.com/saludtech/profiling-api/internal/infrastructure/predictor"
	"github.com/saludtech/profiling-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the recompute dispatcher, which the caller must Start.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("profiling"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	predictionCache := redisdb.NewPredictionCache(rdb)
	profilePredictor := predictor.NewHTTPPredictor(predictor.Config{
		URL:     cfg.Predictor.URL,
		Timeout: cfg.Predictor.Timeout,
	})

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, cfg.BcryptCost, log)
	patientService := service.NewPatientService(patientRepo, profilePredictor, predictionCache, log)
	dispatcher := queue.NewDispatcher(cfg.Predictor.Workers, patientService, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	patientHandler := handler.NewPatientHandler(patientService, dispatcher)

	authenticated := middleware.Auth(tokens, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyActive := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)

	// --- Auth routes ---
	e.POST("/users/login", authHandler.Login)

	// --- Admin routes ---
	admin := e.Group("/admin", authenticated, adminOnly)
	admin.GET("/users", userHandler.List)
	admin.POST("/users/register", userHandler.Register)
	admin.PATCH("/users/:id/status", userHandler.SetStatus)
	admin.POST("/patients/recompute", patientHandler.RecomputeAll)

	// --- Patient routes ---
	patients := e.Group("/patients", authenticated, anyActive)
	patients.POST("", patientHandler.Create)
	patients.GET("", patientHandler.List)
	patients.GET("/:id", patientHandler.Get)
	patients.PUT("/:id", patientHandler.Update)
	patients.DELETE("/:id", patientHandler.Delete)
	patients.POST("/:id/predict", patientHandler.Predict)

	// --- Health probes and observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, dispatcher
}
