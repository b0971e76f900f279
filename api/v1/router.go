package v1

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/releaserite/config"
	"github.com/releaserite/metrics"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared components the API is built from
type Dependencies struct {
	Config  config.Config
	DB      *gorm.DB
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Revoker services.TokenRevoker // nil disables token revocation
}

// NewRouter builds the gin engine serving the v1 API under the configured prefix,
// plus /health and /metrics at the root
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New("")
	}
	if deps.Revoker == nil {
		deps.Revoker = services.NoopRevoker{}
	}

	tokens, err := services.NewTokenService(deps.Config, deps.Revoker)
	if err != nil {
		return nil, errors.Wrap(err, "token service")
	}

	registerValidators()

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logging(deps.Logger))
	router.Use(deps.Metrics.Middleware())
	router.Use(cors.New(corsConfig(deps.Config.AllowedOrigins)))

	health := NewHealthController(deps.DB, deps.Logger)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", deps.Metrics.Handler())

	authService := services.NewAuthService(deps.DB, tokens, deps.Metrics, deps.Logger)
	releaseService := services.NewReleaseService(deps.DB, deps.Metrics, deps.Logger)

	api := router.Group(deps.Config.APIPrefix)

	loginLimiter := middleware.NewIPRateLimiter(deps.Config.LoginRateLimit)
	NewAuthController(authService).RegisterRoutes(api, middleware.RateLimit(loginLimiter, deps.Metrics))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	NewServiceController(services.NewServiceService(deps.DB, deps.Logger)).RegisterRoutes(protected)
	NewEnvironmentController(services.NewEnvironmentService(deps.DB, deps.Logger)).RegisterRoutes(protected)
	NewRoleController(services.NewRoleService(deps.DB, deps.Logger)).RegisterRoutes(protected)
	NewUserController(services.NewUserService(deps.DB, deps.Logger)).RegisterRoutes(protected)
	NewReleaseController(releaseService, services.NewReportService(releaseService, deps.Logger)).RegisterRoutes(protected)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
