package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/appointment"
	appointmentHttp "github.com/petcare-clinic/petcare-backend/internal/appointment/http"
	assistantHttp "github.com/petcare-clinic/petcare-backend/internal/assistant/http"
	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/logging"
	"github.com/petcare-clinic/petcare-backend/internal/offering"
	offeringHttp "github.com/petcare-clinic/petcare-backend/internal/offering/http"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	petHttp "github.com/petcare-clinic/petcare-backend/internal/pet/http"
	"github.com/petcare-clinic/petcare-backend/internal/ratelimit"
	"github.com/petcare-clinic/petcare-backend/internal/user"
	userHttp "github.com/petcare-clinic/petcare-backend/internal/user/http"
	"github.com/petcare-clinic/petcare-backend/internal/workhours"
	workhoursHttp "github.com/petcare-clinic/petcare-backend/internal/workhours/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	Logger         *zap.Logger
	RateLimiter    ratelimit.Limiter // nil disables rate limiting
	ClinicLocation *time.Location
	JWTManager     *auth.JWTManager
	HealthCheck    func(ctx context.Context) error

	UserService        user.Service
	PetService         pet.Service
	OfferingService    offering.Service
	WorkHoursService   workhours.Service
	AppointmentService appointment.Service
	AssistantTools     assistantHttp.ToolRunner
	Assistant          assistantHttp.Runner
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Logging: Request ID plus one structured access log line per request.
	r.Use(gin.Recovery(), logging.Middleware(logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{logging.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	if cfg.RateLimiter != nil {
		r.Use(ratelimit.Middleware(cfg.RateLimiter, true))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(c.Request.Context()); err != nil {
				logging.FromContext(c).Error("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates the JWT and loads the caller's current role.
	authMiddleware := auth.AuthRequired(cfg.JWTManager, PrincipalLookup(cfg.UserService))
	// staffMiddleware: Further checks that the authenticated user is clinic staff.
	staffMiddleware := auth.RequireStaff()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	petHandler := petHttp.NewHandler(cfg.PetService)
	offeringHandler := offeringHttp.NewHandler(cfg.OfferingService)
	workhoursHandler := workhoursHttp.NewHandler(cfg.WorkHoursService)
	appointmentHandler := appointmentHttp.NewHandler(cfg.AppointmentService, cfg.ClinicLocation)
	assistantHandler := assistantHttp.NewHandler(cfg.AssistantTools, cfg.Assistant)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, staffMiddleware)
		petHttp.RegisterRoutes(v1, petHandler, authMiddleware)
		offeringHttp.RegisterRoutes(v1, offeringHandler, authMiddleware, staffMiddleware)
		workhoursHttp.RegisterRoutes(v1, workhoursHandler, authMiddleware, staffMiddleware)
		appointmentHttp.RegisterRoutes(v1, appointmentHandler, authMiddleware)
		assistantHttp.RegisterRoutes(v1, assistantHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{"http://localhost:3000", "http://localhost:8081"}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		// cors.New panics on an empty origin list.
		origins = []string{"https://localhost"}
	}
	return origins
}
