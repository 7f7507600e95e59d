package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/api"
	"github.com/petcare-clinic/petcare-backend/internal/appointment"
	"github.com/petcare-clinic/petcare-backend/internal/assistant"
	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/ratelimit"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
	"github.com/petcare-clinic/petcare-backend/internal/user"
	"github.com/petcare-clinic/petcare-backend/internal/workhours"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *zap.Logger

	ClinicLocation *time.Location
	SlotInterval   time.Duration
	Clock          schedule.Clock // nil means the system clock

	// Redis, when set, backs a limiter shared across instances. Otherwise
	// RateLimitPerMinute > 0 enables an in-process limiter.
	Redis              *redis.Client
	RateLimitPerMinute int

	// Without a Gemini key the scheduling assistant answers 503.
	GeminiAPIKey string
	GeminiModel  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Engine     *schedule.Engine
	Agent      *assistant.Agent
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, logger)

	// Pet Module
	petService := pet.NewService(pet.NewPgxRepository(cfg.DBPool))

	// Service Catalog Module
	offeringService := offering.NewService(offering.NewPgxRepository(cfg.DBPool))

	// Working Hours Module
	workhoursService := workhours.NewService(workhours.NewPgxRepository(cfg.DBPool))

	// Slot Engine and Appointment Module
	appointmentRepo := appointment.NewPgxRepository(cfg.DBPool)
	engine := schedule.NewEngine(workhoursService, appointmentRepo, cfg.Clock, schedule.Policy{
		Interval: cfg.SlotInterval,
		Location: cfg.ClinicLocation,
	})
	appointmentService := appointment.NewService(appointmentRepo, engine, petService, offeringService, logger)

	// Scheduling Assistant
	tools := assistant.NewTools(engine, offeringService, petService, logger)
	var agent *assistant.Agent
	if cfg.GeminiAPIKey != "" {
		var err error
		agent, err = assistant.NewGeminiAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, tools, logger)
		if err != nil {
			return nil, fmt.Errorf("init scheduling assistant: %w", err)
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, scheduling assistant disabled")
	}

	// Rate Limiting
	var limiter ratelimit.Limiter
	switch {
	case cfg.Redis != nil:
		limiter = ratelimit.NewRedisLimiter(cfg.Redis, cfg.RateLimitPerMinute, time.Minute, "petcare:rl")
	case cfg.RateLimitPerMinute > 0:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
	}

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             logger,
		RateLimiter:        limiter,
		ClinicLocation:     engine.Location(),
		JWTManager:         jwtManager,
		HealthCheck:        cfg.DBPool.Ping,
		UserService:        userService,
		PetService:         petService,
		OfferingService:    offeringService,
		WorkHoursService:   workhoursService,
		AppointmentService: appointmentService,
		AssistantTools:     tools,
		Assistant:          agent,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Engine:     engine,
		Agent:      agent,
	}, nil
}

// Close releases the components the container owns.
func (c *Container) Close() error {
	return c.Agent.Close()
}
