package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/applepeerke/fishing-sub000/api/swagger"
	"github.com/applepeerke/fishing-sub000/internal/handler"
	"github.com/applepeerke/fishing-sub000/internal/repository"
	"github.com/applepeerke/fishing-sub000/internal/service"
	"github.com/applepeerke/fishing-sub000/pkg/cache"
	"github.com/applepeerke/fishing-sub000/pkg/config"
	"github.com/applepeerke/fishing-sub000/pkg/database"
	"github.com/applepeerke/fishing-sub000/pkg/logger"
	"github.com/applepeerke/fishing-sub000/pkg/mail"
	corsmiddleware "github.com/applepeerke/fishing-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/applepeerke/fishing-sub000/pkg/middleware/requestid"
	"github.com/applepeerke/fishing-sub000/pkg/password"
)

// @title Fishing API
// @version 1.0.0
// @description Account lifecycle, scope-based authorization and fishing simulation
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, scope cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	fisheryRepo := repository.NewFisheryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	codec := service.NewTokenCodec(cfg.JWT)
	hasher := password.NewHasher(cfg.Password.MinimumLength)
	mailer := mail.NewSMTPSender(cfg.Mail)
	metrics := service.NewMetricsService()

	scopeSvc := service.NewScopeService(grantRepo, cacheRepo, logr).WithMetrics(metrics)
	authSvc := service.NewAuthService(userRepo, scopeSvc, codec, hasher, mailer, validate, logr, service.AuthConfig{
		AppName:                cfg.AppName,
		FailingAttemptsAllowed: cfg.Login.FailingAttemptsAllowed,
		BlockDuration:          cfg.Login.BlockDuration,
		OTPTTL:                 cfg.Password.OTPTTL,
		PasswordTTL:            cfg.Password.PasswordTTL,
		OTPTemplate:            cfg.OTP.TemplateName,
		OTPMailFrom:            cfg.OTP.MailFrom,
		OTPURL:                 cfg.OTP.URL,
		MailDebug:              cfg.Mail.Debug,
	}).WithMetrics(metrics)
	userSvc := service.NewUserService(userRepo, scopeSvc, validate, logr)
	grantSvc := service.NewGrantService(grantRepo, userRepo, scopeSvc, validate, logr)
	fisherySvc := service.NewFisheryService(fisheryRepo, validate, logr)

	plannerSvc := service.NewPlannerService(logr, cfg.Simulation.MaxRetries)
	populationSvc := service.NewPopulationService()
	simulationSvc := service.NewSimulationService(fisheryRepo, plannerSvc, populationSvc, metrics, validate, logr, cfg.Simulation.Workers).
		WithRetention(cfg.Simulation.ResultTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	simulationSvc.Start(ctx)
	defer simulationSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		Grants:      handler.NewGrantHandler(grantSvc),
		Fishery:     handler.NewFisheryHandler(fisherySvc),
		Simulation:  handler.NewSimulationHandler(simulationSvc),
		TokenCodec:  codec,
		AuthService: authSvc,
		Metrics:     metrics,
		AuditRepo:   userRepo,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
