package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/matrix-industries/credential-api/api/swagger"
	"github.com/matrix-industries/credential-api/internal/handler"
	"github.com/matrix-industries/credential-api/internal/middleware"
	"github.com/matrix-industries/credential-api/internal/render"
	"github.com/matrix-industries/credential-api/internal/repository"
	"github.com/matrix-industries/credential-api/internal/service"
	"github.com/matrix-industries/credential-api/pkg/cache"
	"github.com/matrix-industries/credential-api/pkg/config"
	"github.com/matrix-industries/credential-api/pkg/database"
	"github.com/matrix-industries/credential-api/pkg/jobs"
	"github.com/matrix-industries/credential-api/pkg/logger"
	corsmiddleware "github.com/matrix-industries/credential-api/pkg/middleware/cors"
	reqidmiddleware "github.com/matrix-industries/credential-api/pkg/middleware/requestid"
	"github.com/matrix-industries/credential-api/pkg/storage"
)

// @title Credential API
// @version 1.0.0
// @description Document issuance and verification service
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is an accelerator, not a dependency: without it verdicts are
	// looked up straight from Postgres.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, verdict caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to init artifact store", "error", err)
	}

	logo, err := render.LoadLogo(cfg.Branding.LogoPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to load logo", "error", err)
	}
	engine := render.NewEngine(render.Branding{
		OrgName: cfg.Branding.OrgName,
		Tagline: cfg.Branding.Tagline,
		Website: cfg.Branding.Website,
		Email:   cfg.Branding.Email,
	})

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	documentRepo := repository.NewDocumentRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	jobRepo := repository.NewIssuanceJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	settingsSvc := service.NewSettingsService(settingRepo, cfg.Verification.DefaultBaseURL, validate, logr)
	documentSvc := service.NewDocumentService(documentRepo, settingsSvc, store, engine, cacheRepo, metricsSvc, validate, logr, service.DocumentServiceConfig{
		QRPixelSize: cfg.Verification.QRPixelSize,
		Logo:        logo,
	})
	verificationSvc := service.NewVerificationService(documentRepo, cacheRepo, metricsSvc, logr, cfg.Verification.VerdictCacheTTL)

	issuanceWorker := service.NewIssuanceWorker(jobRepo, documentSvc, logr)
	issuanceQueue := jobs.NewQueue("bulk_issuance", issuanceWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Bulk.Workers,
		BufferSize: cfg.Bulk.BufferSize,
		MaxRetries: 1,
		Logger:     logr,
	})
	issuanceSvc := service.NewIssuanceJobService(jobRepo, issuanceQueue, validate, logr)

	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	issuanceQueue.Start(queueCtx)
	defer issuanceQueue.Stop()

	documentHandler := handler.NewDocumentHandler(documentSvc)
	verificationHandler := handler.NewVerificationHandler(verificationSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	bulkHandler := handler.NewBulkHandler(issuanceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.GET("/verify", verificationHandler.Verify)
	r.Static("/artifacts", store.Dir())

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/documents", documentHandler.Create)
		api.GET("/documents", documentHandler.List)
		api.POST("/documents/bulk", bulkHandler.Submit)
		api.GET("/documents/bulk/:id", bulkHandler.Status)
		api.GET("/documents/:id", documentHandler.Get)
		api.POST("/documents/:id/revoke", documentHandler.Revoke)
		api.POST("/documents/:id/rerender", documentHandler.Rerender)
		api.GET("/settings/verification-base-url", settingsHandler.GetVerificationBaseURL)
		api.PUT("/settings/verification-base-url", settingsHandler.UpdateVerificationBaseURL)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
