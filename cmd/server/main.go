package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"catena/internal/client/cicero"
	"catena/internal/config"
	cronrunner "catena/internal/cron"
	"catena/internal/db"
	"catena/internal/events"
	"catena/internal/handler"
	"catena/internal/logger"
	gormrepository "catena/internal/repository/gorm"
	"catena/internal/service"

	_ "catena/docs"
)

func main() {
	cfgPath := os.Getenv("CATENA_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("CATENA_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	rulesHTTP := &http.Client{Timeout: cfg.Rules.Timeout}
	rulesClient := cicero.NewClient(rulesHTTP, cfg.Rules.BaseURL)

	notifier := &events.Notifier{
		WebhookURL: cfg.Events.WebhookURL,
		HTTP:       &http.Client{Timeout: cfg.Events.Timeout},
		Logger:     logger,
	}

	agreementSvc := &service.AgreementService{
		Repo:   store,
		Events: notifier,
		Logger: logger,
	}
	requestSvc := &service.RequestLifecycleService{
		Repo:   store,
		Rules:  rulesClient,
		Events: notifier,
		Logger: logger,
	}
	upliftSvc := &service.UpliftService{
		Repo:   store,
		Events: notifier,
		Logger: logger,
	}
	overdueSvc := &service.OverdueScanService{
		Repo:   store,
		Events: notifier,
		Logger: logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	agreementHandler := &handler.AgreementHandler{Repo: store, Service: agreementSvc}
	agreementHandler.Register(engine)
	requestHandler := &handler.RequestHandler{Repo: store, Service: requestSvc}
	requestHandler.Register(engine)
	upliftHandler := &handler.UpliftHandler{Repo: store, Service: upliftSvc}
	upliftHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("overdue_scan", cfg.Cron.OverdueScan, overdueSvc.RunOnce); err != nil {
			logger.Warn("cron register overdue scan failed", zap.Error(err))
		}
		retention := cfg.History.RetentionDays
		if _, err := cronRunner.Add("revision_trim", cfg.Cron.RevisionTrim, func(ctx context.Context) error {
			if retention <= 0 {
				return nil
			}
			cutoff := time.Now().UTC().AddDate(0, 0, -retention)
			n, err := store.DeleteRevisionsBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("trimmed request revisions", zap.Int64("count", n))
			}
			return nil
		}); err != nil {
			logger.Warn("cron register revision trim failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
