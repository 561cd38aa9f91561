package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/controllers"
	"github.com/kendall-kelly/household-services-api/jobs"
	"github.com/kendall-kelly/household-services-api/middleware"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

const exportTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting Household Services API server...", zap.String("env", cfg.GoEnv))

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Create the schema once, before serving traffic
	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	if cfg.AdminPassword != "" {
		identity := services.NewIdentityService(db, services.NewTokenService(cfg))
		if err := identity.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Fatal("Failed to provision admin account", zap.Error(err))
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, admin account is not provisioned")
	}

	if err := services.InitFileStorage(cfg); err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	if _, err := services.InitCache(cfg); err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	services.InitNotifiers(cfg)

	exporter := services.NewExportService(db, services.GetExportStorage(), services.GetChatNotifier(), cfg.AdminEmail)
	var worker *jobs.ExportWorker
	if cfg.RedisEnabled() {
		queue := jobs.NewAsynqQueue(cfg, exportTimeout)
		defer queue.Close()
		services.SetTaskQueue(queue)

		worker = jobs.NewExportWorker(cfg, exporter)
		if err := worker.Start(); err != nil {
			logger.Fatal("Failed to start export worker", zap.Error(err))
		}
	} else {
		logger.Info("REDIS_ADDR not set, exports run in-process")
		services.SetTaskQueue(services.NewInlineQueue(exporter, exportTimeout))
	}

	scheduler, err := jobs.NewScheduler(
		cfg.ReminderSchedule, jobs.NewReminder(db, services.GetChatNotifier(), cfg.NotifyTimeout),
		cfg.MonthlyReportSchedule, jobs.NewMonthlyReport(db, services.GetMailNotifier(), cfg.NotifyTimeout),
	)
	if err != nil {
		logger.Fatal("Failed to set up job scheduler", zap.Error(err))
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", "http://localhost"+server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
	scheduler.Stop(ctx)
	if worker != nil {
		worker.Shutdown()
	}
}

// setupRouter builds the Gin engine with middleware and every route
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		controllers.RegisterRoutes(v1, cfg)
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour

	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Household Services API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
