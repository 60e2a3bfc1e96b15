package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/wastewise/wastewise-api/api/swagger"
	"github.com/wastewise/wastewise-api/internal/handler"
	"github.com/wastewise/wastewise-api/internal/middleware"
	"github.com/wastewise/wastewise-api/internal/repository"
	"github.com/wastewise/wastewise-api/internal/service"
	rediscache "github.com/wastewise/wastewise-api/pkg/cache"
	"github.com/wastewise/wastewise-api/pkg/config"
	"github.com/wastewise/wastewise-api/pkg/database"
	"github.com/wastewise/wastewise-api/pkg/logger"
	corsmiddleware "github.com/wastewise/wastewise-api/pkg/middleware/cors"
	reqidmiddleware "github.com/wastewise/wastewise-api/pkg/middleware/requestid"
	"github.com/wastewise/wastewise-api/pkg/storage"
)

// @title WasteWise API
// @version 1.0.0
// @description Community waste reporting and pickup coordination backend
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: without it caching degrades to pass-through.
	var cacheSvc *service.CacheService
	metricsSvc := service.NewMetricsService()
	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	}

	mediaStore, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Fatal("failed to init media storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	pickupRepo := repository.NewPickupRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	collectorRepo := repository.NewCollectorRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	educationRepo := repository.NewEducationRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "wastewise-api",
	})
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	reportSvc := service.NewReportService(reportRepo, teamRepo, notificationSvc, mediaStore, cacheSvc, validate, logr)
	pickupSvc := service.NewPickupService(pickupRepo, collectorRepo, reportRepo, notificationSvc, cacheSvc, validate, logr)
	teamSvc := service.NewTeamService(teamRepo, validate, logr)
	collectorSvc := service.NewCollectorService(collectorRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(analyticsRepo, userRepo, notificationRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, cfg.Analytics.CacheTTL, logr)
	educationSvc := service.NewEducationService(educationRepo, validate, logr)
	communitySvc := service.NewCommunityService(communityRepo, validate, logr)
	exportSvc := service.NewExportService(reportRepo, pickupRepo, cfg.Exports.Enabled, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc, analyticsSvc, exportSvc, notificationSvc, metricsSvc)
	pickupHandler := handler.NewPickupHandler(pickupSvc, analyticsSvc, exportSvc, metricsSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	collectorHandler := handler.NewCollectorHandler(collectorSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	userHandler := handler.NewUserHandler(userSvc)
	educationHandler := handler.NewEducationHandler(educationSvc)
	communityHandler := handler.NewCommunityHandler(communitySvc)
	mediaHandler := handler.NewMediaHandler(reportSvc, signer, mediaStore, cfg.APIPrefix, logr)

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
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	}

	api.GET("/media/:token", mediaHandler.Download)
	api.GET("/faqs", communityHandler.ListFAQs)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		reports := authed.Group("/waste-reports")
		{
			reports.POST("", reportHandler.Create)
			reports.GET("", reportHandler.List)
			reports.GET("/analytics", reportHandler.Analytics)
			reports.GET("/export", reportHandler.Export)
			reports.GET("/media/:id/download_url", mediaHandler.DownloadURL)
			reports.GET("/:id", reportHandler.Get)
			reports.PUT("/:id", reportHandler.Update)
			reports.DELETE("/:id", reportHandler.Delete)
			reports.POST("/:id/assign_team", reportHandler.AssignTeam)
			reports.GET("/:id/tracking_history", reportHandler.TrackingHistory)
		}

		requests := authed.Group("/pickup-requests")
		{
			requests.POST("", pickupHandler.CreateRequest)
			requests.GET("", pickupHandler.ListRequests)
			requests.GET("/analytics", pickupHandler.Analytics)
			requests.GET("/export", pickupHandler.Export)
			requests.GET("/:id", pickupHandler.GetRequest)
			requests.PUT("/:id", pickupHandler.UpdateRequest)
			requests.DELETE("/:id", pickupHandler.DeleteRequest)
			requests.POST("/:id/assign_collector", pickupHandler.AssignCollector)
		}

		pickups := authed.Group("/pickups")
		{
			pickups.POST("", pickupHandler.CreatePickup)
			pickups.GET("", pickupHandler.ListPickups)
			pickups.GET("/:id", pickupHandler.GetPickup)
			pickups.PUT("/:id", pickupHandler.UpdatePickup)
			pickups.DELETE("/:id", pickupHandler.DeletePickup)
		}

		teams := authed.Group("/cleanup-teams")
		{
			teams.POST("", teamHandler.Create)
			teams.GET("", teamHandler.List)
			teams.GET("/:id", teamHandler.Get)
			teams.PUT("/:id", teamHandler.Update)
			teams.DELETE("/:id", teamHandler.Delete)
		}

		collectors := authed.Group("/waste-collectors")
		{
			collectors.POST("", collectorHandler.Create)
			collectors.GET("", collectorHandler.List)
			collectors.GET("/:id", collectorHandler.Get)
			collectors.PUT("/:id", collectorHandler.Update)
			collectors.DELETE("/:id", collectorHandler.Delete)
			collectors.POST("/:id/update_location", collectorHandler.UpdateLocation)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/mark_as_read", notificationHandler.MarkRead)
			notifications.POST("/mark_all_read", notificationHandler.MarkAllRead)
		}

		authed.GET("/dashboard/user", dashboardHandler.User)
		authed.GET("/dashboard/admin", dashboardHandler.Admin)

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireStaff())
		{
			admin.GET("/dashboard/stats", dashboardHandler.AdminStats)
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.Get)
			admin.PATCH("/users/:id", userHandler.AdminUpdate)
		}

		content := authed.Group("/educational-content")
		{
			content.POST("", educationHandler.CreateContent)
			content.GET("", educationHandler.ListContent)
			content.GET("/:id", educationHandler.GetContent)
			content.PUT("/:id", educationHandler.UpdateContent)
			content.DELETE("/:id", educationHandler.DeleteContent)
		}

		quizzes := authed.Group("/quizzes")
		{
			quizzes.POST("", educationHandler.CreateQuiz)
			quizzes.GET("", educationHandler.ListQuizzes)
			quizzes.GET("/:id", educationHandler.GetQuiz)
			quizzes.PUT("/:id", educationHandler.UpdateQuiz)
			quizzes.DELETE("/:id", educationHandler.DeleteQuiz)
			quizzes.POST("/:id/submit_attempt", educationHandler.SubmitAttempt)
		}
		authed.GET("/quiz-attempts", educationHandler.ListAttempts)

		topics := authed.Group("/forum-topics")
		{
			topics.POST("", communityHandler.CreateTopic)
			topics.GET("", communityHandler.ListTopics)
			topics.GET("/:id", communityHandler.GetTopic)
			topics.DELETE("/:id", communityHandler.DeleteTopic)
			topics.POST("/:id/approve", communityHandler.ApproveTopic)
			topics.POST("/:id/add_comment", communityHandler.AddComment)
		}
		authed.DELETE("/forum-comments/:id", communityHandler.DeleteComment)

		faqs := authed.Group("/faqs")
		{
			faqs.POST("", communityHandler.CreateFAQ)
			faqs.PUT("/:id", communityHandler.UpdateFAQ)
			faqs.DELETE("/:id", communityHandler.DeleteFAQ)
		}

		authed.GET("/profile", userHandler.Profile)
		authed.PUT("/profile", userHandler.UpdateProfile)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown incomplete", zap.Error(err))
	}
}
