// File: heallink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heallink/config"
	"heallink/cron"
	"heallink/database"
	"heallink/database/keyvalue"
	adminRepoPkg "heallink/database/repository/admin"
	submissionRepoPkg "heallink/database/repository/submission"
	"heallink/handlers"
	"heallink/routes"
	adminService "heallink/services/admin"
	"heallink/services/notification"
	"heallink/services/onboarding"
	"heallink/services/payout"
	"heallink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	adminRepo := adminRepoPkg.NewMongoAdminRepo()
	submissionRepo := submissionRepoPkg.NewMongoSubmissionRepo()

	// Durable session state lives in its own Redis DB; blobs expire with
	// the configured onboarding TTL.
	sessionKV := keyvalue.NewRedisStore(
		utils.GetOnboardingCacheClient(),
		time.Duration(config.AppConfig.OnboardingTTLHours)*time.Hour,
	)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()

	// services.
	submissionBackend, err := onboarding.NewDefaultSubmissionBackend(submissionRepo, asynqClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize submission backend: %v", err)
	}
	sessionManager := onboarding.NewSessionManager(sessionKV, submissionBackend, logger)
	sessionManager.StartEviction(time.Hour, time.Duration(config.AppConfig.OnboardingTTLHours)*time.Hour)

	adminSvc, err := adminService.NewDefaultAdminService(adminRepo, utils.GetCacheClient())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize admin service: %v", err)
	}
	payoutSvc := payout.NewStripePayoutService(logger)
	notificationSvc := notification.NewDefaultNotificationService()

	// Background verification worker.
	cron.InitVerificationWorker(submissionRepo, notificationSvc)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Onboarding: handlers.NewOnboardingHandler(sessionManager, payoutSvc),
		Admin:      handlers.NewAdminHandler(adminSvc, adminRepo),
		Documents:  handlers.NewDocumentHandler(cloudinaryStorageService),
		AdminRepo:  adminRepo,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(map[string]*redis.Client{
		"cache":      utils.GetCacheClient(),
		"onboarding": utils.GetOnboardingCacheClient(),
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	database.CloseDB(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
