package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"heallink/config"
	submissionRepo "heallink/database/repository/submission"
	"heallink/models"
	"heallink/services/notification"
	"heallink/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitVerificationWorker runs the async verification worker in background.
func InitVerificationWorker(repo submissionRepo.SubmissionRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeVerificationProcess, handleVerificationTask(repo, notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Sweep submissions whose enqueue was lost (e.g. Redis outage at
	// submit time) so nothing stays in review limbo.
	go sweepPendingSubmissions(repo, notifSvc)

	// Start async worker with retry logic
	go func() {
		log.Println("[VerificationWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[VerificationWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[VerificationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleVerificationTask(repo submissionRepo.SubmissionRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.VerificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[VerificationHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		submission, err := repo.GetByID(ctx, p.SubmissionID)
		if err != nil {
			log.Printf("[VerificationHandler] Failed to load submission %s: %v", p.SubmissionID, err)
			return err
		}
		return processSubmission(ctx, repo, notifSvc, submission)
	}
}

func processSubmission(ctx context.Context, repo submissionRepo.SubmissionRepository, notifSvc notification.NotificationService, submission *models.OnboardingSubmission) error {
	status := reviewSubmission(submission.Progress)
	if err := repo.UpdateVerification(ctx, submission.ID, status); err != nil {
		log.Printf("[VerificationHandler] Failed to update submission %s: %v", submission.ID, err)
		return err
	}
	log.Printf("[VerificationHandler] ✅ Reviewed submission %s: %s", submission.ID, status)

	if err := notifSvc.NotifyVerificationResult(ctx, submission.DeviceToken, status); err != nil {
		// Notification failure should not retry the whole review.
		log.Printf("[VerificationHandler] Failed to notify provider: %v", err)
	}
	return nil
}

// sweepPendingSubmissions periodically reviews submissions that are
// still in progress. Reviews are idempotent, so overlap with the queue
// handler is harmless.
func sweepPendingSubmissions(repo submissionRepo.SubmissionRepository, notifSvc notification.NotificationService) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	ctx := context.Background()

	for range ticker.C {
		pending, err := repo.ListPending(ctx, 50)
		if err != nil {
			log.Printf("[VerificationWorker] Failed to list pending submissions: %v", err)
			continue
		}
		for i := range pending {
			if err := processSubmission(ctx, repo, notifSvc, &pending[i]); err != nil {
				log.Printf("[VerificationWorker] Sweep failed for submission %s: %v", pending[i].ID, err)
			}
		}
	}
}

// reviewSubmission runs the automated part of the credentialing review.
// Anything the checks cannot approve is rejected back to the provider
// rather than left in limbo.
func reviewSubmission(progress models.OnboardingProgress) string {
	if len(progress.Credentials) == 0 {
		return models.VerificationRejected
	}
	now := time.Now()
	for _, cred := range progress.Credentials {
		if cred.Title == "" || cred.IssuingOrganization == "" || cred.CredentialNumber == "" {
			return models.VerificationRejected
		}
		if cred.ExpirationDate != "" {
			expires, err := time.Parse("2006-01-02", cred.ExpirationDate)
			if err != nil || expires.Before(now) {
				return models.VerificationRejected
			}
		}
	}
	for _, module := range progress.ComplianceModules {
		if !module.Completed {
			return models.VerificationRejected
		}
	}
	return models.VerificationCompleted
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[VerificationWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
