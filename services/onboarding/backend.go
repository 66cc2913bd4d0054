package onboarding

import (
	"context"
	"fmt"
	"time"

	submissionRepo "heallink/database/repository/submission"
	"heallink/models"
	"heallink/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SubmissionBackend is the remote side of the wizard: draft saves and
// the final submission. The store only depends on the success/failure
// outcome; endpoint and payload shape are this package's business.
type SubmissionBackend interface {
	SaveDraft(ctx context.Context, sessionID string, progress models.OnboardingProgress) error
	Submit(ctx context.Context, sessionID string, progress models.OnboardingProgress) error
}

// DefaultSubmissionBackend persists drafts and submissions to MongoDB
// and hands completed submissions to the verification worker queue.
type DefaultSubmissionBackend struct {
	Repo        submissionRepo.SubmissionRepository
	AsynqClient *asynq.Client
	Logger      *zap.Logger
}

func NewDefaultSubmissionBackend(repo submissionRepo.SubmissionRepository, asynqClient *asynq.Client, logger *zap.Logger) (*DefaultSubmissionBackend, error) {
	if repo == nil || asynqClient == nil {
		return nil, fmt.Errorf("submission backend initialization error: one or more dependencies are nil")
	}
	return &DefaultSubmissionBackend{
		Repo:        repo,
		AsynqClient: asynqClient,
		Logger:      logger,
	}, nil
}

// SaveDraft upserts the current wizard state as a draft keyed by session.
func (b *DefaultSubmissionBackend) SaveDraft(ctx context.Context, sessionID string, progress models.OnboardingProgress) error {
	if err := b.Repo.UpsertDraft(ctx, sessionID, progress); err != nil {
		return fmt.Errorf("failed to save onboarding draft: %w", err)
	}
	return nil
}

// Submit writes the final submission record and enqueues it for
// verification review. A queue failure is logged but does not fail the
// submission; the worker also sweeps unprocessed records.
func (b *DefaultSubmissionBackend) Submit(ctx context.Context, sessionID string, progress models.OnboardingProgress) error {
	submission := models.OnboardingSubmission{
		ID:                 uuid.New().String(),
		SessionID:          sessionID,
		Progress:           progress,
		VerificationStatus: models.VerificationInProgress,
		SubmittedAt:        time.Now().UTC(),
	}

	if err := b.Repo.Create(ctx, &submission); err != nil {
		return fmt.Errorf("failed to store onboarding submission: %w", err)
	}

	task, opts, err := tasks.NewVerificationTask(models.VerificationPayload{
		SubmissionID: submission.ID,
		SessionID:    sessionID,
	})
	if err != nil {
		b.Logger.Error("Failed to build verification task",
			zap.String("submissionID", submission.ID), zap.Error(err))
		return nil
	}
	if _, err := b.AsynqClient.EnqueueContext(ctx, task, opts...); err != nil {
		b.Logger.Error("Failed to enqueue verification task",
			zap.String("submissionID", submission.ID), zap.Error(err))
	}
	return nil
}
