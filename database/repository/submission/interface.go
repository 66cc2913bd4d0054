package submissionRepo

import (
	"context"

	"heallink/database"
	"heallink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SubmissionRepository persists onboarding drafts and final submissions.
type SubmissionRepository interface {
	UpsertDraft(ctx context.Context, sessionID string, progress models.OnboardingProgress) error
	GetDraft(ctx context.Context, sessionID string) (*models.OnboardingProgress, error)
	Create(ctx context.Context, submission *models.OnboardingSubmission) error
	GetByID(ctx context.Context, id string) (*models.OnboardingSubmission, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.OnboardingSubmission, error)
	UpdateVerification(ctx context.Context, id, status string) error
	ListPending(ctx context.Context, limit int64) ([]models.OnboardingSubmission, error)
}

type mongoSubmissionRepo struct {
	drafts      *mongo.Collection
	submissions *mongo.Collection
}

// NewMongoSubmissionRepo returns a SubmissionRepository backed by MongoDB.
func NewMongoSubmissionRepo() SubmissionRepository {
	db := database.MongoClient.Database("heallink")
	return &mongoSubmissionRepo{
		drafts:      db.Collection("onboarding_drafts"),
		submissions: db.Collection("onboarding_submissions"),
	}
}
