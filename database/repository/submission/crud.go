package submissionRepo

import (
	"context"
	"errors"
	"time"

	"heallink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// draftDoc wraps a progress blob with its session key for the drafts
// collection.
type draftDoc struct {
	SessionID string                    `bson:"session_id"`
	Progress  models.OnboardingProgress `bson:"progress"`
	UpdatedAt time.Time                 `bson:"updated_at"`
}

// UpsertDraft stores the latest wizard state for a session, replacing
// any previous draft.
func (r *mongoSubmissionRepo) UpsertDraft(ctx context.Context, sessionID string, progress models.OnboardingProgress) error {
	doc := draftDoc{
		SessionID: sessionID,
		Progress:  progress,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.drafts.ReplaceOne(ctx, bson.M{"session_id": sessionID}, doc, opts)
	return err
}

// GetDraft returns the saved draft for a session, or nil when none exists.
func (r *mongoSubmissionRepo) GetDraft(ctx context.Context, sessionID string) (*models.OnboardingProgress, error) {
	var doc draftDoc
	err := r.drafts.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Progress, nil
}

// Create inserts a final submission record.
func (r *mongoSubmissionRepo) Create(ctx context.Context, submission *models.OnboardingSubmission) error {
	_, err := r.submissions.InsertOne(ctx, submission)
	return err
}

// GetByID returns a submission by its ID.
func (r *mongoSubmissionRepo) GetByID(ctx context.Context, id string) (*models.OnboardingSubmission, error) {
	var submission models.OnboardingSubmission
	err := r.submissions.FindOne(ctx, bson.M{"id": id}).Decode(&submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetBySessionID returns the submission for an onboarding session.
func (r *mongoSubmissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.OnboardingSubmission, error) {
	var submission models.OnboardingSubmission
	err := r.submissions.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateVerification sets the verification status and review timestamp.
func (r *mongoSubmissionRepo) UpdateVerification(ctx context.Context, id, status string) error {
	now := time.Now()
	res, err := r.submissions.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{
			"verification_status": status,
			"reviewed_at":         now,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("submission not found")
	}
	return nil
}

// ListPending returns submissions still waiting on verification review.
func (r *mongoSubmissionRepo) ListPending(ctx context.Context, limit int64) ([]models.OnboardingSubmission, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.M{"submitted_at": 1})
	cursor, err := r.submissions.Find(ctx, bson.M{
		"verification_status": models.VerificationInProgress,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []models.OnboardingSubmission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}
