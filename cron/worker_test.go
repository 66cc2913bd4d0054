package cron

import (
	"testing"
	"time"

	"heallink/models"

	"github.com/stretchr/testify/assert"
)

func approvableProgress() models.OnboardingProgress {
	p := models.OnboardingProgress{
		Credentials: []models.Credential{{
			ID:                  "c1",
			Title:               "MD License",
			IssuingOrganization: "State Medical Board",
			CredentialNumber:    "MD-0001",
			ExpirationDate:      time.Now().AddDate(2, 0, 0).Format("2006-01-02"),
		}},
		ComplianceModules: []models.ComplianceModule{
			{ID: "hipaa", Completed: true},
			{ID: "terms", Completed: true},
		},
	}
	return p
}

func TestReviewSubmissionApprovesCompleteRecord(t *testing.T) {
	assert.Equal(t, models.VerificationCompleted, reviewSubmission(approvableProgress()))
}

func TestReviewSubmissionRejectsMissingCredentials(t *testing.T) {
	p := approvableProgress()
	p.Credentials = nil
	assert.Equal(t, models.VerificationRejected, reviewSubmission(p))
}

func TestReviewSubmissionRejectsIncompleteCredential(t *testing.T) {
	p := approvableProgress()
	p.Credentials[0].CredentialNumber = ""
	assert.Equal(t, models.VerificationRejected, reviewSubmission(p))
}

func TestReviewSubmissionRejectsExpiredCredential(t *testing.T) {
	p := approvableProgress()
	p.Credentials[0].ExpirationDate = "2020-01-01"
	assert.Equal(t, models.VerificationRejected, reviewSubmission(p))
}

func TestReviewSubmissionRejectsMalformedExpiration(t *testing.T) {
	p := approvableProgress()
	p.Credentials[0].ExpirationDate = "next year"
	assert.Equal(t, models.VerificationRejected, reviewSubmission(p))
}

func TestReviewSubmissionRejectsUnfinishedCompliance(t *testing.T) {
	p := approvableProgress()
	p.ComplianceModules[1].Completed = false
	assert.Equal(t, models.VerificationRejected, reviewSubmission(p))
}

func TestReviewSubmissionAllowsCredentialWithoutExpiration(t *testing.T) {
	p := approvableProgress()
	p.Credentials[0].ExpirationDate = ""
	assert.Equal(t, models.VerificationCompleted, reviewSubmission(p))
}
