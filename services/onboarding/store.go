// File: onboarding/store.go
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"heallink/database/keyvalue"
	"heallink/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressStore owns the wizard state for a single onboarding session.
// Every mutation rewrites the full serialized state to the durable
// key-value store; the in-memory value stays authoritative even when a
// write fails.
type ProgressStore struct {
	key     string
	kv      keyvalue.Store
	backend SubmissionBackend
	logger  *zap.Logger

	mu       sync.Mutex
	progress models.OnboardingProgress
	loading  bool
	errMsg   string
}

// NewProgressStore builds a store for the given durable key. A persisted
// copy, when present and parseable, is merged over the default state
// field by field; a corrupt copy is logged and discarded in favor of the
// default.
func NewProgressStore(key string, kv keyvalue.Store, backend SubmissionBackend, logger *zap.Logger) *ProgressStore {
	s := &ProgressStore{
		key:      key,
		kv:       kv,
		backend:  backend,
		logger:   logger,
		progress: DefaultProgress(),
	}

	data, err := kv.Get(context.Background(), key)
	switch {
	case err == nil:
		// Decoding into a default-initialized value keeps default values
		// for any field the persisted blob predates.
		restored := DefaultProgress()
		if jsonErr := json.Unmarshal(data, &restored); jsonErr != nil {
			logger.Error("Failed to parse saved onboarding progress",
				zap.String("key", key), zap.Error(jsonErr))
		} else {
			s.progress = restored
		}
	case errors.Is(err, keyvalue.ErrNotFound):
		// First visit, keep the default.
	default:
		logger.Error("Failed to read saved onboarding progress",
			zap.String("key", key), zap.Error(err))
	}

	return s
}

// Progress returns a snapshot of the current wizard state.
func (s *ProgressStore) Progress() models.OnboardingProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Loading reports whether a save or submit round-trip is in flight.
func (s *ProgressStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last save/submit failure message, empty when none.
func (s *ProgressStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// persist writes the full current state to the durable store. Writes are
// fire-and-forget: a failure is logged and the session carries on with
// the in-memory value. Callers must hold s.mu.
func (s *ProgressStore) persist() {
	data, err := json.Marshal(s.progress)
	if err != nil {
		s.logger.Error("Failed to marshal onboarding progress",
			zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.kv.Set(context.Background(), s.key, data); err != nil {
		s.logger.Error("Failed to persist onboarding progress",
			zap.String("key", s.key), zap.Error(err))
	}
}

// ProgressPatch is a partial top-level update. Nil fields are left
// untouched; non-nil fields replace their counterpart wholesale.
type ProgressPatch struct {
	CurrentStep        *int
	CompletedSteps     []string
	SelectedRoles      []models.SelectedRole
	LegalIdentity      *models.LegalIdentity
	ContactLocations   []models.ContactLocation
	PayoutTax          *models.PayoutTax
	Credentials        []models.Credential
	ComplianceModules  []models.ComplianceModule
	WorkflowSettings   *models.WorkflowSettings
	VerificationStatus *string
	SubmittedAt        *string
}

// UpdateProgress shallow-merges the patch onto the current state. No
// validation is performed; this is the escape hatch the granular
// mutators are built on.
func (s *ProgressStore) UpdateProgress(patch ProgressPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyPatch(patch)
	s.persist()
}

func (s *ProgressStore) applyPatch(patch ProgressPatch) {
	if patch.CurrentStep != nil {
		s.progress.CurrentStep = *patch.CurrentStep
	}
	if patch.CompletedSteps != nil {
		s.progress.CompletedSteps = patch.CompletedSteps
	}
	if patch.SelectedRoles != nil {
		s.progress.SelectedRoles = patch.SelectedRoles
	}
	if patch.LegalIdentity != nil {
		s.progress.LegalIdentity = patch.LegalIdentity
	}
	if patch.ContactLocations != nil {
		s.progress.ContactLocations = patch.ContactLocations
	}
	if patch.PayoutTax != nil {
		s.progress.PayoutTax = patch.PayoutTax
	}
	if patch.Credentials != nil {
		s.progress.Credentials = patch.Credentials
	}
	if patch.ComplianceModules != nil {
		s.progress.ComplianceModules = patch.ComplianceModules
	}
	if patch.WorkflowSettings != nil {
		s.progress.WorkflowSettings = patch.WorkflowSettings
	}
	if patch.VerificationStatus != nil {
		s.progress.VerificationStatus = *patch.VerificationStatus
	}
	if patch.SubmittedAt != nil {
		s.progress.SubmittedAt = *patch.SubmittedAt
	}
}

// UpdateSelectedRoles replaces the selected roles wholesale. Toggle and
// dedup logic belongs to the caller.
func (s *ProgressStore) UpdateSelectedRoles(roles []models.SelectedRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.SelectedRoles = roles
	s.persist()
}

// LegalIdentityPatch is a partial legal-identity update. The merge is
// intentionally one level deep: a non-nil GovernmentID replaces the
// whole sub-record, it is not merged field by field. Callers always send
// the complete sub-record.
type LegalIdentityPatch struct {
	FirstName    *string
	MiddleName   *string
	LastName     *string
	DateOfBirth  *string
	GovernmentID *models.GovernmentID
}

// UpdateLegalIdentity merges the patch into the existing legal identity,
// creating it when absent.
func (s *ProgressStore) UpdateLegalIdentity(patch LegalIdentityPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := s.progress.LegalIdentity
	if identity == nil {
		identity = &models.LegalIdentity{}
		s.progress.LegalIdentity = identity
	}
	if patch.FirstName != nil {
		identity.FirstName = *patch.FirstName
	}
	if patch.MiddleName != nil {
		identity.MiddleName = *patch.MiddleName
	}
	if patch.LastName != nil {
		identity.LastName = *patch.LastName
	}
	if patch.DateOfBirth != nil {
		identity.DateOfBirth = *patch.DateOfBirth
	}
	if patch.GovernmentID != nil {
		identity.GovernmentID = *patch.GovernmentID
	}
	s.persist()
}

// UpdateContactLocations replaces all contact locations wholesale.
func (s *ProgressStore) UpdateContactLocations(locations []models.ContactLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.ContactLocations = locations
	s.persist()
}

// ContactLocationPatch is a partial update of one contact location. A
// non-nil Address replaces the whole address.
type ContactLocationPatch struct {
	Address          *models.Address
	Phone            *string
	Email            *string
	IsTelehealthOnly *bool
}

// UpdateContactLocation merges the patch onto the location at index.
// Out-of-bounds indexes are a silent no-op; call sites rely on that.
func (s *ProgressStore) UpdateContactLocation(index int, patch ContactLocationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.progress.ContactLocations) {
		return
	}
	loc := &s.progress.ContactLocations[index]
	if patch.Address != nil {
		loc.Address = *patch.Address
	}
	if patch.Phone != nil {
		loc.Phone = *patch.Phone
	}
	if patch.Email != nil {
		loc.Email = *patch.Email
	}
	if patch.IsTelehealthOnly != nil {
		loc.IsTelehealthOnly = *patch.IsTelehealthOnly
	}
	s.persist()
}

// AddContactLocation appends an empty additional practice location with
// a freshly generated unique id.
func (s *ProgressStore) AddContactLocation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress.ContactLocations = append(s.progress.ContactLocations, models.ContactLocation{
		ID:   fmt.Sprintf("location-%s", uuid.New().String()),
		Type: "additional",
		Address: models.Address{
			Country: "United States",
		},
	})
	s.persist()
}

// RemoveContactLocation removes the location at index. The primary
// location can never be removed; removing it (or an out-of-bounds
// index) is a no-op.
func (s *ProgressStore) RemoveContactLocation(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.progress.ContactLocations) {
		return
	}
	if s.progress.ContactLocations[index].Type == "primary" {
		return
	}
	s.progress.ContactLocations = append(
		s.progress.ContactLocations[:index],
		s.progress.ContactLocations[index+1:]...,
	)
	s.persist()
}

// PayoutTaxPatch is a partial payout/tax update with the same one-level
// merge contract as LegalIdentityPatch.
type PayoutTaxPatch struct {
	BankAccount *models.BankAccount
	TaxInfo     *models.TaxInfo
}

// UpdatePayoutTax merges the patch into the existing payout/tax record,
// creating it when absent.
func (s *ProgressStore) UpdatePayoutTax(patch PayoutTaxPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payout := s.progress.PayoutTax
	if payout == nil {
		payout = &models.PayoutTax{}
		s.progress.PayoutTax = payout
	}
	if patch.BankAccount != nil {
		payout.BankAccount = *patch.BankAccount
	}
	if patch.TaxInfo != nil {
		payout.TaxInfo = *patch.TaxInfo
	}
	s.persist()
}

// UpdateCredentials replaces the credential list wholesale. Entries
// arriving without a status start as pending.
func (s *ProgressStore) UpdateCredentials(credentials []models.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range credentials {
		if credentials[i].Status == "" {
			credentials[i].Status = models.CredentialPending
		}
	}
	s.progress.Credentials = credentials
	s.persist()
}

// ComplianceModulePatch is a partial update of one training module.
type ComplianceModulePatch struct {
	Completed         *bool
	CompletedAt       *string
	WatchedPercentage *int
}

// UpdateComplianceModule merges the patch onto the module with the given
// id; unknown ids are a no-op.
func (s *ProgressStore) UpdateComplianceModule(moduleID string, patch ComplianceModulePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.progress.ComplianceModules {
		if s.progress.ComplianceModules[i].ID != moduleID {
			continue
		}
		module := &s.progress.ComplianceModules[i]
		if patch.Completed != nil {
			module.Completed = *patch.Completed
		}
		if patch.CompletedAt != nil {
			module.CompletedAt = *patch.CompletedAt
		}
		if patch.WatchedPercentage != nil {
			module.WatchedPercentage = *patch.WatchedPercentage
		}
		s.persist()
		return
	}
}

// UpdateWorkflowSettings replaces the workflow settings wholesale.
func (s *ProgressStore) UpdateWorkflowSettings(settings models.WorkflowSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.WorkflowSettings = &settings
	s.persist()
}

// GoToStep jumps to an arbitrary step. No bounds clamp and no check that
// earlier steps were completed; the UI gates navigation through
// GetStepValidation, not the store.
func (s *ProgressStore) GoToStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.CurrentStep = step
	s.persist()
}

// GoToNextStep advances one step, clamped at the last step, and records
// the step just left as completed.
func (s *ProgressStore) GoToNextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := strconv.Itoa(s.progress.CurrentStep)
	if !containsStep(s.progress.CompletedSteps, left) {
		s.progress.CompletedSteps = append(s.progress.CompletedSteps, left)
	}

	if s.progress.CurrentStep < s.progress.TotalSteps {
		s.progress.CurrentStep++
	}
	s.persist()
}

// GoToPreviousStep retreats one step, clamped at step 1. Completed steps
// are untouched.
func (s *ProgressStore) GoToPreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress.CurrentStep > 1 {
		s.progress.CurrentStep--
	}
	s.persist()
}

// MarkStepComplete records the step as completed, once.
func (s *ProgressStore) MarkStepComplete(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(step)
	if containsStep(s.progress.CompletedSteps, id) {
		return
	}
	s.progress.CompletedSteps = append(s.progress.CompletedSteps, id)
	s.persist()
}

func containsStep(steps []string, step string) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}

// SaveProgress pushes the current state to the remote backend as a
// draft. On failure the local state is untouched, a human-readable
// error message is recorded, and false is returned.
func (s *ProgressStore) SaveProgress(ctx context.Context) bool {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	snapshot := s.progress
	s.mu.Unlock()

	err := s.backend.SaveDraft(ctx, s.key, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Warn("Failed to save onboarding draft",
			zap.String("key", s.key), zap.Error(err))
		s.errMsg = "Failed to save progress. Please try again."
		return false
	}
	return true
}

// SubmitOnboarding performs the final submission. On success the
// submission timestamp is recorded and verification moves to
// in-progress; the wizard itself stays on the last step. On failure an
// error message is recorded and the local state is left unchanged.
func (s *ProgressStore) SubmitOnboarding(ctx context.Context) bool {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	snapshot := s.progress
	s.mu.Unlock()

	err := s.backend.Submit(ctx, s.key, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Warn("Failed to submit onboarding",
			zap.String("key", s.key), zap.Error(err))
		s.errMsg = "Failed to submit onboarding. Please try again."
		return false
	}

	s.progress.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	s.progress.VerificationStatus = models.VerificationInProgress
	s.persist()
	return true
}

// ResetOnboarding restores the default state and erases the durable copy.
func (s *ProgressStore) ResetOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = DefaultProgress()
	s.errMsg = ""
	if err := s.kv.Delete(context.Background(), s.key); err != nil {
		s.logger.Error("Failed to erase onboarding progress",
			zap.String("key", s.key), zap.Error(err))
	}
}
