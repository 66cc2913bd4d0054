package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"heallink/database/keyvalue"
	"heallink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubBackend records backend calls and fails on demand.
type stubBackend struct {
	saveErr   error
	submitErr error
	saved     []models.OnboardingProgress
	submitted []models.OnboardingProgress
}

func (b *stubBackend) SaveDraft(ctx context.Context, sessionID string, progress models.OnboardingProgress) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, progress)
	return nil
}

func (b *stubBackend) Submit(ctx context.Context, sessionID string, progress models.OnboardingProgress) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, progress)
	return nil
}

func newTestStore(t *testing.T) (*ProgressStore, keyvalue.Store, *stubBackend) {
	t.Helper()
	kv := keyvalue.NewMemoryStore()
	backend := &stubBackend{}
	store := NewProgressStore("onboarding:test", kv, backend, zap.NewNop())
	return store, kv, backend
}

// persistedProgress decodes the durable blob for the test session.
func persistedProgress(t *testing.T, kv keyvalue.Store) models.OnboardingProgress {
	t.Helper()
	data, err := kv.Get(context.Background(), "onboarding:test")
	require.NoError(t, err)
	var p models.OnboardingProgress
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

func TestDefaultProgress(t *testing.T) {
	p := DefaultProgress()

	assert.Equal(t, 1, p.CurrentStep)
	assert.Equal(t, models.OnboardingTotalSteps, p.TotalSteps)
	assert.Empty(t, p.CompletedSteps)
	assert.Empty(t, p.SelectedRoles)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)

	require.Len(t, p.ContactLocations, 1)
	assert.Equal(t, "primary", p.ContactLocations[0].ID)
	assert.Equal(t, "primary", p.ContactLocations[0].Type)
	assert.Equal(t, "United States", p.ContactLocations[0].Address.Country)

	require.Len(t, p.ComplianceModules, 5)
	for _, m := range p.ComplianceModules {
		assert.False(t, m.Completed)
		assert.Zero(t, m.WatchedPercentage)
	}
}

func TestDefaultComplianceCatalogText(t *testing.T) {
	byID := make(map[string]models.ComplianceModule)
	for _, m := range DefaultProgress().ComplianceModules {
		byID[m.ID] = m
	}

	platform, ok := byID["platform"]
	require.True(t, ok)
	assert.Equal(t, "Platform Guidelines", platform.Name)
	assert.Equal(t, "How to use HealLink platform effectively", platform.Description)
	assert.Equal(t, 20, platform.Duration)
}

func TestDefaultProgressModulesAreIndependentCopies(t *testing.T) {
	a := DefaultProgress()
	a.ComplianceModules[0].Completed = true

	b := DefaultProgress()
	assert.False(t, b.ComplianceModules[0].Completed)
}

func TestEveryMutationPersistsFullState(t *testing.T) {
	store, kv, _ := newTestStore(t)

	mutations := []func(){
		func() {
			store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})
		},
		func() {
			first := "Jane"
			store.UpdateLegalIdentity(LegalIdentityPatch{FirstName: &first})
		},
		func() { store.AddContactLocation() },
		func() {
			phone := "555-0100"
			store.UpdateContactLocation(0, ContactLocationPatch{Phone: &phone})
		},
		func() { store.RemoveContactLocation(1) },
		func() {
			store.UpdatePayoutTax(PayoutTaxPatch{BankAccount: &models.BankAccount{AccountType: "checking"}})
		},
		func() {
			store.UpdateCredentials([]models.Credential{{ID: "c1", Title: "MD License"}})
		},
		func() {
			done := true
			store.UpdateComplianceModule("hipaa", ComplianceModulePatch{Completed: &done})
		},
		func() { store.UpdateWorkflowSettings(models.WorkflowSettings{BufferTime: 10}) },
		func() { store.GoToStep(3) },
		func() { store.GoToNextStep() },
		func() { store.GoToPreviousStep() },
		func() { store.MarkStepComplete(2) },
	}

	for i, mutate := range mutations {
		mutate()
		assert.Equal(t, store.Progress(), persistedProgress(t, kv), "mutation %d", i)
	}
}

func TestRehydrationPicksUpWhereLeftOff(t *testing.T) {
	kv := keyvalue.NewMemoryStore()
	backend := &stubBackend{}
	logger := zap.NewNop()

	store := NewProgressStore("onboarding:test", kv, backend, logger)
	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "therapist", Category: "mental-health"}})
	store.GoToNextStep()

	restored := NewProgressStore("onboarding:test", kv, backend, logger)
	assert.Equal(t, store.Progress(), restored.Progress())
}

func TestRehydrationKeepsDefaultsForMissingFields(t *testing.T) {
	kv := keyvalue.NewMemoryStore()

	// A blob written before compliance modules existed carries only a
	// subset of today's fields.
	old := map[string]any{
		"currentStep":    4,
		"completedSteps": []string{"1", "2", "3"},
	}
	data, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "onboarding:test", data))

	store := NewProgressStore("onboarding:test", kv, &stubBackend{}, zap.NewNop())
	p := store.Progress()

	assert.Equal(t, 4, p.CurrentStep)
	assert.Equal(t, []string{"1", "2", "3"}, p.CompletedSteps)
	assert.Equal(t, models.OnboardingTotalSteps, p.TotalSteps)
	assert.Len(t, p.ComplianceModules, 5)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)
}

func TestCorruptBlobFallsBackToDefault(t *testing.T) {
	kv := keyvalue.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), "onboarding:test", []byte("{not json")))

	store := NewProgressStore("onboarding:test", kv, &stubBackend{}, zap.NewNop())
	assert.Equal(t, DefaultProgress(), store.Progress())
}

func TestGoToNextStepRecordsLeftStep(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.GoToNextStep()
	p := store.Progress()
	assert.Equal(t, 2, p.CurrentStep)
	assert.Equal(t, []string{"1"}, p.CompletedSteps)

	// Going back and forward again must not duplicate the entry.
	store.GoToPreviousStep()
	store.GoToNextStep()
	assert.Equal(t, []string{"1"}, store.Progress().CompletedSteps)
}

func TestGoToNextStepClampsAtLastStep(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.GoToStep(models.OnboardingTotalSteps)
	store.GoToNextStep()
	p := store.Progress()
	assert.Equal(t, models.OnboardingTotalSteps, p.CurrentStep)
	assert.Contains(t, p.CompletedSteps, "6")
}

func TestGoToPreviousStepClampsAtFirstStep(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.GoToPreviousStep()
	assert.Equal(t, 1, store.Progress().CurrentStep)
}

func TestGoToStepIsNotClamped(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.GoToStep(99)
	assert.Equal(t, 99, store.Progress().CurrentStep)

	store.GoToStep(-1)
	assert.Equal(t, -1, store.Progress().CurrentStep)
}

func TestMarkStepCompleteIsIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.MarkStepComplete(3)
	store.MarkStepComplete(3)
	assert.Equal(t, []string{"3"}, store.Progress().CompletedSteps)
}

func TestAddContactLocationGeneratesUniqueIDs(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.AddContactLocation()
	store.AddContactLocation()

	locs := store.Progress().ContactLocations
	require.Len(t, locs, 3)
	assert.Equal(t, "additional", locs[1].Type)
	assert.Equal(t, "additional", locs[2].Type)
	assert.Equal(t, "United States", locs[1].Address.Country)
	assert.NotEqual(t, locs[1].ID, locs[2].ID)
}

func TestRemoveContactLocationNeverRemovesPrimary(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.AddContactLocation()

	store.RemoveContactLocation(0)
	locs := store.Progress().ContactLocations
	require.Len(t, locs, 2)
	assert.Equal(t, "primary", locs[0].Type)

	store.RemoveContactLocation(1)
	assert.Len(t, store.Progress().ContactLocations, 1)
}

func TestRemoveContactLocationOutOfBoundsIsNoOp(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.RemoveContactLocation(5)
	store.RemoveContactLocation(-1)
	assert.Len(t, store.Progress().ContactLocations, 1)
}

func TestUpdateContactLocationOutOfBoundsIsNoOp(t *testing.T) {
	store, _, _ := newTestStore(t)

	phone := "555-0100"
	store.UpdateContactLocation(7, ContactLocationPatch{Phone: &phone})
	assert.Empty(t, store.Progress().ContactLocations[0].Phone)
}

func TestUpdateLegalIdentityReplacesGovernmentIDWholesale(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.UpdateLegalIdentity(LegalIdentityPatch{
		GovernmentID: &models.GovernmentID{
			Type:             "passport",
			Number:           "X1234567",
			UploadedDocument: "documents/passport-scan",
		},
	})
	// A follow-up patch without the document wipes it; sub-records are
	// replaced, never merged field by field.
	store.UpdateLegalIdentity(LegalIdentityPatch{
		GovernmentID: &models.GovernmentID{
			Type:   "ssn",
			Number: "123-45-6789",
		},
	})

	gov := store.Progress().LegalIdentity.GovernmentID
	assert.Equal(t, "ssn", gov.Type)
	assert.Empty(t, gov.UploadedDocument)
}

func TestUpdateLegalIdentityMergesTopLevelFields(t *testing.T) {
	store, _, _ := newTestStore(t)

	first := "Jane"
	store.UpdateLegalIdentity(LegalIdentityPatch{FirstName: &first})
	last := "Doe"
	store.UpdateLegalIdentity(LegalIdentityPatch{LastName: &last})

	identity := store.Progress().LegalIdentity
	require.NotNil(t, identity)
	assert.Equal(t, "Jane", identity.FirstName)
	assert.Equal(t, "Doe", identity.LastName)
}

func TestUpdatePayoutTaxMergesGroups(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.UpdatePayoutTax(PayoutTaxPatch{
		BankAccount: &models.BankAccount{AccountType: "checking", RoutingNumber: "110000000"},
	})
	store.UpdatePayoutTax(PayoutTaxPatch{
		TaxInfo: &models.TaxInfo{TaxIDType: "ein", TaxID: "12-3456789"},
	})

	payout := store.Progress().PayoutTax
	require.NotNil(t, payout)
	assert.Equal(t, "checking", payout.BankAccount.AccountType)
	assert.Equal(t, "ein", payout.TaxInfo.TaxIDType)
}

func TestUpdateCredentialsDefaultsStatusToPending(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.UpdateCredentials([]models.Credential{
		{ID: "c1", Title: "MD License"},
		{ID: "c2", Title: "Board Certification", Status: models.CredentialVerified},
	})

	creds := store.Progress().Credentials
	assert.Equal(t, models.CredentialPending, creds[0].Status)
	assert.Equal(t, models.CredentialVerified, creds[1].Status)
}

func TestUpdateComplianceModule(t *testing.T) {
	store, _, _ := newTestStore(t)

	done := true
	at := "2026-08-31T12:00:00Z"
	pct := 100
	store.UpdateComplianceModule("hipaa", ComplianceModulePatch{
		Completed:         &done,
		CompletedAt:       &at,
		WatchedPercentage: &pct,
	})

	for _, m := range store.Progress().ComplianceModules {
		if m.ID == "hipaa" {
			assert.True(t, m.Completed)
			assert.Equal(t, at, m.CompletedAt)
			assert.Equal(t, 100, m.WatchedPercentage)
		} else {
			assert.False(t, m.Completed)
		}
	}
}

func TestUpdateComplianceModuleUnknownIDIsNoOp(t *testing.T) {
	store, kv, _ := newTestStore(t)
	before := store.Progress()

	done := true
	store.UpdateComplianceModule("nonexistent", ComplianceModulePatch{Completed: &done})

	assert.Equal(t, before, store.Progress())
	_, err := kv.Get(context.Background(), "onboarding:test")
	assert.True(t, errors.Is(err, keyvalue.ErrNotFound), "no-op must not persist")
}

func TestUpdateProgressLeavesAbsentFieldsUntouched(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})

	step := 3
	store.UpdateProgress(ProgressPatch{CurrentStep: &step})

	p := store.Progress()
	assert.Equal(t, 3, p.CurrentStep)
	require.Len(t, p.SelectedRoles, 1)
	assert.Equal(t, "physician", p.SelectedRoles[0].Role)
}

func TestSaveProgressSuccess(t *testing.T) {
	store, _, backend := newTestStore(t)
	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})

	ok := store.SaveProgress(context.Background())
	assert.True(t, ok)
	assert.Empty(t, store.Err())
	assert.False(t, store.Loading())
	require.Len(t, backend.saved, 1)
	assert.Equal(t, store.Progress(), backend.saved[0])
}

func TestSaveProgressFailureKeepsLocalState(t *testing.T) {
	store, _, backend := newTestStore(t)
	backend.saveErr = errors.New("network down")
	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})
	before := store.Progress()

	ok := store.SaveProgress(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "Failed to save progress. Please try again.", store.Err())
	assert.Equal(t, before, store.Progress())
}

func TestSubmitOnboardingSuccess(t *testing.T) {
	store, kv, backend := newTestStore(t)
	store.GoToStep(models.OnboardingTotalSteps)

	ok := store.SubmitOnboarding(context.Background())
	assert.True(t, ok)
	require.Len(t, backend.submitted, 1)

	p := store.Progress()
	assert.Equal(t, models.VerificationInProgress, p.VerificationStatus)
	assert.Equal(t, models.OnboardingTotalSteps, p.CurrentStep, "wizard stays on the review step")

	submittedAt, err := time.Parse(time.RFC3339, p.SubmittedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), submittedAt, time.Minute)

	// The post-submit state is persisted too.
	assert.Equal(t, p, persistedProgress(t, kv))
}

func TestSubmitOnboardingFailure(t *testing.T) {
	store, _, backend := newTestStore(t)
	backend.submitErr = errors.New("mongo unavailable")

	ok := store.SubmitOnboarding(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "Failed to submit onboarding. Please try again.", store.Err())

	p := store.Progress()
	assert.Empty(t, p.SubmittedAt)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)
}

func TestSubmitClearsPreviousError(t *testing.T) {
	store, _, backend := newTestStore(t)
	backend.submitErr = errors.New("down")
	store.SubmitOnboarding(context.Background())
	require.NotEmpty(t, store.Err())

	backend.submitErr = nil
	ok := store.SubmitOnboarding(context.Background())
	assert.True(t, ok)
	assert.Empty(t, store.Err())
}

func TestResetOnboardingErasesDurableCopy(t *testing.T) {
	store, kv, _ := newTestStore(t)
	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})
	store.GoToNextStep()

	store.ResetOnboarding()

	assert.Equal(t, DefaultProgress(), store.Progress())
	_, err := kv.Get(context.Background(), "onboarding:test")
	assert.True(t, errors.Is(err, keyvalue.ErrNotFound))
}

// Full pass through the wizard: an end-to-end exercise of the flow a
// provider actually takes.
func TestWizardEndToEnd(t *testing.T) {
	store, kv, backend := newTestStore(t)

	store.UpdateSelectedRoles([]models.SelectedRole{{Role: "physician", Category: "medical"}})
	require.True(t, store.GetStepValidation(models.StepRoles).IsValid)
	store.GoToNextStep()

	first, last, dob := "Jane", "Doe", "1985-02-14"
	store.UpdateLegalIdentity(LegalIdentityPatch{
		FirstName:   &first,
		LastName:    &last,
		DateOfBirth: &dob,
		GovernmentID: &models.GovernmentID{
			Type:   "ssn",
			Number: "123-45-6789",
		},
	})
	phone, email := "555-0100", "jane@clinic.example"
	telehealth := true
	store.UpdateContactLocation(0, ContactLocationPatch{
		Phone:            &phone,
		Email:            &email,
		IsTelehealthOnly: &telehealth,
	})
	store.UpdatePayoutTax(PayoutTaxPatch{
		BankAccount: &models.BankAccount{
			AccountType:       "checking",
			AccountHolderName: "Jane Doe",
			RoutingNumber:     "110000000",
			AccountNumber:     "000123456789",
		},
		TaxInfo: &models.TaxInfo{TaxIDType: "ssn", TaxID: "123-45-6789"},
	})
	require.True(t, store.GetStepValidation(models.StepProfile).IsValid)
	store.GoToNextStep()

	store.UpdateCredentials([]models.Credential{{
		ID:                  "c1",
		Type:                "license",
		Title:               "MD License",
		IssuingOrganization: "State Medical Board",
		CredentialNumber:    "MD-0001",
	}})
	store.GoToNextStep()

	done := true
	for _, id := range []string{"hipaa", "privacy", "telehealth", "platform", "terms"} {
		pct := 100
		store.UpdateComplianceModule(id, ComplianceModulePatch{Completed: &done, WatchedPercentage: &pct})
	}
	store.GoToNextStep()

	store.UpdateWorkflowSettings(models.WorkflowSettings{BufferTime: 15, MaxAdvanceBooking: 30})
	store.GoToNextStep()

	p := store.Progress()
	assert.Equal(t, models.StepReview, p.CurrentStep)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5"}, p.CompletedSteps)

	require.True(t, store.SubmitOnboarding(context.Background()))
	require.Len(t, backend.submitted, 1)
	assert.Equal(t, store.Progress(), persistedProgress(t, kv))
}
