package onboarding

import (
	"testing"

	"heallink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeProfile() models.OnboardingProgress {
	p := DefaultProgress()
	p.LegalIdentity = &models.LegalIdentity{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1985-02-14",
		GovernmentID: models.GovernmentID{
			Type:   "ssn",
			Number: "123-45-6789",
		},
	}
	p.ContactLocations = []models.ContactLocation{{
		ID:    "primary",
		Type:  "primary",
		Phone: "555-0100",
		Email: "jane@clinic.example",
		Address: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: "United States",
		},
	}}
	p.PayoutTax = &models.PayoutTax{
		BankAccount: models.BankAccount{
			AccountType:   "checking",
			RoutingNumber: "110000000",
			AccountNumber: "000123456789",
		},
		TaxInfo: models.TaxInfo{TaxIDType: "ssn", TaxID: "123-45-6789"},
	}
	return p
}

func TestValidateRolesStep(t *testing.T) {
	p := DefaultProgress()

	v := ValidateStep(p, models.StepRoles)
	assert.False(t, v.IsValid)
	assert.Equal(t, "Please select at least one provider role", v.Errors["roles"])

	p.SelectedRoles = []models.SelectedRole{{Role: "physician", Category: "medical"}}
	v = ValidateStep(p, models.StepRoles)
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
}

func TestValidateProfileStepReportsAllGroups(t *testing.T) {
	v := ValidateStep(DefaultProgress(), models.StepProfile)

	require.False(t, v.IsValid)
	assert.Contains(t, v.Errors, "legal")
	assert.Contains(t, v.Errors, "contact")
	assert.Contains(t, v.Errors, "payout")
}

func TestValidateProfileStepGroupsAreIndependent(t *testing.T) {
	p := completeProfile()
	p.PayoutTax = nil

	v := ValidateStep(p, models.StepProfile)
	assert.False(t, v.IsValid)
	assert.NotContains(t, v.Errors, "legal")
	assert.NotContains(t, v.Errors, "contact")
	assert.Equal(t, "Please complete payout and tax information", v.Errors["payout"])
}

func TestValidateProfileStepComplete(t *testing.T) {
	v := ValidateStep(completeProfile(), models.StepProfile)
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
}

func TestTelehealthOnlyLocationSkipsAddressCheck(t *testing.T) {
	p := completeProfile()
	p.ContactLocations[0].IsTelehealthOnly = true
	p.ContactLocations[0].Address = models.Address{Country: "United States"}

	v := ValidateStep(p, models.StepProfile)
	assert.NotContains(t, v.Errors, "contact")
}

func TestIncompleteAdditionalLocationFailsContactGroup(t *testing.T) {
	p := completeProfile()
	p.ContactLocations = append(p.ContactLocations, models.ContactLocation{
		ID:   "location-2",
		Type: "additional",
	})

	v := ValidateStep(p, models.StepProfile)
	assert.Equal(t, "Please complete contact information for all locations", v.Errors["contact"])
}

func TestGovernmentIDRequiredForLegalGroup(t *testing.T) {
	p := completeProfile()
	p.LegalIdentity.GovernmentID.Number = ""

	v := ValidateStep(p, models.StepProfile)
	assert.Contains(t, v.Errors, "legal")
}

func TestRemainingStepsAlwaysValidate(t *testing.T) {
	p := DefaultProgress()
	for _, step := range []int{models.StepCredentials, models.StepCompliance, models.StepWorkflow, models.StepReview} {
		v := ValidateStep(p, step)
		assert.True(t, v.IsValid, "step %d", step)
		assert.NotNil(t, v.Errors)
		assert.NotNil(t, v.Warnings)
	}
}
