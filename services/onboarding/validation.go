package onboarding

import "heallink/models"

// GetStepValidation validates a single wizard step against the current
// state. Pure read, no mutation. Only the role selection and profile
// steps carry store-level rules; the remaining steps are gated ad hoc
// by the caller.
func (s *ProgressStore) GetStepValidation(step int) models.StepValidation {
	s.mu.Lock()
	progress := s.progress
	s.mu.Unlock()

	return ValidateStep(progress, step)
}

// ValidateStep is the validation predicate behind GetStepValidation,
// usable on any snapshot.
func ValidateStep(progress models.OnboardingProgress, step int) models.StepValidation {
	switch step {
	case models.StepRoles:
		return validateRoles(progress)
	case models.StepProfile:
		return validateProfile(progress)
	default:
		return models.StepValidation{
			IsValid:  true,
			Errors:   map[string]string{},
			Warnings: []string{},
		}
	}
}

func validateRoles(progress models.OnboardingProgress) models.StepValidation {
	errs := map[string]string{}
	if len(progress.SelectedRoles) == 0 {
		errs["roles"] = "Please select at least one provider role"
	}
	return models.StepValidation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: []string{},
	}
}

// validateProfile checks the three profile groups independently, so a
// form with several incomplete sections reports every failing group at
// once.
func validateProfile(progress models.OnboardingProgress) models.StepValidation {
	errs := map[string]string{}

	if !legalIdentityComplete(progress.LegalIdentity) {
		errs["legal"] = "Please complete legal identity information"
	}
	if !contactLocationsComplete(progress.ContactLocations) {
		errs["contact"] = "Please complete contact information for all locations"
	}
	if !payoutTaxComplete(progress.PayoutTax) {
		errs["payout"] = "Please complete payout and tax information"
	}

	return models.StepValidation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: []string{},
	}
}

func legalIdentityComplete(identity *models.LegalIdentity) bool {
	if identity == nil {
		return false
	}
	return identity.FirstName != "" &&
		identity.LastName != "" &&
		identity.DateOfBirth != "" &&
		identity.GovernmentID.Type != "" &&
		identity.GovernmentID.Number != ""
}

func contactLocationsComplete(locations []models.ContactLocation) bool {
	for _, loc := range locations {
		if loc.Email == "" || loc.Phone == "" {
			return false
		}
		if loc.IsTelehealthOnly {
			continue
		}
		if loc.Address.Street == "" || loc.Address.City == "" ||
			loc.Address.State == "" || loc.Address.ZipCode == "" {
			return false
		}
	}
	return true
}

func payoutTaxComplete(payout *models.PayoutTax) bool {
	if payout == nil {
		return false
	}
	return payout.BankAccount.AccountType != "" &&
		payout.BankAccount.RoutingNumber != "" &&
		payout.BankAccount.AccountNumber != "" &&
		payout.TaxInfo.TaxIDType != "" &&
		payout.TaxInfo.TaxID != ""
}
