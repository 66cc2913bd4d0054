package onboarding

import "heallink/models"

// complianceCatalog is the fixed set of training modules every provider
// completes. Seeded into each new progress record; progress per module
// lives in the session, the catalog itself never changes at runtime.
var complianceCatalog = []models.ComplianceModule{
	{
		ID:          "hipaa",
		Name:        "HIPAA Compliance",
		Description: "Understanding patient privacy and data protection requirements",
		VideoURL:    "/videos/hipaa-training.mp4",
		Duration:    15,
	},
	{
		ID:          "privacy",
		Name:        "Privacy & Security",
		Description: "Best practices for maintaining patient privacy and data security",
		VideoURL:    "/videos/privacy-training.mp4",
		Duration:    12,
	},
	{
		ID:          "telehealth",
		Name:        "Telehealth Best Practices",
		Description: "Guidelines for effective virtual patient consultations",
		VideoURL:    "/videos/telehealth-training.mp4",
		Duration:    18,
	},
	{
		ID:          "platform",
		Name:        "Platform Guidelines",
		Description: "How to use HealLink platform effectively",
		VideoURL:    "/videos/platform-training.mp4",
		Duration:    20,
	},
	{
		ID:          "terms",
		Name:        "Terms & Conditions",
		Description: "Understanding our terms of service and provider agreement",
		VideoURL:    "/videos/terms-training.mp4",
		Duration:    10,
	},
}

// DefaultProgress returns a fresh wizard state: step 1, no roles, one
// non-removable primary contact location, and the five compliance
// modules uncompleted.
func DefaultProgress() models.OnboardingProgress {
	modules := make([]models.ComplianceModule, len(complianceCatalog))
	copy(modules, complianceCatalog)

	return models.OnboardingProgress{
		CurrentStep:    1,
		TotalSteps:     models.OnboardingTotalSteps,
		CompletedSteps: []string{},
		SelectedRoles:  []models.SelectedRole{},
		ContactLocations: []models.ContactLocation{
			{
				ID:   "primary",
				Type: "primary",
				Address: models.Address{
					Country: "United States",
				},
			},
		},
		Credentials:        []models.Credential{},
		ComplianceModules:  modules,
		VerificationStatus: models.VerificationPending,
	}
}
