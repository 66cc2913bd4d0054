package models

import "time"

// Provider onboarding wizard steps. The wizard is a fixed six step flow:
// roles, profile, credentials, compliance, workflow, review.
const (
	OnboardingTotalSteps = 6

	StepRoles       = 1
	StepProfile     = 2
	StepCredentials = 3
	StepCompliance  = 4
	StepWorkflow    = 5
	StepReview      = 6
)

// Verification status values for a submitted onboarding record.
const (
	VerificationPending    = "pending"
	VerificationInProgress = "in-progress"
	VerificationCompleted  = "completed"
	VerificationRejected   = "rejected"
)

// SelectedRole is one provider role picked during step 1. Roles are unique
// by Role value, except "other" entries which are distinguished by their
// custom description.
type SelectedRole struct {
	Role              string `json:"role"`
	Category          string `json:"category"`
	CustomDescription string `json:"customDescription,omitempty"`
}

// GovernmentID identifies the provider with an official document.
type GovernmentID struct {
	Type             string `json:"type"` // "ssn", "passport", "driver-license", "ein"
	Number           string `json:"number"`
	UploadedDocument string `json:"uploadedDocument,omitempty"` // storage URL
}

// LegalIdentity is the provider's legal name and government identification.
type LegalIdentity struct {
	FirstName    string       `json:"firstName"`
	MiddleName   string       `json:"middleName,omitempty"`
	LastName     string       `json:"lastName"`
	DateOfBirth  string       `json:"dateOfBirth"`
	GovernmentID GovernmentID `json:"governmentId"`
}

// Address is a practice street address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ContactLocation is one practice location. Exactly one location has
// type "primary" and it can never be removed.
type ContactLocation struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"` // "primary" or "additional"
	Address          Address `json:"address"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	IsTelehealthOnly bool    `json:"isTelehealthOnly"`
}

// BankAccount holds payout destination details.
type BankAccount struct {
	AccountType       string `json:"accountType"` // "checking" or "savings"
	AccountHolderName string `json:"accountHolderName"`
	RoutingNumber     string `json:"routingNumber"`
	AccountNumber     string `json:"accountNumber"`
}

// TaxInfo holds tax identification details.
type TaxInfo struct {
	TaxIDType      string `json:"taxIdType"` // "ssn" or "ein"
	TaxID          string `json:"taxId"`
	CorporateTaxID string `json:"corporateTaxId,omitempty"`
}

// PayoutTax combines bank account and tax identification (step 2).
type PayoutTax struct {
	BankAccount BankAccount `json:"bankAccount"`
	TaxInfo     TaxInfo     `json:"taxInfo"`
}

// Credential status values.
const (
	CredentialPending  = "pending"
	CredentialVerified = "verified"
	CredentialRejected = "rejected"
)

// Credential is one professional credential (license, certification,
// insurance policy) collected during step 3. New credentials always start
// with status "pending".
type Credential struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Title               string `json:"title"`
	IssuingOrganization string `json:"issuingOrganization"`
	IssueDate           string `json:"issueDate"`
	ExpirationDate      string `json:"expirationDate,omitempty"`
	CredentialNumber    string `json:"credentialNumber"`
	File                string `json:"file,omitempty"` // storage URL
	Status              string `json:"status"`
}

// ComplianceModule is one of the five fixed training units of step 4.
type ComplianceModule struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	VideoURL          string `json:"videoUrl"`
	Duration          int    `json:"duration"` // minutes
	Completed         bool   `json:"completed"`
	CompletedAt       string `json:"completedAt,omitempty"`
	WatchedPercentage int    `json:"watchedPercentage"`
}

// TimeSlot is one weekday's availability window.
type TimeSlot struct {
	Day       string `json:"day"`
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AppointmentType is one bookable visit type.
type AppointmentType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // minutes
	Price    int    `json:"price"`    // cents
	Enabled  bool   `json:"enabled"`
}

// ReminderSettings controls patient appointment reminders.
type ReminderSettings struct {
	EmailEnabled bool `json:"emailEnabled"`
	SMSEnabled   bool `json:"smsEnabled"`
	HoursBefore  int  `json:"hoursBefore"`
}

// PaymentSettings controls how patients pay for visits.
type PaymentSettings struct {
	AcceptInsurance bool `json:"acceptInsurance"`
	AcceptSelfPay   bool `json:"acceptSelfPay"`
	DepositRequired bool `json:"depositRequired"`
}

// WorkflowSettings is the provider's practice configuration from step 5.
type WorkflowSettings struct {
	Availability       []TimeSlot        `json:"availability"` // one entry per weekday
	AppointmentTypes   []AppointmentType `json:"appointmentTypes"`
	BufferTime         int               `json:"bufferTime"` // minutes between visits
	MaxAdvanceBooking  int               `json:"maxAdvanceBooking"` // days
	CancellationPolicy string            `json:"cancellationPolicy"`
	AutoConfirmation   bool              `json:"autoConfirmation"`
	ReminderSettings   ReminderSettings  `json:"reminderSettings"`
	PaymentSettings    PaymentSettings   `json:"paymentSettings"`
}

// OnboardingProgress holds the whole wizard state for one provider
// session. It is serialized as a single JSON blob after every mutation.
type OnboardingProgress struct {
	CurrentStep        int                `json:"currentStep"`
	TotalSteps         int                `json:"totalSteps"`
	CompletedSteps     []string           `json:"completedSteps"`
	SelectedRoles      []SelectedRole     `json:"selectedRoles"`
	LegalIdentity      *LegalIdentity     `json:"legalIdentity,omitempty"`
	ContactLocations   []ContactLocation  `json:"contactLocations"`
	PayoutTax          *PayoutTax         `json:"payoutTax,omitempty"`
	Credentials        []Credential       `json:"credentials"`
	ComplianceModules  []ComplianceModule `json:"complianceModules"`
	WorkflowSettings   *WorkflowSettings  `json:"workflowSettings,omitempty"`
	VerificationStatus string             `json:"verificationStatus"`
	SubmittedAt        string             `json:"submittedAt,omitempty"`
}

// StepValidation is the result of validating a single wizard step.
type StepValidation struct {
	IsValid  bool              `json:"isValid"`
	Errors   map[string]string `json:"errors"`
	Warnings []string          `json:"warnings"`
}

// OnboardingSubmission is the durable record written to MongoDB when a
// provider completes the wizard.
type OnboardingSubmission struct {
	ID                 string             `json:"id" bson:"id"`
	SessionID          string             `json:"sessionId" bson:"session_id"`
	Progress           OnboardingProgress `json:"progress" bson:"progress"`
	VerificationStatus string             `json:"verificationStatus" bson:"verification_status"`
	DeviceToken        string             `json:"deviceToken,omitempty" bson:"device_token,omitempty"`
	SubmittedAt        time.Time          `json:"submittedAt" bson:"submitted_at"`
	ReviewedAt         *time.Time         `json:"reviewedAt,omitempty" bson:"reviewed_at,omitempty"`
}

// VerificationPayload is the asynq task payload for reviewing a
// submitted onboarding record.
type VerificationPayload struct {
	SubmissionID string `json:"submissionId"`
	SessionID    string `json:"sessionId"`
}
