// File: heallink/handlers/onboarding.go
package handlers

import (
	"net/http"
	"strconv"

	"heallink/models"
	"heallink/services/onboarding"
	"heallink/services/payout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHeader carries the onboarding session ID on every wizard request.
const SessionHeader = "X-Onboarding-Session"

// storeContextKey is where the session middleware parks the resolved store.
const storeContextKey = "onboardingStore"

// OnboardingHandler serves the provider onboarding wizard endpoints.
type OnboardingHandler struct {
	Sessions  *onboarding.SessionManager
	PayoutSvc payout.PayoutService
}

// NewOnboardingHandler creates a new OnboardingHandler instance.
func NewOnboardingHandler(sessions *onboarding.SessionManager, payoutSvc payout.PayoutService) *OnboardingHandler {
	return &OnboardingHandler{
		Sessions:  sessions,
		PayoutSvc: payoutSvc,
	}
}

// SessionMiddleware resolves the ProgressStore for the session named in
// the request header and parks it on the context for the handlers below.
func (h *OnboardingHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing onboarding session",
			})
			return
		}
		c.Set(storeContextKey, h.Sessions.Store(sessionID))
		c.Set("onboardingSessionID", sessionID)
		c.Next()
	}
}

// StoreFromContext returns the session's ProgressStore. Calling it from a
// route that is not wrapped with SessionMiddleware is a programming
// error, so it panics rather than limping along without state.
func StoreFromContext(c *gin.Context) *onboarding.ProgressStore {
	v, exists := c.Get(storeContextKey)
	if !exists {
		panic("onboarding store missing from context; route must be wrapped with SessionMiddleware")
	}
	return v.(*onboarding.ProgressStore)
}

// progressResponse is the envelope every wizard endpoint answers with.
func progressResponse(store *onboarding.ProgressStore) gin.H {
	return gin.H{
		"progress":  store.Progress(),
		"isLoading": store.Loading(),
		"error":     store.Err(),
	}
}

// StartSessionHandler handles POST /onboarding/sessions.
func (h *OnboardingHandler) StartSessionHandler(c *gin.Context) {
	sessionID, store := h.Sessions.StartSession()
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": sessionID,
		"progress":  store.Progress(),
	})
}

// GetProgressHandler handles GET /onboarding/progress.
func (h *OnboardingHandler) GetProgressHandler(c *gin.Context) {
	c.JSON(http.StatusOK, progressResponse(StoreFromContext(c)))
}

// progressPatchRequest mirrors onboarding.ProgressPatch on the wire.
// Absent fields stay nil and leave their counterpart untouched.
type progressPatchRequest struct {
	CurrentStep        *int                      `json:"currentStep"`
	CompletedSteps     []string                  `json:"completedSteps"`
	SelectedRoles      []models.SelectedRole     `json:"selectedRoles"`
	LegalIdentity      *models.LegalIdentity     `json:"legalIdentity"`
	ContactLocations   []models.ContactLocation  `json:"contactLocations"`
	PayoutTax          *models.PayoutTax         `json:"payoutTax"`
	Credentials        []models.Credential       `json:"credentials"`
	ComplianceModules  []models.ComplianceModule `json:"complianceModules"`
	WorkflowSettings   *models.WorkflowSettings  `json:"workflowSettings"`
	VerificationStatus *string                   `json:"verificationStatus"`
	SubmittedAt        *string                   `json:"submittedAt"`
}

// UpdateProgressHandler handles PATCH /onboarding/progress.
func (h *OnboardingHandler) UpdateProgressHandler(c *gin.Context) {
	var req progressPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateProgress(onboarding.ProgressPatch{
		CurrentStep:        req.CurrentStep,
		CompletedSteps:     req.CompletedSteps,
		SelectedRoles:      req.SelectedRoles,
		LegalIdentity:      req.LegalIdentity,
		ContactLocations:   req.ContactLocations,
		PayoutTax:          req.PayoutTax,
		Credentials:        req.Credentials,
		ComplianceModules:  req.ComplianceModules,
		WorkflowSettings:   req.WorkflowSettings,
		VerificationStatus: req.VerificationStatus,
		SubmittedAt:        req.SubmittedAt,
	})
	c.JSON(http.StatusOK, progressResponse(store))
}

// UpdateRolesHandler handles PUT /onboarding/roles.
func (h *OnboardingHandler) UpdateRolesHandler(c *gin.Context) {
	var req struct {
		Roles []models.SelectedRole `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateSelectedRoles(req.Roles)
	c.JSON(http.StatusOK, progressResponse(store))
}

type legalIdentityRequest struct {
	FirstName    *string              `json:"firstName"`
	MiddleName   *string              `json:"middleName"`
	LastName     *string              `json:"lastName"`
	DateOfBirth  *string              `json:"dateOfBirth"`
	GovernmentID *models.GovernmentID `json:"governmentId"`
}

// UpdateLegalIdentityHandler handles PATCH /onboarding/profile/legal-identity.
func (h *OnboardingHandler) UpdateLegalIdentityHandler(c *gin.Context) {
	var req legalIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateLegalIdentity(onboarding.LegalIdentityPatch{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		GovernmentID: req.GovernmentID,
	})
	c.JSON(http.StatusOK, progressResponse(store))
}

// UpdateContactLocationsHandler handles PUT /onboarding/profile/locations.
func (h *OnboardingHandler) UpdateContactLocationsHandler(c *gin.Context) {
	var req struct {
		Locations []models.ContactLocation `json:"locations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateContactLocations(req.Locations)
	c.JSON(http.StatusOK, progressResponse(store))
}

type contactLocationRequest struct {
	Address          *models.Address `json:"address"`
	Phone            *string         `json:"phone"`
	Email            *string         `json:"email"`
	IsTelehealthOnly *bool           `json:"isTelehealthOnly"`
}

// UpdateContactLocationHandler handles PATCH /onboarding/profile/locations/:index.
func (h *OnboardingHandler) UpdateContactLocationHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location index"})
		return
	}
	var req contactLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateContactLocation(index, onboarding.ContactLocationPatch{
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		IsTelehealthOnly: req.IsTelehealthOnly,
	})
	c.JSON(http.StatusOK, progressResponse(store))
}

// AddContactLocationHandler handles POST /onboarding/profile/locations.
func (h *OnboardingHandler) AddContactLocationHandler(c *gin.Context) {
	store := StoreFromContext(c)
	store.AddContactLocation()
	c.JSON(http.StatusOK, progressResponse(store))
}

// RemoveContactLocationHandler handles DELETE /onboarding/profile/locations/:index.
// Removing the primary location is refused by the store; the response
// simply reflects the unchanged state.
func (h *OnboardingHandler) RemoveContactLocationHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location index"})
		return
	}
	store := StoreFromContext(c)
	store.RemoveContactLocation(index)
	c.JSON(http.StatusOK, progressResponse(store))
}

type payoutTaxRequest struct {
	BankAccount *models.BankAccount `json:"bankAccount"`
	TaxInfo     *models.TaxInfo     `json:"taxInfo"`
}

// UpdatePayoutTaxHandler handles PATCH /onboarding/profile/payout-tax.
func (h *OnboardingHandler) UpdatePayoutTaxHandler(c *gin.Context) {
	var req payoutTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdatePayoutTax(onboarding.PayoutTaxPatch{
		BankAccount: req.BankAccount,
		TaxInfo:     req.TaxInfo,
	})
	c.JSON(http.StatusOK, progressResponse(store))
}

// VerifyBankAccountHandler handles POST /onboarding/profile/payout-tax/verify.
// It tokenizes the bank account with the payment processor without
// storing the raw account number anywhere in the wizard state.
func (h *OnboardingHandler) VerifyBankAccountHandler(c *gin.Context) {
	logger := getLogger(c)
	var account models.BankAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if !payout.ValidRoutingNumber(account.RoutingNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid routing number"})
		return
	}
	tokenID, err := h.PayoutSvc.VerifyBankAccount(c.Request.Context(), account)
	if err != nil {
		logger.Error("Failed to verify bank account", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to verify bank account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenID})
}

// UpdateCredentialsHandler handles PUT /onboarding/credentials.
func (h *OnboardingHandler) UpdateCredentialsHandler(c *gin.Context) {
	var req struct {
		Credentials []models.Credential `json:"credentials"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateCredentials(req.Credentials)
	c.JSON(http.StatusOK, progressResponse(store))
}

type complianceModuleRequest struct {
	Completed         *bool   `json:"completed"`
	CompletedAt       *string `json:"completedAt"`
	WatchedPercentage *int    `json:"watchedPercentage"`
}

// UpdateComplianceModuleHandler handles PATCH /onboarding/compliance/:moduleId.
func (h *OnboardingHandler) UpdateComplianceModuleHandler(c *gin.Context) {
	moduleID := c.Param("moduleId")
	var req complianceModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateComplianceModule(moduleID, onboarding.ComplianceModulePatch{
		Completed:         req.Completed,
		CompletedAt:       req.CompletedAt,
		WatchedPercentage: req.WatchedPercentage,
	})
	c.JSON(http.StatusOK, progressResponse(store))
}

// UpdateWorkflowSettingsHandler handles PUT /onboarding/workflow.
func (h *OnboardingHandler) UpdateWorkflowSettingsHandler(c *gin.Context) {
	var settings models.WorkflowSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	store := StoreFromContext(c)
	store.UpdateWorkflowSettings(settings)
	c.JSON(http.StatusOK, progressResponse(store))
}

// GoToStepHandler handles PUT /onboarding/step/:step.
func (h *OnboardingHandler) GoToStepHandler(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step"})
		return
	}
	store := StoreFromContext(c)
	store.GoToStep(step)
	c.JSON(http.StatusOK, progressResponse(store))
}

// NextStepHandler handles POST /onboarding/step/next.
func (h *OnboardingHandler) NextStepHandler(c *gin.Context) {
	store := StoreFromContext(c)
	store.GoToNextStep()
	c.JSON(http.StatusOK, progressResponse(store))
}

// PreviousStepHandler handles POST /onboarding/step/previous.
func (h *OnboardingHandler) PreviousStepHandler(c *gin.Context) {
	store := StoreFromContext(c)
	store.GoToPreviousStep()
	c.JSON(http.StatusOK, progressResponse(store))
}

// MarkStepCompleteHandler handles POST /onboarding/step/:step/complete.
func (h *OnboardingHandler) MarkStepCompleteHandler(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step"})
		return
	}
	store := StoreFromContext(c)
	store.MarkStepComplete(step)
	c.JSON(http.StatusOK, progressResponse(store))
}

// StepValidationHandler handles GET /onboarding/validation/:step.
func (h *OnboardingHandler) StepValidationHandler(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step"})
		return
	}
	store := StoreFromContext(c)
	c.JSON(http.StatusOK, store.GetStepValidation(step))
}

// SaveProgressHandler handles POST /onboarding/save. The draft goes to
// the remote backend; local wizard state is unaffected by a failure.
func (h *OnboardingHandler) SaveProgressHandler(c *gin.Context) {
	store := StoreFromContext(c)
	if !store.SaveProgress(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   store.Err(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": store.Progress(),
	})
}

// SubmitOnboardingHandler handles POST /onboarding/submit. On success
// the wizard stays on the review step with verification in progress.
func (h *OnboardingHandler) SubmitOnboardingHandler(c *gin.Context) {
	store := StoreFromContext(c)
	if !store.SubmitOnboarding(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   store.Err(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": store.Progress(),
	})
}

// ResetOnboardingHandler handles POST /onboarding/reset.
func (h *OnboardingHandler) ResetOnboardingHandler(c *gin.Context) {
	store := StoreFromContext(c)
	store.ResetOnboarding()
	c.JSON(http.StatusOK, progressResponse(store))
}
