package routes

import (
	"heallink/handlers"
	"heallink/middleware"
	"heallink/utils"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterOnboardingRoutes registers the provider onboarding wizard endpoints.
func RegisterOnboardingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/onboarding")
	{
		// Session creation is the only endpoint outside a session.
		api.POST("/sessions", hb.Onboarding.StartSessionHandler)

		// Document uploads are keyed by session too, but carry no wizard
		// state, so they only need the upload handler.
		api.POST("/documents/credentials/:bucket", hb.Documents.UploadCredentialHandler)
		api.POST("/documents/government-id", hb.Documents.UploadGovernmentIDHandler)
		api.GET("/documents/:bucket/:filename", hb.Documents.GetDocumentURLHandler)

		// Everything else operates on the session's wizard state.
		session := api.Group("")
		session.Use(hb.Onboarding.SessionMiddleware())
		session.GET("/progress", hb.Onboarding.GetProgressHandler)
		session.PATCH("/progress", hb.Onboarding.UpdateProgressHandler)
		session.PUT("/roles", hb.Onboarding.UpdateRolesHandler)
		session.PATCH("/profile/legal-identity", hb.Onboarding.UpdateLegalIdentityHandler)
		session.PUT("/profile/locations", hb.Onboarding.UpdateContactLocationsHandler)
		session.POST("/profile/locations", hb.Onboarding.AddContactLocationHandler)
		session.PATCH("/profile/locations/:index", hb.Onboarding.UpdateContactLocationHandler)
		session.DELETE("/profile/locations/:index", hb.Onboarding.RemoveContactLocationHandler)
		session.PATCH("/profile/payout-tax", hb.Onboarding.UpdatePayoutTaxHandler)
		session.POST("/profile/payout-tax/verify", hb.Onboarding.VerifyBankAccountHandler)
		session.PUT("/credentials", hb.Onboarding.UpdateCredentialsHandler)
		session.PATCH("/compliance/:moduleId", hb.Onboarding.UpdateComplianceModuleHandler)
		session.PUT("/workflow", hb.Onboarding.UpdateWorkflowSettingsHandler)
		session.PUT("/step/:step", hb.Onboarding.GoToStepHandler)
		session.POST("/step/next", hb.Onboarding.NextStepHandler)
		session.POST("/step/previous", hb.Onboarding.PreviousStepHandler)
		session.POST("/step/:step/complete", hb.Onboarding.MarkStepCompleteHandler)
		session.GET("/validation/:step", hb.Onboarding.StepValidationHandler)
		session.POST("/save", hb.Onboarding.SaveProgressHandler)
		session.POST("/submit", hb.Onboarding.SubmitOnboardingHandler)
		session.POST("/reset", hb.Onboarding.ResetOnboardingHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin account operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/auth/signin", hb.Admin.SignInHandler)

		protected := adminGroup.Group("")
		protected.Use(middleware.JWTAuthAdminMiddleware(hb.AdminRepo))
		protected.POST("/admins", hb.Admin.CreateAdminHandler)
		protected.GET("/admins", hb.Admin.ListAdminsHandler)
		protected.GET("/admins/stats", hb.Admin.GetAdminStatsHandler)
		protected.GET("/admins/:id", hb.Admin.GetAdminHandler)
		protected.PATCH("/admins/:id", hb.Admin.UpdateAdminHandler)
		protected.DELETE("/admins/:id", hb.Admin.DeleteAdminHandler)
		protected.PUT("/admins/:id/status", hb.Admin.ToggleAdminStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint exposing the
// latest dependency snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm Heallink",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", handlers.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimitMiddleware())

	RegisterOnboardingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
