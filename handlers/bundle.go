package handlers

import (
	adminRepo "heallink/database/repository/admin"
)

// HandlerBundle aggregates all handlers and the repositories the route
// middleware needs, so route registration takes a single value.
type HandlerBundle struct {
	Onboarding *OnboardingHandler
	Admin      *AdminHandler
	Documents  *DocumentHandler

	AdminRepo adminRepo.AdminRepository
}
