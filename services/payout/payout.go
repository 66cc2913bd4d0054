package payout

import (
	"context"
	"fmt"

	"heallink/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/token"
	"go.uber.org/zap"
)

// PayoutService verifies payout bank details before the provider moves
// past the profile step.
type PayoutService interface {
	VerifyBankAccount(ctx context.Context, account models.BankAccount) (string, error)
}

// StripePayoutService tokenizes bank accounts with Stripe; the returned
// token stands in for the raw account number downstream.
type StripePayoutService struct {
	logger *zap.Logger
}

func NewStripePayoutService(logger *zap.Logger) *StripePayoutService {
	return &StripePayoutService{logger: logger}
}

// VerifyBankAccount checks the routing number locally and then creates a
// Stripe bank-account token, which validates the pair against the
// banking network without storing raw numbers.
func (s *StripePayoutService) VerifyBankAccount(ctx context.Context, account models.BankAccount) (string, error) {
	if !ValidRoutingNumber(account.RoutingNumber) {
		return "", fmt.Errorf("invalid routing number")
	}
	if account.AccountNumber == "" {
		return "", fmt.Errorf("account number is required")
	}

	params := bankAccountTokenParams(account)
	params.Context = ctx

	t, err := token.New(params)
	if err != nil {
		s.logger.Warn("Stripe bank account tokenization failed", zap.Error(err))
		return "", fmt.Errorf("failed to verify bank account: %w", err)
	}
	return t.ID, nil
}

// bankAccountTokenParams maps our bank account shape onto Stripe's
// token request.
func bankAccountTokenParams(account models.BankAccount) *stripe.TokenParams {
	return &stripe.TokenParams{
		BankAccount: &stripe.BankAccountParams{
			Country:           stripe.String("US"),
			Currency:          stripe.String("usd"),
			AccountHolderName: stripe.String(account.AccountHolderName),
			AccountHolderType: stripe.String("individual"),
			RoutingNumber:     stripe.String(account.RoutingNumber),
			AccountNumber:     stripe.String(account.AccountNumber),
		},
	}
}

// ValidRoutingNumber checks the 9-digit ABA routing number checksum:
// 3(d1+d4+d7) + 7(d2+d5+d8) + (d3+d6+d9) must be a multiple of 10.
func ValidRoutingNumber(routing string) bool {
	if len(routing) != 9 {
		return false
	}
	sum := 0
	for i, weight := range []int{3, 7, 1, 3, 7, 1, 3, 7, 1} {
		d := routing[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += weight * int(d-'0')
	}
	return sum != 0 && sum%10 == 0
}
