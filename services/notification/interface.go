package notification

import (
	"context"
	"fmt"

	"heallink/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
	NotifyVerificationResult(ctx context.Context, deviceToken, status string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct{}

func NewDefaultNotificationService() *DefaultNotificationService {
	return &DefaultNotificationService{}
}

// SendPush delivers a push message to a single device token. Tokens
// rejected by FCM as unregistered are not an error; the device simply
// uninstalled the app.
func (s *DefaultNotificationService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		return nil
	}
	if utils.FCMClient == nil {
		return fmt.Errorf("notification service: FCM client not initialized")
	}

	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		if messaging.IsUnregistered(err) {
			utils.GetLogger().Debug("FCM token unregistered", zap.String("token", deviceToken))
			return nil
		}
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

// NotifyVerificationResult tells the provider their onboarding review
// finished.
func (s *DefaultNotificationService) NotifyVerificationResult(ctx context.Context, deviceToken, status string) error {
	title := "Onboarding update"
	body := "Your provider verification is still in review."
	switch status {
	case "completed":
		body = "You're verified! Welcome to HealLink."
	case "rejected":
		body = "We couldn't verify your onboarding. Please review your submission."
	}
	return s.SendPush(ctx, deviceToken, title, body, map[string]string{
		"type":   "verification",
		"status": status,
	})
}
