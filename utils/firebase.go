// utils/firebase.go
package utils

import (
	"context"
	"log"
	"os"

	"heallink/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client. When
// no service account key is configured the client stays nil and push
// notifications are skipped; verification results still land in Mongo.
func FirebaseInit() {
	keyPath := config.FirebaseServiceAccountKeyPath
	if keyPath == "" {
		keyPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY")
	}
	if keyPath == "" {
		log.Println("firebase: no service account key configured, push notifications disabled")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(keyPath))
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
	FCMClient = client
}
