package mirror

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/api/option"

	"github.com/RamilOcampo/GymDesk/internal/pkg/env"
)

// FirestoreSink writes mirror documents into Firestore collections.
type FirestoreSink struct {
	client *firestore.Client
}

// NewFirestoreSinkFromEnv builds the sink from FIRESTORE_PROJECT_ID and
// FIRESTORE_CREDENTIALS_FILE. Returns (nil, nil) when mirroring is not
// configured, which disables the queue cleanly.
func NewFirestoreSinkFromEnv(ctx context.Context) (*FirestoreSink, error) {
	projectID := env.GetEnv("FIRESTORE_PROJECT_ID", "")
	credentialsFile := env.GetEnv("FIRESTORE_CREDENTIALS_FILE", "")
	if projectID == "" || credentialsFile == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: projectID},
		option.WithCredentialsFile(credentialsFile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Infof("[Mirror] Firestore sink ready (project %s)", projectID)
	return &FirestoreSink{client: client}, nil
}

// Write upserts the payload's document into its collection.
func (s *FirestoreSink) Write(ctx context.Context, payload *DocumentJobPayload) error {
	if payload.Collection == "" || payload.DocID == "" {
		return fmt.Errorf("mirror document needs collection and doc id")
	}
	_, err := s.client.Collection(payload.Collection).Doc(payload.DocID).Set(ctx, payload.Document)
	if err != nil {
		return fmt.Errorf("firestore write %s/%s: %w", payload.Collection, payload.DocID, err)
	}
	return nil
}

// Close releases the underlying Firestore client.
func (s *FirestoreSink) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
