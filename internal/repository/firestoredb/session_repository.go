package firestoredb

import (
	"context"
	"fmt"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionCollection = "sessions"

// SessionRepository keeps one document per session in Firestore.
type SessionRepository struct {
	client *firestore.Client
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(ctx context.Context, projectID, databaseID string) (*SessionRepository, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT is required for the firestore session backend")
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &SessionRepository{client: client}, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if _, err := r.client.Collection(sessionCollection).Doc(session.Id).Set(ctx, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.Id, err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*entity.Session, error) {
	snap, err := r.client.Collection(sessionCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return decode(snap)
}

func (r *SessionRepository) FindByUser(ctx context.Context, userId string) (*entity.Session, error) {
	iter := r.client.Collection(sessionCollection).
		Where("user_id", "==", userId).
		OrderBy("updated_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for user %s: %w", userId, err)
	}
	return decode(snap)
}

func (r *SessionRepository) Close() error {
	return r.client.Close()
}

func decode(snap *firestore.DocumentSnapshot) (*entity.Session, error) {
	var session entity.Session
	if err := snap.DataTo(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", snap.Ref.ID, err)
	}
	session.Id = snap.Ref.ID
	if session.State == nil {
		session.State = map[string]interface{}{}
	}
	return &session, nil
}
