package contract

import (
	"context"

	"venture-ai-be/internal/entity"
)

// SessionRepository is the durable session store. Load and FindByUser
// return (nil, nil) when nothing matches.
type SessionRepository interface {
	Load(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	FindByUser(ctx context.Context, userId string) (*entity.Session, error)
}
