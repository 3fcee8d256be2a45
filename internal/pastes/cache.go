package pastes

import (
	"context"
	"time"
)

type Cache interface {
	GetByID(ctx context.Context, id string) (*Paste, bool, error)
	SetByID(ctx context.Context, p *Paste, ttl time.Duration) error
	DeleteByID(ctx context.Context, id string) error
	GetRecent(ctx context.Context) ([]Summary, bool, error)
	SetRecent(ctx context.Context, summaries []Summary, ttl time.Duration) error
	InvalidateRecent(ctx context.Context) error
}
