// Package records stores plants, care logs, posts, profiles and likes for
// the reference sync server, and memoises responses per idempotency key.
package records

import (
	"context"

	"github.com/pedro664/PLANTA-sub001/internal/server/models"
)

// Repository is implemented by MemoryRepository and PostgresRepository.
type Repository interface {
	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repository) error) error

	CreatePlant(ctx context.Context, p *models.Plant) error
	GetPlant(ctx context.Context, id string) (*models.Plant, error)
	UpdatePlant(ctx context.Context, p *models.Plant) error
	DeletePlant(ctx context.Context, id string) error

	AddCareLog(ctx context.Context, l *models.CareLog) error

	CreatePost(ctx context.Context, p *models.Post) error
	PostExists(ctx context.Context, id string) (bool, error)

	UpsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)

	// ToggleLike flips the like row and reports whether it now exists.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)

	// LoadMemo returns nil, nil when key is unknown.
	LoadMemo(ctx context.Context, key string) (*models.Memo, error)
	SaveMemo(ctx context.Context, m *models.Memo) error
}
