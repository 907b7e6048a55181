// Package queue persists the offline action queue and the last successful
// sync timestamp.
package queue

import (
	"context"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
)

// Store is the durable queue medium used by the sync engine.
//
// Load returns an empty list on first run. Write failures are returned to
// the caller; a Store never swallows them.
type Store interface {
	Load(ctx context.Context) ([]models.SyncAction, error)
	Save(ctx context.Context, actions []models.SyncAction) error
	LoadLastSync(ctx context.Context) (time.Time, error)
	SaveLastSync(ctx context.Context, t time.Time) error
}
