package syncer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pedro664/PLANTA-sub001/internal/client/client"
	"github.com/pedro664/PLANTA-sub001/internal/client/models"
)

// Handler applies one action remotely. The action id is the idempotency key.
type Handler func(ctx context.Context, action models.SyncAction) error

// Handlers is the dispatch table from action kind to remote operation.
type Handlers map[models.ActionKind]Handler

// Validate reports every known kind lacking an entry.
func (h Handlers) Validate() error {
	var missing []string
	for _, k := range models.AllKinds() {
		if h[k] == nil {
			missing = append(missing, k.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingHandler, strings.Join(missing, ", "))
	}
	return nil
}

// NewHandlers binds every action kind to the matching Remote Data API call.
func NewHandlers(api client.Client) Handlers {
	return Handlers{
		models.KindCreatePlant: typed(func(ctx context.Context, key string, p models.Plant) error {
			_, err := api.CreatePlant(ctx, key, p)
			return err
		}),
		models.KindUpdatePlant: typed(func(ctx context.Context, key string, p models.Plant) error {
			_, err := api.UpdatePlant(ctx, key, p)
			return err
		}),
		models.KindDeletePlant: typed(func(ctx context.Context, key string, p models.PlantRef) error {
			return api.DeletePlant(ctx, key, p.ID)
		}),
		models.KindAddCareLog: typed(func(ctx context.Context, key string, l models.CareLog) error {
			_, err := api.AddCareLog(ctx, key, l)
			return err
		}),
		models.KindCreatePost: typed(func(ctx context.Context, key string, p models.Post) error {
			_, err := api.CreatePost(ctx, key, p)
			return err
		}),
		models.KindUpdateUser: typed(func(ctx context.Context, key string, u models.UserProfile) error {
			_, err := api.UpdateUser(ctx, key, u)
			return err
		}),
		models.KindToggleLike: typed(func(ctx context.Context, key string, l models.Like) error {
			_, err := api.ToggleLike(ctx, key, l)
			return err
		}),
	}
}

// typed decodes the payload into T before calling fn.
func typed[T any](fn func(ctx context.Context, key string, payload T) error) Handler {
	return func(ctx context.Context, a models.SyncAction) error {
		var p T
		if err := a.Decode(&p); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return fn(ctx, a.ID, p)
	}
}
