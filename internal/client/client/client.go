package client

import (
	"context"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
)

// Client is the Remote Data API: one operation per action kind. Every
// mutating call takes the queued action id as an idempotency key.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	CreatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error)
	UpdatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error)
	DeletePlant(ctx context.Context, key string, id string) error
	AddCareLog(ctx context.Context, key string, l models.CareLog) (*models.CareLog, error)
	CreatePost(ctx context.Context, key string, p models.Post) (*models.Post, error)
	UpdateUser(ctx context.Context, key string, u models.UserProfile) (*models.UserProfile, error)
	ToggleLike(ctx context.Context, key string, l models.Like) (*models.LikeResult, error)
}

// ImageUploader pushes a local image somewhere the server can reach and
// returns its public URL. objectID names the stored object so repeated
// uploads for the same action land on the same key.
type ImageUploader interface {
	Upload(ctx context.Context, objectID, localPath string) (string, error)
}
