package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/server/models"
)

// Service applies the mutation rules and replays memoised responses for a
// repeated idempotency key, so a retried client action has no second effect.
type Service struct {
	repo  Repository
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{
		repo:  repo,
		log:   log.With("module", "records"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// idempotent runs fn in a transaction. With a non-empty key a stored
// response is decoded into the result instead of running fn again.
// Failures are not memoised.
func idempotent[T any](ctx context.Context, s *Service, key, method string, fn func(r Repository) (T, error)) (T, error) {
	var out T
	err := s.repo.WithinTx(ctx, func(r Repository) error {
		if key != "" {
			m, err := r.LoadMemo(ctx, key)
			if err != nil {
				return err
			}
			if m != nil {
				if m.Method != method {
					return fmt.Errorf("%w: %s was %s", ErrKeyReuse, key, m.Method)
				}
				s.log.Debug(ctx, "replaying memoised response", "key", key, "method", method)
				return json.Unmarshal(m.Body, &out)
			}
		}

		v, err := fn(r)
		if err != nil {
			return err
		}
		out = v
		if key == "" {
			return nil
		}

		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return r.SaveMemo(ctx, &models.Memo{Key: key, Method: method, Body: body, CreatedAt: s.now()})
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (s *Service) CreatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: plant name is required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "CreatePlant", func(r Repository) (*models.Plant, error) {
		if p.ID == "" {
			p.ID = s.newID()
		}
		p.CreatedAt = s.now()
		p.UpdatedAt = p.CreatedAt
		if err := r.CreatePlant(ctx, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// UpdatePlant overwrites only the fields set in patch.
func (s *Service) UpdatePlant(ctx context.Context, key string, patch models.Plant) (*models.Plant, error) {
	if patch.ID == "" {
		return nil, fmt.Errorf("%w: plant id is required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "UpdatePlant", func(r Repository) (*models.Plant, error) {
		cur, err := r.GetPlant(ctx, patch.ID)
		if err != nil {
			return nil, err
		}
		merge(&cur.Name, patch.Name)
		merge(&cur.Species, patch.Species)
		merge(&cur.Location, patch.Location)
		merge(&cur.Notes, patch.Notes)
		merge(&cur.ImageURL, patch.ImageURL)
		cur.UpdatedAt = s.now()
		if err := r.UpdatePlant(ctx, cur); err != nil {
			return nil, err
		}
		return cur, nil
	})
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (s *Service) DeletePlant(ctx context.Context, key, id string) error {
	if id == "" {
		return fmt.Errorf("%w: plant id is required", ErrInvalid)
	}
	_, err := idempotent(ctx, s, key, "DeletePlant", func(r Repository) (struct{}, error) {
		return struct{}{}, r.DeletePlant(ctx, id)
	})
	return err
}

func (s *Service) AddCareLog(ctx context.Context, key string, l models.CareLog) (*models.CareLog, error) {
	switch {
	case l.PlantID == "":
		return nil, fmt.Errorf("%w: plant id is required", ErrInvalid)
	case l.Type == "":
		return nil, fmt.Errorf("%w: care type is required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "AddCareLog", func(r Repository) (*models.CareLog, error) {
		if l.ID == "" {
			l.ID = s.newID()
		}
		if l.PerformedAt.IsZero() {
			l.PerformedAt = s.now()
		}
		if err := r.AddCareLog(ctx, &l); err != nil {
			return nil, err
		}
		return &l, nil
	})
}

func (s *Service) CreatePost(ctx context.Context, key string, p models.Post) (*models.Post, error) {
	switch {
	case p.AuthorID == "":
		return nil, fmt.Errorf("%w: author id is required", ErrInvalid)
	case p.Body == "":
		return nil, fmt.Errorf("%w: post body is required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "CreatePost", func(r Repository) (*models.Post, error) {
		if p.ID == "" {
			p.ID = s.newID()
		}
		p.CreatedAt = s.now()
		if err := r.CreatePost(ctx, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// UpdateUser creates the profile or overwrites the fields set in patch.
func (s *Service) UpdateUser(ctx context.Context, key string, patch models.User) (*models.User, error) {
	if patch.ID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "UpdateUser", func(r Repository) (*models.User, error) {
		u, err := r.GetUser(ctx, patch.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			u = &models.User{ID: patch.ID}
		case err != nil:
			return nil, err
		}
		merge(&u.DisplayName, patch.DisplayName)
		merge(&u.Bio, patch.Bio)
		merge(&u.AvatarURL, patch.AvatarURL)
		u.UpdatedAt = s.now()
		if err := r.UpsertUser(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	})
}

func (s *Service) ToggleLike(ctx context.Context, key, postID, userID string) (*models.Like, error) {
	if postID == "" || userID == "" {
		return nil, fmt.Errorf("%w: post id and user id are required", ErrInvalid)
	}
	return idempotent(ctx, s, key, "ToggleLike", func(r Repository) (*models.Like, error) {
		ok, err := r.PostExists(ctx, postID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: post %s", ErrPrecondition, postID)
		}
		liked, err := r.ToggleLike(ctx, postID, userID)
		if err != nil {
			return nil, err
		}
		return &models.Like{PostID: postID, UserID: userID, Liked: liked}, nil
	})
}
