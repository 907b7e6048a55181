package records

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/server/models"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	s := NewService(repo, logging.NewDiscard())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	n := 0
	s.newID = func() string { n++; return fmt.Sprintf("id%d", n) }
	return s, repo
}

func TestService_CreatePlantIsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestService(t)

	first, err := s.CreatePlant(ctx, "act-1", models.Plant{Name: "Fern"})
	require.NoError(t, err)
	assert.Equal(t, "id1", first.ID)

	// a retried action replays the stored response instead of inserting again
	again, err := s.CreatePlant(ctx, "act-1", models.Plant{Name: "Fern"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, first.CreatedAt.Equal(again.CreatedAt))
	assert.Len(t, repo.data.plants, 1)

	second, err := s.CreatePlant(ctx, "act-2", models.Plant{Name: "Fern"})
	require.NoError(t, err)
	assert.Equal(t, "id2", second.ID)
	assert.Len(t, repo.data.plants, 2)
}

func TestService_CreatePlantWithoutKeyRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreatePlant(ctx, "", models.Plant{ID: "p1", Name: "Fern"})
	require.NoError(t, err)
	_, err = s.CreatePlant(ctx, "", models.Plant{ID: "p1", Name: "Fern"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.CreatePlant(ctx, "", models.Plant{ID: "p2"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_KeyReuseAcrossMethods(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreatePlant(ctx, "k", models.Plant{ID: "p1", Name: "Fern"})
	require.NoError(t, err)
	_, err = s.UpdatePlant(ctx, "k", models.Plant{ID: "p1", Name: "Other"})
	assert.ErrorIs(t, err, ErrKeyReuse)
}

func TestService_FailuresAreNotMemoised(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestService(t)

	_, err := s.AddCareLog(ctx, "log-1", models.CareLog{PlantID: "p1", Type: "water"})
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = s.CreatePlant(ctx, "plant-1", models.Plant{ID: "p1", Name: "Fern"})
	require.NoError(t, err)

	l, err := s.AddCareLog(ctx, "log-1", models.CareLog{PlantID: "p1", Type: "water"})
	require.NoError(t, err)
	assert.Equal(t, "p1", l.PlantID)
	assert.False(t, l.PerformedAt.IsZero())

	assert.Len(t, repo.data.careLogs, 1)
}

func TestService_UpdatePlantMergesSetFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreatePlant(ctx, "", models.Plant{ID: "p1", Name: "Fern", Species: "Nephrolepis", Location: "hall"})
	require.NoError(t, err)

	p, err := s.UpdatePlant(ctx, "u1", models.Plant{ID: "p1", Location: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "Fern", p.Name)
	assert.Equal(t, "Nephrolepis", p.Species)
	assert.Equal(t, "kitchen", p.Location)

	_, err = s.UpdatePlant(ctx, "u2", models.Plant{ID: "ghost", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdatePlant(ctx, "u3", models.Plant{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_DeletePlantReplaysAfterSuccess(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreatePlant(ctx, "", models.Plant{ID: "p1", Name: "Fern"})
	require.NoError(t, err)

	require.NoError(t, s.DeletePlant(ctx, "del-1", "p1"))
	// the plant is gone but the same action id is still acknowledged
	require.NoError(t, s.DeletePlant(ctx, "del-1", "p1"))
	assert.ErrorIs(t, s.DeletePlant(ctx, "del-2", "p1"), ErrNotFound)
}

func TestService_UpdateUserUpserts(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	u, err := s.UpdateUser(ctx, "a", models.User{ID: "u1", DisplayName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.DisplayName)

	u, err = s.UpdateUser(ctx, "b", models.User{ID: "u1", Bio: "ferns"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.DisplayName)
	assert.Equal(t, "ferns", u.Bio)
}

func TestService_ToggleLikeReplayDoesNotFlipTwice(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestService(t)

	_, err := s.ToggleLike(ctx, "l1", "po1", "u1")
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = s.CreatePost(ctx, "", models.Post{ID: "po1", AuthorID: "u1", Body: "new leaf"})
	require.NoError(t, err)

	res, err := s.ToggleLike(ctx, "l1", "po1", "u1")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	res, err = s.ToggleLike(ctx, "l1", "po1", "u1")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Len(t, repo.data.likes, 1)

	res, err = s.ToggleLike(ctx, "l2", "po1", "u1")
	require.NoError(t, err)
	assert.False(t, res.Liked)
}

func TestService_CreatePostValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreatePost(ctx, "", models.Post{Body: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.CreatePost(ctx, "", models.Post{AuthorID: "u1"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_ConcurrentRetriesCreateOnce(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestService(t)
	var idMu sync.Mutex
	n := 0
	s.newID = func() string { idMu.Lock(); defer idMu.Unlock(); n++; return fmt.Sprintf("id%d", n) }

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.CreatePlant(ctx, "same", models.Plant{Name: "Fern"})
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, repo.data.plants, 1)
	for _, id := range ids {
		assert.Equal(t, "id1", id)
	}
}
