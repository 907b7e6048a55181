package records

import (
	"context"
	"sync"

	"github.com/pedro664/PLANTA-sub001/internal/server/models"
)

type likeKey struct{ post, user string }

type memoryData struct {
	mu       sync.RWMutex
	plants   map[string]models.Plant
	careLogs map[string]models.CareLog
	posts    map[string]models.Post
	users    map[string]models.User
	likes    map[likeKey]struct{}
	memos    map[string]models.Memo
}

// MemoryRepository keeps records in process memory. WithinTx serializes
// callers and must not be nested; it does not roll back partial writes.
type MemoryRepository struct {
	data *memoryData
	tx   *sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: &memoryData{
			plants:   map[string]models.Plant{},
			careLogs: map[string]models.CareLog{},
			posts:    map[string]models.Post{},
			users:    map[string]models.User{},
			likes:    map[likeKey]struct{}{},
			memos:    map[string]models.Memo{},
		},
		tx: &sync.Mutex{},
	}
}

func (r *MemoryRepository) WithinTx(ctx context.Context, fn func(r Repository) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()
	return fn(r)
}

func (r *MemoryRepository) CreatePlant(ctx context.Context, p *models.Plant) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.plants[p.ID]; ok {
		return ErrAlreadyExists
	}
	d.plants[p.ID] = *p
	return nil
}

func (r *MemoryRepository) GetPlant(ctx context.Context, id string) (*models.Plant, error) {
	d := r.data
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.plants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) UpdatePlant(ctx context.Context, p *models.Plant) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.plants[p.ID]; !ok {
		return ErrNotFound
	}
	d.plants[p.ID] = *p
	return nil
}

func (r *MemoryRepository) DeletePlant(ctx context.Context, id string) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.plants[id]; !ok {
		return ErrNotFound
	}
	delete(d.plants, id)
	for k, l := range d.careLogs {
		if l.PlantID == id {
			delete(d.careLogs, k)
		}
	}
	return nil
}

func (r *MemoryRepository) AddCareLog(ctx context.Context, l *models.CareLog) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.plants[l.PlantID]; !ok {
		return ErrPrecondition
	}
	if _, ok := d.careLogs[l.ID]; ok {
		return ErrAlreadyExists
	}
	d.careLogs[l.ID] = *l
	return nil
}

func (r *MemoryRepository) CreatePost(ctx context.Context, p *models.Post) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.posts[p.ID]; ok {
		return ErrAlreadyExists
	}
	d.posts[p.ID] = *p
	return nil
}

func (r *MemoryRepository) PostExists(ctx context.Context, id string) (bool, error) {
	d := r.data
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.posts[id]
	return ok, nil
}

func (r *MemoryRepository) UpsertUser(ctx context.Context, u *models.User) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = *u
	return nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	d := r.data
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.posts[postID]; !ok {
		return false, ErrPrecondition
	}
	k := likeKey{postID, userID}
	if _, ok := d.likes[k]; ok {
		delete(d.likes, k)
		return false, nil
	}
	d.likes[k] = struct{}{}
	return true, nil
}

func (r *MemoryRepository) LoadMemo(ctx context.Context, key string) (*models.Memo, error) {
	d := r.data
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.memos[key]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MemoryRepository) SaveMemo(ctx context.Context, m *models.Memo) error {
	d := r.data
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.memos[m.Key]; ok {
		return ErrAlreadyExists
	}
	d.memos[m.Key] = *m
	return nil
}
