package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/client/repositories/metadata"
)

const (
	queueKey    = "sync_queue"
	lastSyncKey = "last_sync"
)

// KVStore serializes the whole queue as one JSON document under a single key,
// so every Save replaces the previous state atomically. An empty queue is
// stored as an absent key.
type KVStore struct {
	kv metadata.Repository
}

func NewKVStore(kv metadata.Repository) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Load(ctx context.Context) ([]models.SyncAction, error) {
	raw, err := s.kv.Get(ctx, queueKey)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	if len(raw) == 0 {
		return []models.SyncAction{}, nil
	}

	var actions []models.SyncAction
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	if actions == nil {
		actions = []models.SyncAction{}
	}
	return actions, nil
}

func (s *KVStore) Save(ctx context.Context, actions []models.SyncAction) error {
	if len(actions) == 0 {
		if err := s.kv.Delete(ctx, queueKey); err != nil {
			return fmt.Errorf("save queue: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	if err := s.kv.Set(ctx, queueKey, raw); err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	return nil
}

func (s *KVStore) LoadLastSync(ctx context.Context) (time.Time, error) {
	raw, err := s.kv.Get(ctx, lastSyncKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("load last sync: %w", err)
	}
	if len(raw) == 0 {
		return time.Time{}, nil
	}

	var t time.Time
	if err := t.UnmarshalText(raw); err != nil {
		return time.Time{}, fmt.Errorf("decode last sync: %w", err)
	}
	return t, nil
}

func (s *KVStore) SaveLastSync(ctx context.Context, t time.Time) error {
	raw, err := t.UTC().MarshalText()
	if err != nil {
		return fmt.Errorf("encode last sync: %w", err)
	}
	if err := s.kv.Set(ctx, lastSyncKey, raw); err != nil {
		return fmt.Errorf("save last sync: %w", err)
	}
	return nil
}
