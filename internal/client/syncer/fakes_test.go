package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
)

// memStore is an in-memory queue.Store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	actions  []models.SyncAction
	lastSync time.Time
	saves    int

	loadErr error
	saveErr error
	tsErr   error
}

func (s *memStore) Load(context.Context) ([]models.SyncAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]models.SyncAction, len(s.actions))
	for i, a := range s.actions {
		out[i] = a.Clone()
	}
	return out, nil
}

func (s *memStore) Save(_ context.Context, actions []models.SyncAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.actions = make([]models.SyncAction, len(actions))
	for i, a := range actions {
		s.actions[i] = a.Clone()
	}
	return nil
}

func (s *memStore) LoadLastSync(context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, nil
}

func (s *memStore) SaveLastSync(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tsErr != nil {
		return s.tsErr
	}
	s.lastSync = t
	return nil
}

func (s *memStore) setSaveErr(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

func (s *memStore) persisted() []models.SyncAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SyncAction(nil), s.actions...)
}

// fakeMonitor lets tests flip reachability with or without notifying.
type fakeMonitor struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(bool)
	next   int
}

func newFakeMonitor(online bool) *fakeMonitor {
	return &fakeMonitor{online: online, subs: map[int]func(bool){}}
}

func (m *fakeMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *fakeMonitor) OnChange(fn func(bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := m.next
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// setQuiet changes state without telling subscribers.
func (m *fakeMonitor) setQuiet(online bool) {
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()
}

func (m *fakeMonitor) transition(online bool) {
	m.mu.Lock()
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(online)
	}
}

func (m *fakeMonitor) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

var errRemote = errors.New("remote rejected")

// recorder is a Handler that records dispatch order.
type recorder struct {
	mu      sync.Mutex
	calls   []string
	fail    map[string]bool
	failAll bool

	entered chan string
	release chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]bool{}}
}

func (r *recorder) handle(ctx context.Context, a models.SyncAction) error {
	r.mu.Lock()
	r.calls = append(r.calls, a.ID)
	fail := r.failAll || r.fail[a.ID]
	entered, release := r.entered, r.release
	r.mu.Unlock()

	if entered != nil {
		entered <- a.ID
	}
	if release != nil {
		<-release
	}
	if fail {
		return errRemote
	}
	return nil
}

func (r *recorder) handlers() Handlers {
	h := Handlers{}
	for _, k := range models.AllKinds() {
		h[k] = r.handle
	}
	return h
}

func (r *recorder) called() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("a%d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}
