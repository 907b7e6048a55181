// Package syncer is the offline action queue and its sync engine.
//
// Mutations are appended to a FIFO queue that is persisted on every change
// and replayed against the Remote Data API once the Reachability Monitor
// reports the service online. At most one drain pass runs at a time; actions
// inside a pass are dispatched sequentially in queue order because later
// actions may depend on earlier ones (a care log on a freshly created plant).
//
// Failed actions stay queued with their retry count bumped and are evicted
// after models.MaxRetries failures. There is no internal retry timer: a new
// pass only starts on Enqueue while online, on an offline→online transition,
// or on an explicit Drain/ForceSyncNow.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/client/reachability"
	"github.com/pedro664/PLANTA-sub001/internal/client/repositories/queue"
	"github.com/pedro664/PLANTA-sub001/internal/logging"
)

const DefaultCallTimeout = 15 * time.Second

type Options struct {
	Store    queue.Store
	Monitor  reachability.Monitor
	Handlers Handlers
	Logger   logging.Logger

	// CallTimeout bounds every Remote Data API call.
	CallTimeout time.Duration

	Now   func() time.Time
	NewID func() string
}

type Engine struct {
	store       queue.Store
	monitor     reachability.Monitor
	handlers    Handlers
	log         logging.Logger
	callTimeout time.Duration
	now         func() time.Time
	newID       func() string

	listeners *Registry

	// mu guards everything below and serializes every Store write.
	mu          sync.Mutex
	queue       []models.SyncAction
	lastSync    time.Time
	draining    bool
	state       State
	lastOutcome State
	lastResult  Result
	closed      bool

	bg          context.Context
	wg          sync.WaitGroup
	unsubscribe func()
}

// New restores the persisted queue and subscribes to reachability changes.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Store == nil || opts.Monitor == nil {
		return nil, fmt.Errorf("%w: store and monitor are required", ErrMissingDep)
	}
	if err := opts.Handlers.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscard()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}

	actions, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	lastSync, err := opts.Store.LoadLastSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log := opts.Logger.With("module", "syncer")
	e := &Engine{
		store:       opts.Store,
		monitor:     opts.Monitor,
		handlers:    opts.Handlers,
		log:         log,
		callTimeout: opts.CallTimeout,
		now:         opts.Now,
		newID:       opts.NewID,
		listeners:   NewRegistry(log),
		queue:       actions,
		lastSync:    lastSync,
		state:       StateIdle,
		lastOutcome: StateIdle,
		bg:          context.WithoutCancel(ctx),
	}

	e.unsubscribe = opts.Monitor.OnChange(func(online bool) {
		if online {
			e.log.Info(e.bg, "service reachable, starting drain", "pending", e.PendingCount())
			e.triggerDrain()
		}
	})

	log.Info(ctx, "sync engine ready", "pending", len(actions), "last_sync", lastSync)
	return e, nil
}

// Enqueue appends a new action and persists the queue before returning. The
// payload is marshalled to JSON unless it already is json.RawMessage.
func (e *Engine) Enqueue(ctx context.Context, kind models.ActionKind, payload any, meta *models.ActionMetadata) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	raw, err := encodePayload(payload)
	if err != nil {
		return "", err
	}

	md := models.ActionMetadata{}
	if meta != nil {
		md = *meta
	}
	md.RetryCount = 0
	md.LastError = ""
	md.LastAttemptAt = nil
	if md.EnqueuedAt.IsZero() {
		md.EnqueuedAt = e.now()
	}

	action := models.SyncAction{ID: e.newID(), Kind: kind, Payload: raw, Metadata: md}

	e.mu.Lock()
	e.queue = append(e.queue, action)
	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.queue = e.queue[:len(e.queue)-1]
		e.mu.Unlock()
		e.log.Error(ctx, "enqueue not persisted", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	pending := len(e.queue)
	e.mu.Unlock()

	e.log.Debug(ctx, "action enqueued", "id", action.ID, "kind", kind, "pending", pending)

	if e.monitor.IsOnline() {
		e.triggerDrain()
	}
	return action.ID, nil
}

func encodePayload(payload any) (json.RawMessage, error) {
	switch p := payload.(type) {
	case json.RawMessage:
		if !json.Valid(p) {
			return nil, fmt.Errorf("%w: invalid raw json", ErrBadPayload)
		}
		return append(json.RawMessage(nil), p...), nil
	case nil:
		return json.RawMessage("null"), nil
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return b, nil
	}
}

// triggerDrain starts a drain pass in the background. The pass itself
// no-ops when another one is running.
func (e *Engine) triggerDrain() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		if _, err := e.Drain(e.bg); err != nil {
			e.log.Error(e.bg, "background drain failed", "error", err)
		}
	}()
}

// ForceSyncNow is Drain under its administrative name.
func (e *Engine) ForceSyncNow(ctx context.Context) (Result, error) {
	return e.Drain(ctx)
}

// Drain runs one pass over a snapshot of the queue. It returns immediately
// with Result.Skipped set when a pass is already running, the queue is empty
// or the service is offline. Once started, a pass is not cancelled by ctx.
func (e *Engine) Drain(ctx context.Context) (Result, error) {
	online := e.monitor.IsOnline()

	e.mu.Lock()
	switch {
	case e.draining:
		e.mu.Unlock()
		return Result{Skipped: SkipInProgress}, nil
	case len(e.queue) == 0:
		e.mu.Unlock()
		return Result{Skipped: SkipEmpty}, nil
	case !online:
		e.mu.Unlock()
		e.log.Debug(ctx, "drain skipped, offline")
		return Result{Skipped: SkipOffline}, nil
	}
	e.draining = true
	e.state = StateSyncing
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	defer e.release()

	ctx = context.WithoutCancel(ctx)
	e.listeners.Notify(ctx, StateSyncing, Result{})
	return e.pass(ctx, snapshot)
}

func (e *Engine) release() {
	e.mu.Lock()
	e.draining = false
	e.state = StateIdle
	e.mu.Unlock()
}

func (e *Engine) pass(ctx context.Context, snapshot []models.SyncAction) (Result, error) {
	started := e.now()
	var res Result

	for _, a := range snapshot {
		if !e.contains(a.ID) {
			// removed by ClearAll while the pass was running
			continue
		}

		err := e.dispatch(ctx, a)
		e.record(ctx, a, err, &res)
	}

	outcome := StateSuccess
	if res.ErrorCount > 0 {
		outcome = StateError
	}

	persistErr := e.persistAfterPass(ctx)
	if persistErr != nil {
		outcome = StateError
	}

	e.mu.Lock()
	e.state = outcome
	e.lastOutcome = outcome
	e.lastResult = res
	pending := len(e.queue)
	e.mu.Unlock()

	e.log.Info(ctx, "drain finished",
		"outcome", outcome,
		"succeeded", res.SuccessCount,
		"failed", res.ErrorCount,
		"evicted", len(res.FailedActions),
		"pending", pending,
		"took", e.now().Sub(started),
	)

	e.listeners.Notify(ctx, outcome, res)

	if persistErr != nil {
		return res, persistErr
	}
	return res, nil
}

// dispatch calls the handler for a under CallTimeout. Panics become errors.
func (e *Engine) dispatch(ctx context.Context, a models.SyncAction) (err error) {
	h := e.handlers[a.Kind]
	if h == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}

	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return h(cctx, a.Clone())
}

// record applies the outcome of one dispatch to the live queue.
func (e *Engine) record(ctx context.Context, a models.SyncAction, err error, res *Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexLocked(a.ID)

	if err == nil {
		res.SuccessCount++
		if idx >= 0 {
			e.removeLocked(idx)
		}
		e.log.Debug(ctx, "action applied", "id", a.ID, "kind", a.Kind)
		return
	}

	res.ErrorCount++
	if idx < 0 {
		return
	}

	now := e.now()
	live := &e.queue[idx]
	live.Metadata.RetryCount++
	live.Metadata.LastError = err.Error()
	live.Metadata.LastAttemptAt = &now

	if live.Metadata.RetryCount >= models.MaxRetries {
		evicted := live.Clone()
		e.removeLocked(idx)
		res.FailedActions = append(res.FailedActions, evicted)
		e.log.Warn(ctx, "action evicted after retries",
			"id", a.ID, "kind", a.Kind, "retries", evicted.Metadata.RetryCount, "error", err)
		return
	}

	e.log.Debug(ctx, "action failed", "id", a.ID, "kind", a.Kind,
		"retries", live.Metadata.RetryCount, "error", err)
}

func (e *Engine) persistAfterPass(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.log.Error(ctx, "queue not persisted after drain", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	now := e.now()
	if err := e.store.SaveLastSync(ctx, now); err != nil {
		e.log.Error(ctx, "last sync not persisted", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	e.lastSync = now
	return nil
}

func (e *Engine) contains(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexLocked(id) >= 0
}

func (e *Engine) indexLocked(id string) int {
	for i := range e.queue {
		if e.queue[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) removeLocked(i int) {
	e.queue = append(e.queue[:i:i], e.queue[i+1:]...)
}

func (e *Engine) snapshotLocked() []models.SyncAction {
	out := make([]models.SyncAction, len(e.queue))
	for i, a := range e.queue {
		out[i] = a.Clone()
	}
	return out
}

func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Pending returns a copy of the queue in FIFO order.
func (e *Engine) Pending() []models.SyncAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) PendingByKind(kind models.ActionKind) []models.SyncAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.SyncAction
	for _, a := range e.queue {
		if a.Kind == kind {
			out = append(out, a.Clone())
		}
	}
	return out
}

// ClearAll drops every pending action and persists the empty queue. It is
// destructive and meant for explicit user-initiated resets. A running pass
// skips the actions it has not reached yet.
func (e *Engine) ClearAll(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.queue
	e.queue = []models.SyncAction{}
	if err := e.store.Save(ctx, e.queue); err != nil {
		e.queue = prev
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	e.log.Warn(ctx, "queue cleared", "dropped", len(prev))
	return len(prev), nil
}

func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	return EngineStatus{
		LastSync:    e.lastSync,
		Pending:     len(e.queue),
		InProgress:  e.draining,
		HasPending:  len(e.queue) > 0,
		State:       e.state,
		LastOutcome: e.lastOutcome,
		LastResult:  e.lastResult,
	}
}

// Subscribe registers a status listener; the returned func removes it.
func (e *Engine) Subscribe(l Listener) func() {
	return e.listeners.Subscribe(l)
}

// Wait blocks until every background pass started so far has returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops reacting to reachability changes and waits for background
// passes. Explicit Drain calls keep working after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.wg.Wait()
}
