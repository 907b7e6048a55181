package syncer

import (
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
)

// State is the engine status. A pass moves idle → syncing → success|error,
// and the engine is back to idle once the pass has returned.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

// SkipReason explains why a drain call did no work.
type SkipReason string

const (
	NotSkipped     SkipReason = ""
	SkipInProgress SkipReason = "in_progress"
	SkipEmpty      SkipReason = "empty"
	SkipOffline    SkipReason = "offline"
)

// Result aggregates one drain pass.
type Result struct {
	Skipped      SkipReason
	SuccessCount int
	ErrorCount   int
	// FailedActions lists actions evicted during this pass.
	FailedActions []models.SyncAction
}

// EngineStatus is a point-in-time view of the engine.
type EngineStatus struct {
	LastSync   time.Time
	Pending    int
	InProgress bool
	HasPending bool
	State      State
	// LastOutcome is success or error for the most recent completed pass,
	// idle if none has run in this process.
	LastOutcome State
	LastResult  Result
}
