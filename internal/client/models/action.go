// Package models defines the client-side data model of the offline queue:
// the queued SyncAction and the payloads each action kind carries.
package models

import (
	"encoding/json"
	"time"
)

// MaxRetries is the number of failed attempts after which an action is evicted.
const MaxRetries = 3

// ActionKind classifies a queued mutation. The set is closed; every kind must
// have a dispatch-table entry in the sync engine.
type ActionKind string

const (
	KindCreatePlant ActionKind = "create_plant"
	KindUpdatePlant ActionKind = "update_plant"
	KindDeletePlant ActionKind = "delete_plant"
	KindAddCareLog  ActionKind = "add_care_log"
	KindCreatePost  ActionKind = "create_post"
	KindUpdateUser  ActionKind = "update_user"
	KindToggleLike  ActionKind = "toggle_like"
)

var allKinds = []ActionKind{
	KindCreatePlant,
	KindUpdatePlant,
	KindDeletePlant,
	KindAddCareLog,
	KindCreatePost,
	KindUpdateUser,
	KindToggleLike,
}

// AllKinds returns every known action kind in declaration order.
func AllKinds() []ActionKind {
	out := make([]ActionKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Valid reports whether k is one of the known kinds.
func (k ActionKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k ActionKind) String() string { return string(k) }

// ActionMetadata is the retry bookkeeping attached to a queued action.
type ActionMetadata struct {
	// EnqueuedAt is when the action entered the queue (UTC).
	EnqueuedAt time.Time `json:"enqueued_at"`
	// RetryCount is the number of failed remote attempts so far.
	RetryCount int `json:"retry_count"`
	// LastError is the message of the most recent failure.
	LastError string `json:"last_error,omitempty"`
	// LastAttemptAt is when the most recent failed attempt happened.
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

// SyncAction is a pending mutation awaiting remote application.
type SyncAction struct {
	// ID is assigned at enqueue time and doubles as the idempotency key.
	ID       string          `json:"id"`
	Kind     ActionKind      `json:"kind"`
	Payload  json.RawMessage `json:"payload"`
	Metadata ActionMetadata  `json:"metadata"`
}

// Clone returns a deep copy so snapshots never alias the live queue.
func (a SyncAction) Clone() SyncAction {
	c := a
	if a.Payload != nil {
		c.Payload = append(json.RawMessage(nil), a.Payload...)
	}
	if a.Metadata.LastAttemptAt != nil {
		t := *a.Metadata.LastAttemptAt
		c.Metadata.LastAttemptAt = &t
	}
	return c
}

// Decode unmarshals the payload into v.
func (a SyncAction) Decode(v any) error {
	return json.Unmarshal(a.Payload, v)
}
