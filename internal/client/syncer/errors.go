package syncer

import "errors"

var (
	// ErrPersistence wraps any Durable Queue Store failure. The queue's
	// durability guarantee may be broken when it is returned.
	ErrPersistence = errors.New("queue persistence failed")

	ErrUnknownKind    = errors.New("unknown action kind")
	ErrMissingHandler = errors.New("no handler for action kind")
	ErrBadPayload     = errors.New("malformed action payload")
	ErrMissingDep     = errors.New("missing engine dependency")
)
