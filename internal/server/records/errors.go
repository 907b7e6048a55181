package records

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalid       = errors.New("invalid record")
	// ErrPrecondition means a referenced record (plant, post) does not exist.
	ErrPrecondition = errors.New("referenced record missing")
	// ErrKeyReuse means an idempotency key was replayed for another method.
	ErrKeyReuse = errors.New("idempotency key reused for a different operation")
)
