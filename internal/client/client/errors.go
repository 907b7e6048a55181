package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotFound    = errors.New("remote record not found")
	ErrRejected    = errors.New("rejected by server")
	ErrBadResponse = errors.New("malformed server response")

	ErrUnknownBackend = errors.New("unknown store backend")
)
