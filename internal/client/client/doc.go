// Package client contains the client-side view of the Planta data service.
//
// # Overview
//
// The package provides:
//  1. The Remote Data API contract (see the Client interface): one operation
//     per queued action kind plus Ping. Mutating calls take the action id as
//     an idempotency key.
//  2. A gRPC implementation (see GRPCClient) that encodes payloads through
//     rpcx, attaches the idempotency-key metadata header, optionally uploads
//     referenced images first, and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite or Badger key/value store used by the sync queue.
//
// # Error Handling
//
// Callers match conditions with errors.Is: ErrUnavailable, ErrNotFound,
// ErrRejected, ErrBadResponse, ErrUnknownBackend.
//
// GRPCClient is safe for concurrent use.
package client
