// Package rpcx describes the Planta sync gRPC service shared by the client
// and the reference server.
//
// Messages are google.protobuf.Struct values. Typed Go payloads are converted
// through protojson (see Encode and Decode), which keeps the wire contract
// plain JSON objects while still travelling over protobuf/gRPC.
//
// Mutating calls carry the queued action id in the "idempotency-key"
// metadata header so the server can deduplicate retries.
package rpcx
