/*
Package metrics exposes Prometheus collectors for the Planta client and the
reference sync server.

Client (fed by a sync engine status listener):
  - planta_sync_pending_actions: queued actions after the last transition (gauge)
  - planta_sync_passes_total: finished drain passes (counter)
    Labels: status (success, error)
  - planta_sync_actions_total: dispatched actions (counter)
    Labels: result (success, error)
  - planta_sync_evictions_total: actions dropped after exhausting retries (counter)

Server (fed by a gRPC unary interceptor):
  - planta_server_requests_total: handled RPCs (counter)
    Labels: method, code
  - planta_server_request_duration_seconds: RPC latency (histogram)
    Labels: method

Collectors are registered on a caller supplied prometheus.Registerer so tests
can use a fresh registry each time.
*/
package metrics
