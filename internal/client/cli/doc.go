// Package cli provides the interactive Planta command-line client.
//
// It wires configuration, the local key/value store, the gRPC client, the
// reachability poller and the sync engine, then runs a REPL. Every mutating
// command is queued through the engine and replayed when the server is
// reachable, so the client works the same online and offline.
//
// Commands:
//   - addplant, updateplant, deleteplant, carelog, post, user, like
//   - pending [kind], status, sync, clear
//   - offline, online (force the reachability state)
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
