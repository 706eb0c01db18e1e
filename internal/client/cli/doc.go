// Package cli provides the interactive protodesk shell.
//
// It wires configuration, the local session store, the API client and the
// application services into a read-eval-print loop. Typical flow: restore a
// saved session (or prompt for credentials), resolve the user's identity and
// role, then browse and act on prototypes.
//
// Key features:
//   - Login / Logout, profile and password changes
//   - Filtered, paginated prototype list with per-row permitted actions
//   - Submit, edit, review, assign storage and approve workflows
//   - Dashboard statistics, exports and reference lookups
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
