// Package drafts provides the client-side persistence layer for unsent
// workflow forms.
//
// A Draft is keyed by (kind, prototype id) and holds the JSON-encoded form
// fields the user typed. Workflows save a draft when a submit fails and remove
// it when the submit succeeds, so typed fields are never lost.
//
// Key Types
//
//   - type Repository      : interface used by higher-level services
//   - type SQLiteRepository: SQLite implementation over dbx.DBTX
package drafts
