// Package client contains the client-side building blocks that talk to the
// prototype backend and persist local session state.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface) covering every backend
//     endpoint the CLI uses: login and profile, prototype listing and
//     workflow actions, reference data, dashboard statistics and exports.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the bearer
//     token and a request id to every call, encodes JSON and multipart
//     bodies, and maps HTTP failures to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound. Any other non-2xx
// answer is an *APIError carrying the server message; UserMessage extracts it
// for display.
//
// # Multipart uploads
//
// Attachments are sent under the dotted keys "attachment.report" and
// "attachment.source_code", with a content type sniffed from the file data.
package client
