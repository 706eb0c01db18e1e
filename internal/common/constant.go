// Package common contains shared constants, sentinel errors and small helpers
// used across the protodesk packages.
package common

// RequestIDHeaderName carries the per-call correlation id on outbound API
// requests.
const RequestIDHeaderName = "X-Request-ID"

// Metadata keys of the local session store.
const (
	MetaKeySessionToken = "session.token"
	MetaKeySessionNonce = "session.nonce"
	MetaKeyInstallSalt  = "install.salt"
)
