package model

// RequestContext is the per-request caller identity. It is built once by
// the auth middleware from a verified token plus a user lookup, and passed
// explicitly into every policy operation. It is never persisted.
type RequestContext struct {
	CorrID  int64
	UserID  int64
	IsAdmin bool
}
