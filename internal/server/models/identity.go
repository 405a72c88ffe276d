package models

// Identity is the request-scoped result of resolving a bearer token: who is
// making the call. It is attached to the request context by the auth
// middleware and is never persisted.
type Identity struct {
	UserID string
	Role   string
	Active bool
}
