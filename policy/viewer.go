// Package policy holds the pure visibility and authorization decisions. It
// never touches the database or the request: callers resolve entities and the
// viewer, policy only answers yes or no.
package policy

// Viewer is the per-request identity. The zero value is the anonymous viewer.
type Viewer struct {
	ID            uint
	Username      string
	Authenticated bool
}

// Anonymous is the viewer used when no credentials were presented.
var Anonymous = Viewer{}

// Is reports whether the viewer is the authenticated user with the given id.
func (v Viewer) Is(userID uint) bool {
	return v.Authenticated && v.ID == userID
}
