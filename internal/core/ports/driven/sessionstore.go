package driven

// SessionStore is a generic key/value holder owned by the host application.
// It outlives the search view; values written are returned as written
// by the in-process store, or decoded from their persisted form.
type SessionStore interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (any, bool)

	// Set stores value under key.
	Set(key string, value any) error
}
