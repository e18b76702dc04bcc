package storage

import (
	"testing"
)

// NewTestBackend creates an in-memory database backend for testing.
// The backend is automatically closed when the test completes; it is not
// loaded, so tests start from Load like the CLI does.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    backend := storage.NewTestBackend(t)
//	    snap, err := backend.Load(ctx)
//	    // use backend...
//	}
func NewTestBackend(t testing.TB) *DatabaseBackend {
	t.Helper()

	backend := NewInMemoryBackend()
	t.Cleanup(func() {
		_ = backend.Close()
	})

	return backend
}
