package inspect

import "sync"

// Registry records which session is armed in each document context. At
// most one session holds a context at a time.
type Registry struct {
	mu    sync.Mutex
	armed map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{armed: make(map[string]string)}
}

// Acquire claims docCtx for session id. It reports false when another
// session already holds it. Re-acquiring by the holder succeeds.
func (r *Registry) Acquire(docCtx, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder, ok := r.armed[docCtx]; ok {
		return holder == id
	}
	r.armed[docCtx] = id
	return true
}

// Release frees docCtx if id holds it.
func (r *Registry) Release(docCtx, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.armed[docCtx] == id {
		delete(r.armed, docCtx)
	}
}

// Armed returns the session holding docCtx.
func (r *Registry) Armed(docCtx string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.armed[docCtx]
	return id, ok
}
