package embed

import (
	"sync"

	"WindowHub/internal/winapi"
)

// OriginalState is everything needed to return an embedded window to its
// standalone form: the style words and the screen rectangle captured just
// before embedding.
type OriginalState struct {
	HWND    winapi.HWND
	Style   uint32
	ExStyle uint32
	Rect    winapi.Rect
}

// Registry maps embedded window handles to their saved original state.
// A handle is present here exactly when the engine considers the window
// embedded. The mutex is the only cross-thread synchronisation in the
// package; it is never held across facade calls.
type Registry struct {
	mu sync.Mutex
	m  map[winapi.HWND]OriginalState
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[winapi.HWND]OriginalState)}
}

// TryInsert records st unless the handle is already registered. Reports
// whether the entry was inserted.
func (r *Registry) TryInsert(st OriginalState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[st.HWND]; ok {
		return false
	}
	r.m[st.HWND] = st
	return true
}

func (r *Registry) Get(h winapi.HWND) (OriginalState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.m[h]
	return st, ok
}

// Remove deletes and returns the entry for h, if any.
func (r *Registry) Remove(h winapi.HWND) (OriginalState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.m[h]
	if ok {
		delete(r.m, h)
	}
	return st, ok
}

func (r *Registry) Contains(h winapi.HWND) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.m[h]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Handles returns the currently embedded handles in unspecified order.
func (r *Registry) Handles() []winapi.HWND {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]winapi.HWND, 0, len(r.m))
	for h := range r.m {
		out = append(out, h)
	}
	return out
}
