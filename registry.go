package dpipes

import (
	"sort"
	"sync"
)

// Registry provides named pipe-function lookup for definition-driven
// pipeline construction.
type Registry[T any] struct {
	mu    sync.RWMutex
	funcs map[string]Func[T]
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{funcs: make(map[string]Func[T])}
}

// Register adds a named pipe function to the registry.
func (r *Registry[T]) Register(name string, fn Func[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Get retrieves a pipe function by name.
func (r *Registry[T]) Get(name string) (Func[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// List returns sorted names of all registered functions.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
