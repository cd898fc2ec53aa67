package pool

import (
	"cmp"
	"slices"
	"sync"

	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Reporter is the type-erased view of a Pool that a Registry keeps.
type Reporter interface {
	Name() string
	Stats() Stats
	Size() (int, error)
	Poisoned() bool
}

// Entry is one pool's state in a registry snapshot.
type Entry struct {
	Name     string `json:"name"`
	Stats    Stats  `json:"stats"`
	Spares   int    `json:"spares"`
	Poisoned bool   `json:"poisoned"`
}

// Registry tracks named pools of any element type for reporting.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]Reporter
}

// DefaultRegistry is the process-wide registry used by GetGlobalStats.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]Reporter)}
}

// Register adds r under r.Name(). Names must be unique.
func (r *Registry) Register(p Reporter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, ok := r.pools[name]; ok {
		return poolerrors.New(poolerrors.ErrorTypeValidation, "pool already registered").
			WithDetail("pool", name)
	}
	r.pools[name] = p
	return nil
}

// Unregister removes the pool called name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.pools, name)
	r.mu.Unlock()
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Snapshot returns the state of every registered pool, sorted by name.
// Spares is reported even for poisoned pools.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	reporters := make([]Reporter, 0, len(r.pools))
	for _, p := range r.pools {
		reporters = append(reporters, p)
	}
	r.mu.RUnlock()

	entries := make([]Entry, 0, len(reporters))
	for _, p := range reporters {
		spares, _ := p.Size()
		entries = append(entries, Entry{
			Name:     p.Name(),
			Stats:    p.Stats(),
			Spares:   spares,
			Poisoned: p.Poisoned(),
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return entries
}

// Stats returns the counters of every registered pool keyed by name.
func (r *Registry) Stats() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Stats, len(r.pools))
	for name, p := range r.pools {
		out[name] = p.Stats()
	}
	return out
}

// GetGlobalStats returns the counters of every pool in DefaultRegistry.
//
// Example:
//
//	for name, s := range pool.GetGlobalStats() {
//	    fmt.Printf("%s: %d in use, %.2f%% hit rate\n", name, s.InUse, s.HitRate()*100)
//	}
func GetGlobalStats() map[string]Stats {
	return DefaultRegistry.Stats()
}
