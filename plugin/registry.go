package plugin

import (
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/log"
)

// Registry stores, for each capability, the plugins implementing it ordered by Less.
// It is populated once at start and read afterwards. The zero value is ready to use.
type Registry struct {
	mu           sync.RWMutex
	implementors map[Capability][]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		implementors: make(map[Capability][]Plugin),
	}
}

// Less orders plugins by priority descending, then by name ascending.
func Less(a, b Plugin) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() > b.Priority()
	}
	return a.Name() < b.Name()
}

// Register inserts p into the list of capability c, keeping the list ordered.
// Plugins comparing equal to existing entries are placed after them.
func (r *Registry) Register(c Capability, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.implementors == nil {
		r.implementors = make(map[Capability][]Plugin)
	}

	list := r.implementors[c]
	index := sort.Search(len(list), func(i int) bool {
		return Less(p, list[i])
	})

	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = p
	r.implementors[c] = list

	log.Debugf("registered %s plugin %s (priority %d) at position %d", c, p.Name(), p.Priority(), index)
}

// Add registers p under every capability it implements.
func (r *Registry) Add(p Plugin) {
	for _, c := range lo.Uniq(p.Implements()) {
		r.Register(c, p)
	}
}

// Implementors returns a copy of the ordered plugins implementing c.
func (r *Registry) Implementors(c Capability) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.implementors[c]
	if len(list) == 0 {
		return nil
	}

	out := make([]Plugin, len(list))
	copy(out, list)
	return out
}

// Resolvers returns the ordered resolver plugins.
func (r *Registry) Resolvers() []Resolver {
	return lo.FilterMap(r.Implementors(CapResolver), func(p Plugin, _ int) (Resolver, bool) {
		res, ok := p.(Resolver)
		return res, ok
	})
}

// FindResolvers returns the resolvers claiming domain, in registry order.
func (r *Registry) FindResolvers(domain string) []Resolver {
	return lo.Filter(r.Resolvers(), func(res Resolver, _ int) bool {
		return Claims(res, domain)
	})
}

// Get returns the plugin named name implementing c.
func (r *Registry) Get(c Capability, name string) (Plugin, bool) {
	return lo.Find(r.Implementors(c), func(p Plugin) bool {
		return p.Name() == name
	})
}

// Len returns the number of plugins registered for c.
func (r *Registry) Len(c Capability) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.implementors[c])
}
