package algebra

import "sync"

// DefaultNamespace is the namespace of symbols created through Intern and V.
const DefaultNamespace = "algebra_of_selection"

// Symbol is a named variable. Within a Registry every name maps to exactly
// one *Symbol, so symbols compare by pointer.
type Symbol struct {
	id        int
	name      string
	namespace string
}

func (s *Symbol) ID() int           { return s.id }
func (s *Symbol) Name() string      { return s.name }
func (s *Symbol) Namespace() string { return s.namespace }

// String returns the qualified name, "namespace::name".
func (s *Symbol) String() string {
	if s.namespace == "" {
		return s.name
	}
	return s.namespace + "::" + s.name
}

// Registry interns symbols by name. It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	namespace string
	byName    map[string]*Symbol
	order     []*Symbol
}

func NewRegistry(namespace string) *Registry {
	return &Registry{namespace: namespace, byName: map[string]*Symbol{}}
}

func (r *Registry) Namespace() string { return r.namespace }

// Intern returns the symbol for name, creating it on first use.
func (r *Registry) Intern(name string) *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byName[name]; ok {
		return s
	}
	s := &Symbol{id: len(r.order) + 1, name: name, namespace: r.namespace}
	r.byName[name] = s
	r.order = append(r.order, s)
	return s
}

// Lookup returns the symbol for name without creating it.
func (r *Registry) Lookup(name string) (*Symbol, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byName[name]
	return s, ok
}

// Symbols returns every interned symbol in creation order.
func (r *Registry) Symbols() []*Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Symbol(nil), r.order...)
}

// Var interns name and wraps it as an expression.
func (r *Registry) Var(name string) *Var { return NewVar(r.Intern(name)) }

var defaultRegistry = NewRegistry(DefaultNamespace)

// Intern interns name in the default registry.
func Intern(name string) *Symbol { return defaultRegistry.Intern(name) }

// V is shorthand for a variable from the default registry.
func V(name string) *Var { return defaultRegistry.Var(name) }
