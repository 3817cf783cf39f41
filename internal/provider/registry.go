package provider

// Registry holds the configured providers in preference order. Resolution
// and aggregation walk the registry front to back; the first provider that
// yields a usable result wins.
type Registry struct {
	providers map[string]Provider
	order     []string // registration order, used as preference order
}

// NewRegistry creates a registry with the given providers, registered in
// preference order.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider at the end of the preference order.
func (r *Registry) Register(p Provider) {
	name := p.Name()
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get returns a provider by name, or nil when not registered.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// InOrder returns all providers in preference order.
func (r *Registry) InOrder() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}

// AffiliationCapable returns the first provider in preference order whose
// citing works carry institution metadata, or nil when none does.
func (r *Registry) AffiliationCapable() Provider {
	for _, p := range r.InOrder() {
		if p.SupportsAffiliations() {
			return p
		}
	}
	return nil
}
