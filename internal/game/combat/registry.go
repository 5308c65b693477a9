package combat

import "sync"

// Registry is the combatant-to-handler side table: the persistence
// back-reference a combatant uses to find the combat it is engaged in.
// Handlers attached to a registry keep it current as combatants join,
// leave, and as combat tears down.
type Registry struct {
	mu   sync.Mutex
	byID map[string]*Handler
	opts Options
}

// NewRegistry creates an empty registry. New handlers it creates are
// configured with opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		byID: make(map[string]*Handler),
		opts: opts,
	}
}

// GetOrCreate returns the handler c is already engaged in, or creates a
// fresh one with c as its first combatant.
//
// Callers must serialize GetOrCreate with turn execution, as with every
// other combat entry point.
//
// Postcondition: HandlerFor(c) returns the result until c leaves combat
// or the handler is destroyed.
func (r *Registry) GetOrCreate(c Combatant) *Handler {
	r.mu.Lock()
	if h, ok := r.byID[c.ID()]; ok {
		r.mu.Unlock()
		return h
	}
	r.mu.Unlock()

	h := NewHandler(r.opts)
	h.registry = r
	h.AddCombatants(c)
	return h
}

// HandlerFor returns the handler c is engaged in, if any.
//
// Postcondition: Returns (handler, true) iff c is currently bound.
func (r *Registry) HandlerFor(c Combatant) (*Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[c.ID()]
	return h, ok
}

// bind records that the combatant with id is engaged in h.
// Called by the handler with its own lock held; the registry lock is
// never held while calling back into a handler, so the order is safe.
func (r *Registry) bind(id string, h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = h
}

// unbind clears the combatant's back-reference.
func (r *Registry) unbind(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}
