package command

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the table of registered command specs. It is mutable only
// between construction and Freeze; after Freeze it may be read
// concurrently by any number of dispatches without synchronization.
type Registry struct {
	mu     sync.Mutex
	frozen bool
	specs  map[string][]*Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string][]*Spec)}
}

// Register adds a spec. It fails with *FrozenError after Freeze and
// with *DuplicateIntentError when the identifier is taken, unless the
// existing spec and the new one both opt into overloading.
func (r *Registry) Register(spec *Spec) error {
	if spec == nil || spec.Intent == "" {
		return fmt.Errorf("register: spec without intent identifier")
	}
	if spec.Handler == nil {
		return fmt.Errorf("register %q: nil handler", spec.Intent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &FrozenError{Intent: spec.Intent}
	}

	existing := r.specs[spec.Intent]
	if len(existing) > 0 {
		if !spec.Overload {
			return &DuplicateIntentError{Intent: spec.Intent}
		}
		for _, e := range existing {
			if !e.Overload {
				return &DuplicateIntentError{Intent: spec.Intent}
			}
		}
	}

	r.specs[spec.Intent] = append(existing, spec)
	return nil
}

// Freeze marks the registry read-only. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the specs registered for the identifier, or nil.
// Lock-free once the registry is frozen.
func (r *Registry) Lookup(intentID string) []*Spec {
	if !r.isFrozen() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return r.specs[intentID]
}

// Intents returns all registered identifiers, sorted. Used for help
// output and diagnostics.
func (r *Registry) Intents() []string {
	if !r.isFrozen() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) isFrozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}
