package watcher

import (
	"context"
	"sync"
)

// Registry supervises one watch goroutine per transaction id. It exists so
// watches can be torn down explicitly on settlement and observed by health
// checks; watches also remove themselves when their context expires.
type Registry struct {
	mux     sync.Mutex
	watches map[string]context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{
		watches: map[string]context.CancelFunc{},
	}
}

// add registers the cancel func for a transaction. False when a watch for the
// id is already running.
func (r *Registry) add(transactionID string, cancel context.CancelFunc) bool {
	r.mux.Lock()
	defer r.mux.Unlock()

	if _, ok := r.watches[transactionID]; ok {
		return false
	}

	r.watches[transactionID] = cancel
	return true
}

func (r *Registry) remove(transactionID string) {
	r.mux.Lock()
	defer r.mux.Unlock()

	delete(r.watches, transactionID)
}

// Stop cancels a running watch. The watch goroutine removes itself on exit.
func (r *Registry) Stop(transactionID string) {
	r.mux.Lock()
	cancel, ok := r.watches[transactionID]
	r.mux.Unlock()

	if ok {
		cancel()
	}
}

func (r *Registry) Count() int {
	r.mux.Lock()
	defer r.mux.Unlock()

	return len(r.watches)
}

func (r *Registry) Active() []string {
	r.mux.Lock()
	defer r.mux.Unlock()

	ids := make([]string, 0, len(r.watches))
	for id := range r.watches {
		ids = append(ids, id)
	}
	return ids
}
