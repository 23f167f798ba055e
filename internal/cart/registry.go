package cart

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type key struct {
	session uuid.UUID
	store   uuid.UUID
}

// Registry owns the live carts of all browsing sessions. A session gets one
// cart per storefront, created empty on first access and discarded with the
// session. Nothing is persisted across restarts.
type Registry struct {
	mu    sync.Mutex
	carts map[key]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[key]*Cart)}
}

// Get returns the session's cart for the store, creating an empty one in
// the store's currency on first access.
func (r *Registry) Get(sessionID, storeID uuid.UUID, cur currency.Unit) *Cart {
	k := key{session: sessionID, store: storeID}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[k]
	if !ok {
		c = New(cur)
		r.carts[k] = c
	}
	return c
}

// Drop discards every cart belonging to the session.
func (r *Registry) Drop(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.carts {
		if k.session == sessionID {
			delete(r.carts, k)
		}
	}
}

// Len reports the number of live carts, for observability.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
