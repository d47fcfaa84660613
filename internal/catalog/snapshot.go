package catalog

import (
	"sync"

	"github.com/quickcart-io/quickcart/internal/models"
)

// Store holds the last-fetched catalog snapshot. It replaces ambient global
// state with an explicit container: consumers receive it by reference and may
// subscribe to change notifications. Cart totals are computed against this
// snapshot, so a product missing here contributes nothing to an amount.
type Store struct {
	mu       sync.RWMutex
	products map[string]models.Product
	subs     []chan struct{}
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]models.Product),
	}
}

// Replace swaps the whole snapshot, wholesale, no incremental merge.
func (s *Store) Replace(products []models.Product) {
	next := make(map[string]models.Product, len(products))
	for _, p := range products {
		next[p.ID.String()] = p
	}

	s.mu.Lock()
	s.products = next
	s.mu.Unlock()

	s.notify()
}

// Upsert adds or overwrites a single product, used on successful intake so a
// new listing is immediately priceable without waiting for a refresh.
func (s *Store) Upsert(p models.Product) {
	s.mu.Lock()
	s.products[p.ID.String()] = p
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Lookup(productID string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]

	return p, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// Subscribe returns a channel that receives a signal after every change.
// Notifications are lossy: a subscriber that has not drained the previous
// signal simply misses the intermediate ones.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
