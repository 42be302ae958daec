package services

import (
	"errors"
	"sync"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// ErrNotFound means an order id is absent from the local snapshot. Callers
// treat it as a silent no-op.
var ErrNotFound = errors.New("order not found")

// FilterAll is the neutral selection for every filter dropdown.
const FilterAll = "all"

// Filters holds the five independent list selections. Zero values and
// FilterAll both mean "no restriction"; Search is applied server-side.
type Filters struct {
	Status string
	Cake   string
	Date   string
	Hour   string
	Search string
}

func (f Filters) statusActive() bool { return f.Status != "" && f.Status != FilterAll }
func (f Filters) cakeActive() bool   { return f.Cake != "" && f.Cake != FilterAll }
func (f Filters) dateActive() bool   { return f.Date != "" && f.Date != FilterAll }
func (f Filters) hourActive() bool   { return f.Hour != "" && f.Hour != FilterAll }

// Snapshot is the single mutable copy of the order collection shared by the
// status, list and sales engines. Only the status engine mutates individual
// records; every other consumer reads and recomputes derived views.
type Snapshot struct {
	mu      sync.RWMutex
	orders  []models.Order
	filters Filters
}

func NewSnapshot() *Snapshot {
	return &Snapshot{filters: Filters{
		Status: FilterAll,
		Cake:   FilterAll,
		Date:   FilterAll,
		Hour:   FilterAll,
	}}
}

// Replace swaps in a freshly fetched collection wholesale.
func (s *Snapshot) Replace(orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
}

// Orders returns a copy of the current collection.
func (s *Snapshot) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Find looks up one order by id.
func (s *Snapshot) Find(id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			order := s.orders[i]
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

// SetStatus rewrites the status of the one matching record; all other
// records are untouched.
func (s *Snapshot) SetStatus(id uint, status models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return
		}
	}
}

// SetOrder replaces one record wholesale (edit workflow).
func (s *Snapshot) SetOrder(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			return
		}
	}
}

// Filters returns the current selections.
func (s *Snapshot) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters stores new selections. Changing the date selection resets the
// hour selection, because the hour options only make sense within one day.
func (s *Snapshot) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Date != s.filters.Date {
		f.Hour = FilterAll
	}
	s.filters = f
}
