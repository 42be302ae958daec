package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/format"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ViewMode selects how the list is laid out: one table per pickup day, or a
// single backlog in intake order.
type ViewMode int

const (
	GroupByDate ViewMode = iota
	SingleList
)

// Group is one displayed table: a title and the orders under it.
type Group struct {
	Title  string
	Orders []models.Order
}

// ListService derives filtered, sorted and grouped views of the order
// collection, and owns the debounced server-side search.
type ListService struct {
	store    OrderStore
	snap     *Snapshot
	notify   NotifyFunc
	debounce time.Duration
	collator *collate.Collator

	mu    sync.Mutex
	timer *time.Timer
}

func NewListService(store OrderStore, snap *Snapshot, notify NotifyFunc, debounce time.Duration) *ListService {
	if notify == nil {
		notify = func(string) {}
	}
	return &ListService{
		store:    store,
		snap:     snap,
		notify:   notify,
		debounce: debounce,
		collator: collate.New(language.Japanese),
	}
}

// Load fetches the full collection and replaces the snapshot. Also the retry
// path after a failed load.
func (s *ListService) Load(ctx context.Context) error {
	orders, err := s.store.List(ctx, s.snap.Filters().Search)
	if err != nil {
		return err
	}
	s.snap.Replace(orders)
	return nil
}

// dateKey reduces a raw date value to its calendar date, so values with a
// time-of-day component still land in the same group.
func dateKey(raw string) string {
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}

// Visible applies the four local filters. An order shows iff every active
// selection matches; the cake selection matches when any line carries it.
func (s *ListService) Visible() []models.Order {
	f := s.snap.Filters()
	orders := s.snap.Orders()

	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if f.statusActive() && string(order.Status) != f.Status {
			continue
		}
		if f.dateActive() && dateKey(order.Date) != dateKey(f.Date) {
			continue
		}
		if f.hourActive() && order.PickupHour != f.Hour {
			continue
		}
		if f.cakeActive() && !hasCake(order, f.Cake) {
			continue
		}
		out = append(out, order)
	}

	s.sortForView(out, f)
	return out
}

func hasCake(order models.Order, name string) bool {
	for _, line := range order.Cakes {
		if line.Name == name {
			return true
		}
	}
	return false
}

// sortForView reflects the two operating modes: a single day's queue is
// worked by time slot, the full backlog is scanned in intake order.
func (s *ListService) sortForView(orders []models.Order, f Filters) {
	if f.dateActive() {
		sort.SliceStable(orders, func(i, j int) bool {
			return s.collator.CompareString(orders[i].PickupHour, orders[j].PickupHour) < 0
		})
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})
}

// Display returns the visible orders laid out for the chosen mode.
func (s *ListService) Display(mode ViewMode) []Group {
	visible := s.Visible()

	if mode == SingleList {
		return []Group{{Title: "注文順", Orders: visible}}
	}

	grouped := make(map[string][]models.Order)
	keys := make([]string, 0)
	for _, order := range visible {
		key := dateKey(order.Date)
		if _, ok := grouped[key]; !ok {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], order)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, Group{Title: format.DateJP(key), Orders: grouped[key]})
	}
	return groups
}

// DateOptions lists the distinct pickup dates in the current collection,
// chronologically (ISO dates sort lexicographically).
func (s *ListService) DateOptions() []string {
	seen := make(map[string]bool)
	dates := make([]string, 0)
	for _, order := range s.snap.Orders() {
		if !seen[order.Date] {
			seen[order.Date] = true
			dates = append(dates, order.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

// HourOptions lists the distinct pickup hours, restricted to the currently
// date-filtered subset, sorted by their leading hour number.
func (s *ListService) HourOptions() []string {
	f := s.snap.Filters()
	seen := make(map[string]bool)
	hours := make([]string, 0)
	for _, order := range s.snap.Orders() {
		if f.dateActive() && dateKey(order.Date) != dateKey(f.Date) {
			continue
		}
		if !seen[order.PickupHour] {
			seen[order.PickupHour] = true
			hours = append(hours, order.PickupHour)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return leadingInt(hours[i]) < leadingInt(hours[j])
	})
	return hours
}

func leadingInt(s string) int {
	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return 0
	}
	return n
}

// CakeOptions lists the distinct cake names across all lines, in first-seen
// order.
func (s *ListService) CakeOptions() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, order := range s.snap.Orders() {
		for _, line := range order.Cakes {
			if !seen[line.Name] {
				seen[line.Name] = true
				names = append(names, line.Name)
			}
		}
	}
	return names
}

// SetStatusFilter, SetCakeFilter, SetDateFilter and SetHourFilter update one
// selection each. Date changes reset the hour selection (Snapshot enforces
// it).
func (s *ListService) SetStatusFilter(v string) { s.setFilter(func(f *Filters) { f.Status = v }) }
func (s *ListService) SetCakeFilter(v string)   { s.setFilter(func(f *Filters) { f.Cake = v }) }
func (s *ListService) SetDateFilter(v string)   { s.setFilter(func(f *Filters) { f.Date = v }) }
func (s *ListService) SetHourFilter(v string)   { s.setFilter(func(f *Filters) { f.Hour = v }) }

func (s *ListService) setFilter(apply func(*Filters)) {
	f := s.snap.Filters()
	apply(&f)
	s.snap.SetFilters(f)
}

// SetSearch records a new search term and schedules a server fetch after the
// debounce window. The timer is single-slot: each keystroke cancels and
// replaces any pending fetch, so only the final term fires a request.
func (s *ListService) SetSearch(term string) {
	f := s.snap.Filters()
	f.Search = term
	s.snap.SetFilters(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		orders, err := s.store.List(ctx, term)
		if err != nil {
			s.notify("検索中にエラーが発生しました。")
			return
		}
		s.snap.Replace(orders)
	})
}

// Close cancels any pending debounce timer. Called when the view unmounts so
// a stale fetch cannot fire afterwards.
func (s *ListService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
