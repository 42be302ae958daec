package services

import (
	"sort"
	"strings"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// SizeSummary accumulates sold quantities per pickup day for one
// (cake, size) bucket. Stock is the first non-zero stock snapshot observed
// for the bucket: the report shows initial stock next to sold-to-date, it is
// not a live inventory counter.
type SizeSummary struct {
	Stock int
	Days  map[string]int
}

// Total sums the bucket across all days.
func (s *SizeSummary) Total() int {
	total := 0
	for _, n := range s.Days {
		total += n
	}
	return total
}

// InitialStock reconstructs the stock level before any of these reservations
// were taken.
func (s *SizeSummary) InitialStock() int {
	return s.Stock + s.Total()
}

// SalesReport is the sales/inventory view derived from the flat order
// collection. Cancelled orders are excluded from quantity buckets but still
// counted in the status cross-tabs.
type SalesReport struct {
	// Summary maps cake name -> size -> day buckets.
	Summary map[string]map[string]*SizeSummary

	// Dates are all pickup dates seen (cancelled orders included), sorted
	// chronologically.
	Dates []string

	// StatusCounts counts orders per date per status, cancelled included.
	StatusCounts map[string]map[models.Status]int

	// StatusValues holds the yen total per status per date, computed from
	// line prices directly.
	StatusValues map[models.Status]map[string]int
}

// BuildSalesReport aggregates the collection in one pass.
func BuildSalesReport(orders []models.Order) *SalesReport {
	r := &SalesReport{
		Summary:      make(map[string]map[string]*SizeSummary),
		StatusCounts: make(map[string]map[models.Status]int),
		StatusValues: make(map[models.Status]map[string]int),
	}
	for _, status := range models.AllStatuses {
		r.StatusValues[status] = make(map[string]int)
	}

	seenDates := make(map[string]bool)

	for _, order := range orders {
		date := dateKey(order.Date)
		if !seenDates[date] {
			seenDates[date] = true
			r.Dates = append(r.Dates, date)
		}

		if r.StatusCounts[date] == nil {
			r.StatusCounts[date] = make(map[models.Status]int)
		}
		r.StatusCounts[date][order.Status]++

		if order.Status.Valid() {
			r.StatusValues[order.Status][date] += order.Total()
		}

		if order.Status == models.StatusCancelled {
			continue
		}

		for _, line := range order.Cakes {
			name := strings.TrimSpace(line.Name)
			size := strings.TrimSpace(line.Size)

			if r.Summary[name] == nil {
				r.Summary[name] = make(map[string]*SizeSummary)
			}
			bucket := r.Summary[name][size]
			if bucket == nil {
				bucket = &SizeSummary{Days: make(map[string]int)}
				r.Summary[name][size] = bucket
			}
			if bucket.Stock == 0 && line.Stock > 0 {
				bucket.Stock = line.Stock
			}
			bucket.Days[date] += line.Amount
		}
	}

	sort.Strings(r.Dates)
	return r
}

// CakeDayTotal sums a cake's sizes for one day.
func (r *SalesReport) CakeDayTotal(cake, date string) int {
	total := 0
	for _, bucket := range r.Summary[cake] {
		total += bucket.Days[date]
	}
	return total
}

// CakeTotal sums a cake across all sizes and days.
func (r *SalesReport) CakeTotal(cake string) int {
	total := 0
	for _, bucket := range r.Summary[cake] {
		total += bucket.Total()
	}
	return total
}

// DayTotal is the grand quantity total over all cakes for one day.
func (r *SalesReport) DayTotal(date string) int {
	total := 0
	for cake := range r.Summary {
		total += r.CakeDayTotal(cake, date)
	}
	return total
}

// GrandTotal is the overall sold quantity.
func (r *SalesReport) GrandTotal() int {
	total := 0
	for _, date := range r.Dates {
		total += r.DayTotal(date)
	}
	return total
}

// StatusCountTotal counts orders in a status across all dates.
func (r *SalesReport) StatusCountTotal(status models.Status) int {
	total := 0
	for _, counts := range r.StatusCounts {
		total += counts[status]
	}
	return total
}

// StatusValueTotal is the yen total for a status across all dates.
func (r *SalesReport) StatusValueTotal(status models.Status) int {
	total := 0
	for _, value := range r.StatusValues[status] {
		total += value
	}
	return total
}

// DateCountTotal counts all orders on one date, every status included.
func (r *SalesReport) DateCountTotal(date string) int {
	total := 0
	for _, n := range r.StatusCounts[date] {
		total += n
	}
	return total
}

// OrderCountTotal counts every order in the report.
func (r *SalesReport) OrderCountTotal() int {
	total := 0
	for _, date := range r.Dates {
		total += r.DateCountTotal(date)
	}
	return total
}

// ValueGrandTotal is the yen total over every status and date.
func (r *SalesReport) ValueGrandTotal() int {
	total := 0
	for _, status := range models.AllStatuses {
		total += r.StatusValueTotal(status)
	}
	return total
}

// CakeNames returns the aggregated cake names sorted for stable display.
func (r *SalesReport) CakeNames() []string {
	names := make([]string, 0, len(r.Summary))
	for name := range r.Summary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SizesOf returns the sizes of one cake sorted for stable display.
func (r *SalesReport) SizesOf(cake string) []string {
	sizes := make([]string, 0, len(r.Summary[cake]))
	for size := range r.Summary[cake] {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}
