package services

import (
	"testing"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// The reference scenario: one unpaid and one cancelled order for the same
// cake, size and day. Cancelled orders keep out of the quantity buckets but
// stay in the cross-tabs.
func TestBuildSalesReport_CancelledExcludedFromQuantities(t *testing.T) {
	report := BuildSalesReport(testOrders())

	bucket := report.Summary["Noel"]["M"]
	if bucket == nil {
		t.Fatal("missing Noel/M bucket")
	}
	if bucket.Stock != 5 {
		t.Errorf("stock = %d, want 5", bucket.Stock)
	}
	if got := bucket.Days["2024-12-24"]; got != 1 {
		t.Errorf("sold on 2024-12-24 = %d, want 1 (cancelled order excluded)", got)
	}

	counts := report.StatusCounts["2024-12-24"]
	if counts[models.StatusUnpaid] != 1 || counts[models.StatusCancelled] != 1 {
		t.Errorf("status counts = %v, want a:1 e:1", counts)
	}

	if got := report.StatusValues[models.StatusUnpaid]["2024-12-24"]; got != 3000 {
		t.Errorf("unpaid value = %d, want 3000", got)
	}
	if got := report.StatusValues[models.StatusCancelled]["2024-12-24"]; got != 6000 {
		t.Errorf("cancelled value = %d, want 6000", got)
	}
}

func TestBuildSalesReport_CountsIncludeEveryOrder(t *testing.T) {
	orders := listOrders()
	report := BuildSalesReport(orders)

	total := 0
	for _, date := range report.Dates {
		total += report.DateCountTotal(date)
	}
	if total != len(orders) {
		t.Errorf("summed status counts = %d, want %d", total, len(orders))
	}
	if report.OrderCountTotal() != len(orders) {
		t.Errorf("OrderCountTotal = %d, want %d", report.OrderCountTotal(), len(orders))
	}
}

func TestBuildSalesReport_Totals(t *testing.T) {
	report := BuildSalesReport(listOrders())

	// Order 4 is cancelled, so its quantity stays out: orders 1 (2 pcs),
	// 2 (1+1 pcs) and 3 (1 pc) remain.
	if got := report.GrandTotal(); got != 5 {
		t.Errorf("GrandTotal = %d, want 5", got)
	}
	if got := report.DayTotal("2024-12-24"); got != 4 {
		t.Errorf("DayTotal(2024-12-24) = %d, want 4", got)
	}
	if got := report.CakeDayTotal("ノエル・フレーズ", "2024-12-24"); got != 3 {
		t.Errorf("CakeDayTotal = %d, want 3", got)
	}
	if got := report.CakeTotal("ノエル・フレーズ"); got != 3 {
		t.Errorf("CakeTotal = %d, want 3", got)
	}

	// Timestamps collapse to calendar dates.
	for _, date := range report.Dates {
		if len(date) != 10 {
			t.Errorf("report date %q not reduced to a calendar date", date)
		}
	}
}

func TestBuildSalesReport_TrimsBucketKeys(t *testing.T) {
	orders := []models.Order{
		{ID: 1, Date: "2024-12-24", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{{Name: " Noel ", Size: "M ", Price: 3000, Amount: 1, Stock: 5}}},
		{ID: 2, Date: "2024-12-24", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{{Name: "Noel", Size: " M", Price: 3000, Amount: 2, Stock: 5}}},
	}

	report := BuildSalesReport(orders)
	if len(report.Summary) != 1 {
		t.Fatalf("cake buckets = %d, want 1 (names trimmed)", len(report.Summary))
	}
	bucket := report.Summary["Noel"]["M"]
	if bucket == nil {
		t.Fatal("missing trimmed Noel/M bucket")
	}
	if got := bucket.Days["2024-12-24"]; got != 3 {
		t.Errorf("sold = %d, want 3", got)
	}
}

func TestBuildSalesReport_StockSnapshot(t *testing.T) {
	orders := []models.Order{
		{ID: 1, Date: "2024-12-24", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{{Name: "Noel", Size: "M", Price: 3000, Amount: 1, Stock: 0}}},
		{ID: 2, Date: "2024-12-24", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{{Name: "Noel", Size: "M", Price: 3000, Amount: 1, Stock: 7}}},
		{ID: 3, Date: "2024-12-24", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{{Name: "Noel", Size: "M", Price: 3000, Amount: 1, Stock: 9}}},
	}

	report := BuildSalesReport(orders)
	bucket := report.Summary["Noel"]["M"]

	// First non-zero snapshot wins.
	if bucket.Stock != 7 {
		t.Errorf("stock = %d, want 7", bucket.Stock)
	}
	if bucket.InitialStock() != 10 {
		t.Errorf("InitialStock = %d, want 10 (stock + sold)", bucket.InitialStock())
	}
}
