package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// fakeStore implements OrderStore for the engine tests.
type fakeStore struct {
	orders []models.Order

	updateErr    error
	updateCalls  int
	listCalls    int
	replaceErr   error
	replaceCalls int
}

func (f *fakeStore) List(ctx context.Context, search string) ([]models.Order, error) {
	f.listCalls++
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uint, status models.Status) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeStore) ReplaceOrder(ctx context.Context, order *models.Order) error {
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	for i := range f.orders {
		if f.orders[i].ID == order.ID {
			f.orders[i] = *order
		}
	}
	return nil
}

func testOrders() []models.Order {
	return []models.Order{
		{
			ID: 1, FirstName: "花子", LastName: "山田",
			Date: "2024-12-24", PickupHour: "10:00", Status: models.StatusUnpaid,
			Cakes: []models.OrderLine{
				{CakeID: 1, Name: "Noel", Size: "M", Price: 3000, Amount: 1, Stock: 5},
			},
		},
		{
			ID: 2, FirstName: "太郎", LastName: "鈴木",
			Date: "2024-12-24", PickupHour: "11:00", Status: models.StatusCancelled,
			Cakes: []models.OrderLine{
				{CakeID: 1, Name: "Noel", Size: "M", Price: 3000, Amount: 2, Stock: 5},
			},
		},
	}
}

func newTestSnapshot(orders []models.Order) *Snapshot {
	snap := NewSnapshot()
	snap.Replace(orders)
	return snap
}

func alwaysConfirm(StatusChangePrompt) bool { return true }

func TestChangeStatus_Success(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())
	svc := NewStatusService(store, snap, alwaysConfirm, nil)

	if err := svc.ChangeStatus(context.Background(), 1, models.StatusPaidInStore); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}

	order, err := snap.Find(1)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if order.Status != models.StatusPaidInStore {
		t.Errorf("status = %q, want %q", order.Status, models.StatusPaidInStore)
	}

	// Other records untouched
	other, _ := snap.Find(2)
	if other.Status != models.StatusCancelled {
		t.Errorf("order 2 status = %q, want %q", other.Status, models.StatusCancelled)
	}

	if svc.InFlight() {
		t.Error("busy flag still set after completed update")
	}
}

func TestChangeStatus_Idempotent(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())
	svc := NewStatusService(store, snap, alwaysConfirm, nil)

	for i := 0; i < 2; i++ {
		if err := svc.ChangeStatus(context.Background(), 1, models.StatusHandedOver); err != nil {
			t.Fatalf("call %d returned error: %v", i+1, err)
		}
	}

	order, _ := snap.Find(1)
	if order.Status != models.StatusHandedOver {
		t.Errorf("status = %q, want %q", order.Status, models.StatusHandedOver)
	}
	if store.updateCalls != 2 {
		t.Errorf("updateCalls = %d, want 2", store.updateCalls)
	}
}

func TestChangeStatus_Declined(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())
	decline := func(StatusChangePrompt) bool { return false }
	svc := NewStatusService(store, snap, decline, nil)

	if err := svc.ChangeStatus(context.Background(), 1, models.StatusPaidInStore); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}

	order, _ := snap.Find(1)
	if order.Status != models.StatusUnpaid {
		t.Errorf("status = %q, want unchanged %q", order.Status, models.StatusUnpaid)
	}
	if store.updateCalls != 0 {
		t.Errorf("updateCalls = %d, want 0 after decline", store.updateCalls)
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())
	svc := NewStatusService(store, snap, alwaysConfirm, nil)

	err := svc.ChangeStatus(context.Background(), 999, models.StatusPaidInStore)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if store.updateCalls != 0 {
		t.Errorf("updateCalls = %d, want 0", store.updateCalls)
	}
}

func TestChangeStatus_RejectedRollsBackAndReloads(t *testing.T) {
	// Server truth stays "a": the update is rejected as stale.
	store := &fakeStore{orders: testOrders(), updateErr: errors.New("stale")}
	snap := newTestSnapshot(testOrders())

	notified := 0
	notify := func(string) { notified++ }
	svc := NewStatusService(store, snap, alwaysConfirm, notify)

	err := svc.ChangeStatus(context.Background(), 1, models.StatusPaidInStore)
	if err == nil {
		t.Fatal("ChangeStatus returned nil, want the server error")
	}

	order, _ := snap.Find(1)
	if order.Status != models.StatusUnpaid {
		t.Errorf("status = %q, want rolled back %q", order.Status, models.StatusUnpaid)
	}
	if notified != 1 {
		t.Errorf("notifications = %d, want 1", notified)
	}
	if store.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (forced reload)", store.listCalls)
	}
	if svc.InFlight() {
		t.Error("busy flag still set after failed update")
	}
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())
	svc := NewStatusService(store, snap, alwaysConfirm, nil)

	if err := svc.ChangeStatus(context.Background(), 1, models.Status("z")); err == nil {
		t.Fatal("ChangeStatus accepted an undefined status value")
	}
	if store.updateCalls != 0 {
		t.Errorf("updateCalls = %d, want 0", store.updateCalls)
	}
}

func TestChangeStatus_SerializedGlobally(t *testing.T) {
	store := &fakeStore{orders: testOrders()}
	snap := newTestSnapshot(testOrders())

	var svc StatusService
	started := make(chan struct{})
	release := make(chan struct{})
	var secondErr error

	// Confirm of the first call blocks after begin would run; instead hook
	// into the store: UpdateStatus blocks until released.
	blockingStore := &blockingOrderStore{fakeStore: store, started: started, release: release}
	svc = NewStatusService(blockingStore, snap, alwaysConfirm, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.ChangeStatus(context.Background(), 1, models.StatusPaidInStore)
	}()

	<-started
	if !svc.InFlight() {
		t.Error("InFlight = false while an update is running")
	}
	secondErr = svc.ChangeStatus(context.Background(), 2, models.StatusHandedOver)
	close(release)
	<-done

	if !errors.Is(secondErr, ErrUpdateInFlight) {
		t.Errorf("second call error = %v, want ErrUpdateInFlight", secondErr)
	}
}

type blockingOrderStore struct {
	*fakeStore
	started chan struct{}
	release chan struct{}
	once    bool
}

func (b *blockingOrderStore) UpdateStatus(ctx context.Context, id uint, status models.Status) error {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return b.fakeStore.UpdateStatus(ctx, id, status)
}
