package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// ErrUpdateInFlight means another status change has not finished yet. One
// mutation at a time, globally: two quick clicks must not race each other.
var ErrUpdateInFlight = errors.New("status update already in flight")

// OrderStore is what the engines need from the reservation API. The HTTP
// client in pkg/orderstore implements it; tests use fakes.
type OrderStore interface {
	List(ctx context.Context, search string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.Status) error
	ReplaceOrder(ctx context.Context, order *models.Order) error
}

// StatusChangePrompt is the confirmation summary shown to staff before a
// status change goes out.
type StatusChangePrompt struct {
	OrderID      string // zero-padded reception number
	CustomerName string
	FromLabel    string
	ToLabel      string
}

func (p StatusChangePrompt) String() string {
	return fmt.Sprintf("【確認】ステータスを変更しますか？\n\n受付番号: %s\nお名前: %s\n\n%s → %s",
		p.OrderID, p.CustomerName, p.FromLabel, p.ToLabel)
}

// ConfirmFunc answers the confirmation prompt; false aborts the change.
type ConfirmFunc func(prompt StatusChangePrompt) bool

// NotifyFunc surfaces a user-visible message (error alerts).
type NotifyFunc func(message string)

type StatusService interface {
	// ChangeStatus runs the full protocol: confirm, send, commit on success,
	// roll back and reload on failure. A missing id is a silent no-op
	// (ErrNotFound); a declined confirmation returns nil with no change.
	ChangeStatus(ctx context.Context, id uint, next models.Status) error

	// InFlight reports whether any status change is currently running, so
	// the UI can disable all status controls.
	InFlight() bool

	// UpdatingID returns the order currently being updated, if any.
	UpdatingID() (uint, bool)
}

type statusService struct {
	store   OrderStore
	snap    *Snapshot
	confirm ConfirmFunc
	notify  NotifyFunc

	mu         sync.Mutex
	inFlight   bool
	updatingID uint
}

func NewStatusService(store OrderStore, snap *Snapshot, confirm ConfirmFunc, notify NotifyFunc) StatusService {
	if notify == nil {
		notify = func(string) {}
	}
	return &statusService{store: store, snap: snap, confirm: confirm, notify: notify}
}

func (s *statusService) ChangeStatus(ctx context.Context, id uint, next models.Status) error {
	order, err := s.snap.Find(id)
	if err != nil {
		return err
	}
	if !next.Valid() {
		return fmt.Errorf("invalid status %q", next)
	}

	prompt := StatusChangePrompt{
		OrderID:      order.DisplayID(),
		CustomerName: order.CustomerName(),
		FromLabel:    order.Status.Label(),
		ToLabel:      next.Label(),
	}
	if s.confirm != nil && !s.confirm(prompt) {
		return nil
	}

	if err := s.begin(id); err != nil {
		return err
	}
	// Busy markers clear no matter how the round trip ends.
	defer s.end()

	previous := order.Status

	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		// Server truth did not change, or is unknown: restore the previous
		// status locally and re-fetch the whole collection to reconcile.
		s.snap.SetStatus(id, previous)
		s.notify("サーバーへのステータス保存中にエラーが発生しました。リストを再読み込みします。")
		if orders, lerr := s.store.List(ctx, ""); lerr == nil {
			s.snap.Replace(orders)
		}
		return err
	}

	// Confirmed success: commit into the local collection, this record only.
	s.snap.SetStatus(id, next)
	return nil
}

func (s *statusService) begin(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrUpdateInFlight
	}
	s.inFlight = true
	s.updatingID = id
	return nil
}

func (s *statusService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.updatingID = 0
}

func (s *statusService) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *statusService) UpdatingID() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inFlight {
		return 0, false
	}
	return s.updatingID, true
}
