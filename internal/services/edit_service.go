package services

import (
	"context"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// EditService saves full-record edits. Unlike status changes there is no
// rollback dance: a failed save leaves the previously confirmed data
// untouched and nothing needs reloading.
type EditService interface {
	SaveEdit(ctx context.Context, order models.Order) error
}

type editService struct {
	store  OrderStore
	snap   *Snapshot
	notify NotifyFunc
}

func NewEditService(store OrderStore, snap *Snapshot, notify NotifyFunc) EditService {
	if notify == nil {
		notify = func(string) {}
	}
	return &editService{store: store, snap: snap, notify: notify}
}

func (s *editService) SaveEdit(ctx context.Context, order models.Order) error {
	if _, err := s.snap.Find(order.ID); err != nil {
		return err
	}

	if err := s.store.ReplaceOrder(ctx, &order); err != nil {
		s.notify("更新中にエラーが発生しました。")
		return err
	}

	s.snap.SetOrder(order)
	return nil
}
