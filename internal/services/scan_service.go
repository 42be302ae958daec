package services

import (
	"context"
	"strconv"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// Scanner is the decoding capability: each Decode call yields one decoded
// token or an error for that attempt. Close releases the capture resources;
// it must be safe to call once the session is over.
type Scanner interface {
	Decode(ctx context.Context) (string, error)
	Close() error
}

// ScanService resolves decoded tokens against the current snapshot.
type ScanService struct {
	snap *Snapshot
}

func NewScanService(snap *Snapshot) *ScanService {
	return &ScanService{snap: snap}
}

// Resolve parses a decoded token as a reception number and looks it up.
// No state is mutated either way.
func (s *ScanService) Resolve(token string) (*models.Order, error) {
	id, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.snap.Find(uint(id))
}

// Run drives one capture session. A decode that resolves to an order ends
// the session; a decode that matches nothing reports through onNotFound and
// leaves the session active for another physical scan. Decode errors for a
// single attempt are not fatal. The scanner is closed when the session ends,
// whatever the reason.
func (s *ScanService) Run(ctx context.Context, scanner Scanner, onNotFound func(token string)) (*models.Order, error) {
	defer scanner.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token, err := scanner.Decode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		order, err := s.Resolve(token)
		if err != nil {
			if onNotFound != nil {
				onNotFound(token)
			}
			continue
		}
		return order, nil
	}
}
