// Package history caches trader orders and balance actions locally so they can be listed
// without asking the venue.
package history

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

const (
	segmentLimit = 1000
	maxSegments  = 100

	orderKeyPrefix         = "order_"
	balanceActionKeyPrefix = "balance_action_"
)

// WALStore appends order and balance action snapshots to a WAL. The latest snapshot of
// an id wins; ids keep the position of their first appearance.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens (or creates) the history WAL under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		return nil, errors.New("history dir is required")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create history dir")
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "history_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// SaveOrders records the given orders.
func (s *WALStore) SaveOrders(orders ...domain.TraderOrder) error {
	if s == nil || s.wal == nil {
		return errors.New("history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range orders {
		if order.ID == "" {
			return errors.New("order id is required")
		}
		if err := s.write(orderKeyPrefix+order.ID, order); err != nil {
			return errors.Wrap(err, "save order")
		}
	}
	return nil
}

// SaveBalanceActions records the given balance actions.
func (s *WALStore) SaveBalanceActions(actions ...domain.BalanceAction) error {
	if s == nil || s.wal == nil {
		return errors.New("history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, action := range actions {
		if action.ID == "" {
			return errors.New("balance action id is required")
		}
		if err := s.write(balanceActionKeyPrefix+action.ID, action); err != nil {
			return errors.Wrap(err, "save balance action")
		}
	}
	return nil
}

// Orders returns the cached orders.
func (s *WALStore) Orders() ([]domain.TraderOrder, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return latest[domain.TraderOrder](s.wal, orderKeyPrefix)
}

// BalanceActions returns the cached balance actions.
func (s *WALStore) BalanceActions() ([]domain.BalanceAction, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return latest[domain.BalanceAction](s.wal, balanceActionKeyPrefix)
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

func (s *WALStore) write(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal history record")
	}

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

func latest[T any](wal *gowal.Wal, prefix string) ([]T, error) {
	if wal.CurrentIndex() == 0 {
		return nil, nil
	}

	var (
		ids  []string
		byID = make(map[string]T)
	)

	for msg := range wal.Iterator() {
		if !strings.HasPrefix(msg.Key, prefix) {
			continue
		}
		var record T
		if err := json.Unmarshal(msg.Value, &record); err != nil {
			return nil, errors.Wrapf(err, "decode history record %s", msg.Key)
		}
		id := strings.TrimPrefix(msg.Key, prefix)
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = record
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}
