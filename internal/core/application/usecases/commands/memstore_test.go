package commands_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// memRow is the stored form of an order; aggregates are rebuilt on every read
// so callers never share pointers with the store.
type memRow struct {
	id          kernel.UUID
	ownerID     kernel.UUID
	productName string
	amount      kernel.Amount
	status      order.Status
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

// memOrderStore is an in-memory order store with the same version semantics as
// the postgres repository. It doubles as the OrderUoWFactory.
type memOrderStore struct {
	mu   sync.Mutex
	rows map[kernel.UUID]memRow

	// failUpdate makes Update of the given order return the error.
	failUpdate map[kernel.UUID]error
	// failLoad makes GetAllInStatus for the given status return the error.
	failLoad map[order.Status]error
	// beforeUpdate runs at the start of every Update, outside the lock.
	beforeUpdate func(id kernel.UUID)
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		rows:       make(map[kernel.UUID]memRow),
		failUpdate: make(map[kernel.UUID]error),
		failLoad:   make(map[order.Status]error),
	}
}

func (s *memOrderStore) Create() commands.OrderUoW {
	return &memOrderUoW{store: s}
}

func (s *memOrderStore) status(id kernel.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].status
}

func (s *memOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memOrderStore) Add(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[o.ID()]; ok {
		return errs.NewConflictError("order", o.ID())
	}
	s.rows[o.ID()] = toRow(o, o.Version())
	return nil
}

func (s *memOrderStore) Update(_ context.Context, o *order.Order) error {
	if s.beforeUpdate != nil {
		s.beforeUpdate(o.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failUpdate[o.ID()]; ok {
		return err
	}
	row, ok := s.rows[o.ID()]
	if !ok || row.version != o.Version() {
		return errs.NewConflictError("order", o.ID())
	}
	s.rows[o.ID()] = toRow(o, row.version+1)
	o.MarkPersisted()
	return nil
}

func (s *memOrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return row.restore()
}

func (s *memOrderStore) GetAllInStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failLoad[status]; err != nil {
		return nil, err
	}

	rows := make([]memRow, 0, len(s.rows))
	for _, r := range s.rows {
		if r.status == status {
			rows = append(rows, r)
		}
	}
	slices.SortFunc(rows, func(a, b memRow) int {
		return a.createdAt.Compare(b.createdAt)
	})

	result := make([]*order.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.restore()
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func toRow(o *order.Order, version int) memRow {
	return memRow{
		id:          o.ID(),
		ownerID:     o.OwnerID(),
		productName: o.ProductName(),
		amount:      o.Amount(),
		status:      o.Status(),
		createdAt:   o.CreatedAt(),
		updatedAt:   o.UpdatedAt(),
		version:     version,
	}
}

func (r memRow) restore() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.ownerID, r.productName, r.amount, r.status, r.createdAt, r.updatedAt, r.version)
}

type memOrderUoW struct {
	store *memOrderStore
}

func (u *memOrderUoW) Begin(context.Context) error    { return nil }
func (u *memOrderUoW) Commit(context.Context) error   { return nil }
func (u *memOrderUoW) Rollback(context.Context) error { return nil }

func (u *memOrderUoW) OrderRepository() ports.OrderRepository {
	return u.store
}
