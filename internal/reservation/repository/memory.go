package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
)

// MemoryRepository is an in-memory lot ledger with the same invariant
// enforcement as the Postgres one. Used by tests and by single-process
// deployments without a database.
type MemoryRepository struct {
	mu           sync.RWMutex
	lots         map[string]model.Lot
	reservations map[string]model.Reservation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		lots:         make(map[string]model.Lot),
		reservations: make(map[string]model.Reservation),
	}
}

// AddLot registers a lot in the ledger. Test and seed helper.
func (r *MemoryRepository) AddLot(lot model.Lot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
}

// SetLotTotal changes a lot's total quantity. Test helper for the
// administrative capacity-change path.
func (r *MemoryRepository) SetLotTotal(lotID string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[lotID]
	if !ok {
		return
	}
	lot.TotalQuantity = total
	r.lots[lotID] = lot
}

// LotSource exposes the ledger's lot records through the allocator's catalog
// contract.
func (r *MemoryRepository) LotSource() reservation.LotSource {
	return &memoryLotSource{repo: r}
}

type memoryLotSource struct {
	repo *MemoryRepository
}

func (s *memoryLotSource) FindByID(ctx context.Context, id string) (*model.Lot, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()
	lot, ok := s.repo.lots[id]
	if !ok {
		return nil, nil
	}
	out := lot
	return &out, nil
}

func (r *MemoryRepository) Remaining(ctx context.Context, lotID, excludingUserID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remainingLocked(lotID, excludingUserID)
}

func (r *MemoryRepository) remainingLocked(lotID, excludingUserID string) (int, error) {
	lot, ok := r.lots[lotID]
	if !ok {
		return 0, reservation.ErrNotFound
	}

	reserved := 0
	for _, res := range r.reservations {
		if res.LotID == lotID && res.UserID != excludingUserID {
			reserved += res.Quantity
		}
	}

	remaining := lot.TotalQuantity - reserved
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (r *MemoryRepository) CommittedQuantity(ctx context.Context, lotID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	committed := 0
	for _, res := range r.reservations {
		if res.LotID == lotID {
			committed += res.Quantity
		}
	}
	return committed, nil
}

func (r *MemoryRepository) ReservationFor(ctx context.Context, lotID, userID string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.reservations {
		if res.LotID == lotID && res.UserID == userID {
			out := res
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	out := res
	return &out, nil
}

func (r *MemoryRepository) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []model.Reservation{}
	for _, res := range r.reservations {
		if res.UserID == userID {
			items = append(items, res)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepository) ListForLot(ctx context.Context, lotID string) ([]model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []model.Reservation{}
	for _, res := range r.reservations {
		if res.LotID == lotID {
			items = append(items, res)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepository) ApplyCreate(ctx context.Context, res *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reservations {
		if existing.LotID == res.LotID && existing.UserID == res.UserID {
			return reservation.ErrDuplicateReservation
		}
	}

	remaining, err := r.remainingLocked(res.LotID, "")
	if err != nil {
		return err
	}
	if res.Quantity > remaining {
		return reservation.ErrCapacityExceeded
	}

	r.reservations[res.ID] = *res
	return nil
}

func (r *MemoryRepository) ApplyUpdate(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return reservation.ErrNotFound
	}

	ceiling, err := r.remainingLocked(res.LotID, res.UserID)
	if err != nil {
		return err
	}
	if quantity > ceiling {
		return reservation.ErrCapacityExceeded
	}

	res.Quantity = quantity
	r.reservations[id] = res
	return nil
}

func (r *MemoryRepository) ApplyDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[id]; !ok {
		return reservation.ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}
