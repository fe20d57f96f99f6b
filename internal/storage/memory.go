package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
)

// MemoryRepository holds the canonical merchant collection for a session.
// All reads return copies so derived views never alias repository state.
type MemoryRepository struct {
	merchants   []model.Merchant
	subscribers map[int]func()
	nextSubID   int
	mu          sync.RWMutex
}

// NewMemoryRepository creates a repository seeded with the given merchants.
// Seeds with duplicate or empty ids are rejected.
func NewMemoryRepository(seed []model.Merchant) (*MemoryRepository, error) {
	r := &MemoryRepository{
		merchants:   make([]model.Merchant, 0, len(seed)),
		subscribers: make(map[int]func()),
	}
	for _, m := range seed {
		if err := r.add(m); err != nil {
			return nil, fmt.Errorf("seeding repository: %w", err)
		}
	}
	return r, nil
}

// Add appends a new merchant.
func (r *MemoryRepository) Add(merchant model.Merchant) error {
	r.mu.Lock()
	err := r.add(merchant)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Debug("Added merchant", "id", merchant.ID, "name", merchant.Name)
	r.notify()
	return nil
}

func (r *MemoryRepository) add(merchant model.Merchant) error {
	if err := validateMerchant(&merchant); err != nil {
		return err
	}
	if r.indexOf(merchant.ID) >= 0 {
		return fmt.Errorf("%w: merchant id %q", common.ErrDuplicateEntry, merchant.ID)
	}
	r.merchants = append(r.merchants, merchant.Clone())
	return nil
}

// Update merges patch into the merchant with the given id.
func (r *MemoryRepository) Update(id string, patch model.MerchantPatch) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: merchant id %q", common.ErrNotFound, id)
	}
	// Apply to a copy so a rejected patch leaves the record untouched.
	updated := r.merchants[i].Clone()
	patch.Apply(&updated)
	if err := validateMerchant(&updated); err != nil {
		r.mu.Unlock()
		return err
	}
	r.merchants[i] = updated
	r.mu.Unlock()

	slog.Debug("Updated merchant", "id", id)
	r.notify()
	return nil
}

// Delete removes the merchant with the given id.
func (r *MemoryRepository) Delete(id string) bool {
	r.mu.Lock()
	i := r.indexOf(id)
	if i >= 0 {
		r.merchants = slices.Delete(r.merchants, i, i+1)
	}
	r.mu.Unlock()

	if i < 0 {
		return false
	}
	slog.Debug("Deleted merchant", "id", id)
	r.notify()
	return true
}

// GetByID returns a copy of the merchant with the given id.
func (r *MemoryRepository) GetByID(id string) (*model.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: merchant id %q", common.ErrNotFound, id)
	}
	m := r.merchants[i].Clone()
	return &m, nil
}

// List returns copies of all merchants in insertion order.
func (r *MemoryRepository) List() []model.Merchant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Merchant, len(r.merchants))
	for i, m := range r.merchants {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of merchants.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.merchants)
}

// Subscribe registers fn to run after each successful mutation.
func (r *MemoryRepository) Subscribe(fn func()) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
	}
}

// notify runs subscribers outside the lock so they may read the repository.
func (r *MemoryRepository) notify() {
	r.mu.RLock()
	fns := make([]func(), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.merchants, func(m model.Merchant) bool {
		return m.ID == id
	})
}
