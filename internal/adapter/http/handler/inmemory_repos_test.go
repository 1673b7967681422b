package handler_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"

	"github.com/google/uuid"
)

// --- Wallets ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet // by user
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) put(w *domain.Wallet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.UserID] = w
}

func (r *inMemoryWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

// --- Transactions ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) add(txns ...domain.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, txns...)
}

func (r *inMemoryTransactionRepo) byUser(userID uuid.UUID) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *inMemoryTransactionRepo) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.byUser(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) List(_ context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(params.Search)
	filtered := make([]domain.Transaction, 0)
	for _, t := range r.byUser(params.UserID) {
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.Since != nil && t.CreatedAt.Before(*params.Since) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) && !strings.Contains(t.ID.String(), search) {
			continue
		}
		filtered = append(filtered, t)
	}

	total := int64(len(filtered))
	if params.PageSize > 0 {
		start := (params.Page - 1) * params.PageSize
		if start > len(filtered) {
			start = len(filtered)
		}
		end := start + params.PageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}
	return filtered, total, nil
}

// --- Order items ---

type inMemoryOrderItemRepo struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*domain.OrderItem
	afterList func() // runs once, after the next listing has read its rows
}

func newInMemoryOrderItemRepo() *inMemoryOrderItemRepo {
	return &inMemoryOrderItemRepo{items: make(map[uuid.UUID]*domain.OrderItem)}
}

func (r *inMemoryOrderItemRepo) put(o *domain.OrderItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID] = o
}

func (r *inMemoryOrderItemRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOrderItemRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.DeliveryStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return errors.New("order item not found")
	}
	o.DeliveryStatus = status
	o.UpdatedAt = updatedAt
	return nil
}

// afterNextList makes the next ListBySeller call hook once its rows are read,
// so a test can land a write between the read and the caller's use of it.
func (r *inMemoryOrderItemRepo) afterNextList(hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterList = hook
}

func (r *inMemoryOrderItemRepo) ListBySeller(_ context.Context, sellerID uuid.UUID, status *domain.DeliveryStatus) ([]domain.OrderItem, error) {
	out := r.listBySeller(sellerID, status)

	r.mu.Lock()
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *inMemoryOrderItemRepo) listBySeller(sellerID uuid.UUID, status *domain.DeliveryStatus) []domain.OrderItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.OrderItem, 0)
	for _, o := range r.items {
		if o.SellerID != sellerID {
			continue
		}
		if status != nil && o.DeliveryStatus != *status {
			continue
		}
		out = append(out, *o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- Audit ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}
