package ports

import (
	"context"
	"time"

	"marketplace-core/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

// WalletRepository defines read access to wallets.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
}

// TransactionRepository defines read access to the wallet transaction log.
type TransactionRepository interface {
	// ListRecent returns at most limit entries for the user, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
// PageSize <= 0 disables pagination.
type TransactionListParams struct {
	UserID   uuid.UUID
	Type     *domain.TransactionType
	Since    *time.Time
	Search   string
	Page     int
	PageSize int
}

// OrderItemRepository defines persistence operations for order items.
type OrderItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error)
	// UpdateStatus sets delivery_status and updated_at in a single statement.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, updatedAt time.Time) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, status *domain.DeliveryStatus) ([]domain.OrderItem, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
