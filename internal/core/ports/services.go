package ports

import (
	"context"
	"time"

	"marketplace-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// TokenService validates session tokens minted by the auth provider.
type TokenService interface {
	Generate(userID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
}

// SessionProvider resolves the current authenticated identity, if any.
type SessionProvider interface {
	Current(ctx context.Context) domain.Session
}

// ViewInvalidator marks cached output for a view path as stale.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// ViewCache is a read-through cache of rendered view data keyed by path + variant.
//
// Get reports the path version it looked under; a caller filling a miss
// passes that version back to Set, so rows read before an Invalidate are
// never stored under the version that Invalidate created.
type ViewCache interface {
	ViewInvalidator
	// Get decodes a cached entry into dest. Returns hit=false on miss.
	Get(ctx context.Context, path, variant string, dest any) (version int64, hit bool, err error)
	Set(ctx context.Context, path, variant string, version int64, value any) error
}

// AuditService records audit entries. Log never fails the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// WalletSnapshot is the balance plus most recent transactions as of read time.
// Wallet is nil when the user has no wallet row; Transactions is never nil.
type WalletSnapshot struct {
	Wallet       *domain.Wallet
	Transactions []domain.Transaction
}

// WalletBalance is the balance/currency pair shown in headers and the cart.
type WalletBalance struct {
	Balance  decimal.Decimal
	Currency string
}

// WalletQueryService reads the signed-in user's wallet.
type WalletQueryService interface {
	// GetWalletSnapshot returns nil, nil when there is no session.
	GetWalletSnapshot(ctx context.Context) (*WalletSnapshot, error)
	GetBalance(ctx context.Context) (*WalletBalance, error)
}

// OrderStatusService applies seller-initiated delivery status changes.
type OrderStatusService interface {
	UpdateOrderItemStatus(ctx context.Context, orderItemID uuid.UUID, status domain.DeliveryStatus) (*domain.OrderItem, error)
	MarkAsProcessing(ctx context.Context, orderItemID uuid.UUID) (*domain.OrderItem, error)
	MarkAsDelivered(ctx context.Context, orderItemID uuid.UUID) (*domain.OrderItem, error)
}

// SellerOrderService lists the signed-in seller's order items.
type SellerOrderService interface {
	ListSellerOrders(ctx context.Context, status *domain.DeliveryStatus) ([]domain.OrderItem, error)
}

// TransactionFilter is the user-facing filter for transaction history.
type TransactionFilter struct {
	Type   string // deposit, purchase, withdrawal, refund or "all"
	Range  string // 7days, 30days, 90days or "all"
	Search string
	Page   int
	Limit  int
}

// TransactionPage is one page of transaction history.
type TransactionPage struct {
	Items      []domain.Transaction
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TransactionHistoryService serves the filtered history and CSV export.
type TransactionHistoryService interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) (*TransactionPage, error)
	ExportCSV(ctx context.Context, filter TransactionFilter) (string, []byte, error)
}
