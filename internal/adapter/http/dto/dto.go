package dto

import (
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"

	"github.com/shopspring/decimal"
)

// UpdateOrderStatusRequest is the request body for PATCH .../order-items/:id/status.
// Status is checked by the order status service once the caller is known to
// own the item.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// TransactionListQuery holds the query string of the transaction history endpoints.
type TransactionListQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=all deposit purchase withdrawal refund"`
	Range  string `form:"range" binding:"omitempty,oneof=all 7days 30days 90days"`
	Search string `form:"search" binding:"max=100"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

// SellerOrdersQuery holds the optional status filter of the seller orders listing.
type SellerOrdersQuery struct {
	Status string `form:"status" binding:"omitempty,delivery_status"`
}

// WalletResponse is the wallet part of the wallet view.
type WalletResponse struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	UpdatedAt string          `json:"updated_at"`
}

// TransactionResponse is one wallet ledger entry.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}

// WalletSnapshotResponse is the response for GET /api/v1/wallet.
// Wallet is null when the user has no wallet yet.
type WalletSnapshotResponse struct {
	Wallet       *WalletResponse       `json:"wallet"`
	Transactions []TransactionResponse `json:"transactions"`
}

// WalletBalanceResponse is the response for balance query.
type WalletBalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// TransactionListResponse wraps a page of transaction history.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// OrderItemResponse is one seller order line.
type OrderItemResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DeliveryStatus string          `json:"delivery_status"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// SellerOrdersResponse wraps the seller orders listing.
type SellerOrdersResponse struct {
	Items []OrderItemResponse `json:"items"`
}

// ToWalletSnapshotResponse converts a snapshot for the wire.
func ToWalletSnapshotResponse(s *ports.WalletSnapshot) WalletSnapshotResponse {
	resp := WalletSnapshotResponse{Transactions: ToTransactionResponses(s.Transactions)}
	if s.Wallet != nil {
		resp.Wallet = &WalletResponse{
			ID:        s.Wallet.ID.String(),
			Balance:   s.Wallet.Balance,
			Currency:  s.Wallet.Currency,
			UpdatedAt: s.Wallet.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

// ToTransactionResponses converts ledger entries; the result is never nil.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionResponse{
			ID:          t.ID.String(),
			Type:        string(t.Type),
			Amount:      t.Amount,
			Currency:    t.Currency,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ToOrderItemResponse converts an order item for the wire.
func ToOrderItemResponse(o *domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:             o.ID.String(),
		OrderID:        o.OrderID.String(),
		ProductID:      o.ProductID.String(),
		Quantity:       o.Quantity,
		UnitPrice:      o.UnitPrice,
		DeliveryStatus: string(o.DeliveryStatus),
		CreatedAt:      o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
