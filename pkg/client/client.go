// Package client is a small HTTP client for the marketplace API. It is the
// wallet data source used by walletctl.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace-core/internal/adapter/http/dto"
	"marketplace-core/internal/core/domain"

	"github.com/google/uuid"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string `json:"error_code"`
	Message    string `json:"error"`
	Location   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("marketplace api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("marketplace api: %s: %s", e.Code, e.Message)
}

// Client calls the marketplace API on behalf of one bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for baseURL (e.g. http://localhost:8080).
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot fetches GET /api/v1/wallet.
func (c *Client) Snapshot(ctx context.Context) (*dto.WalletSnapshotResponse, error) {
	var out dto.WalletSnapshotResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/wallet", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Wallet returns the signed-in user's wallet, or nil if they have none.
func (c *Client) Wallet(ctx context.Context) (*domain.Wallet, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Wallet == nil {
		return nil, nil
	}
	return toWallet(snap.Wallet)
}

// Transactions returns the most recent wallet transactions, newest first.
func (c *Client) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(snap.Transactions))
	for i := range snap.Transactions {
		tx, err := toTransaction(&snap.Transactions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, nil
}

// MarkProcessing calls POST /api/v1/seller/order-items/:id/processing.
func (c *Client) MarkProcessing(ctx context.Context, orderItemID uuid.UUID) (*dto.OrderItemResponse, error) {
	return c.orderAction(ctx, orderItemID, "processing")
}

// MarkDelivered calls POST /api/v1/seller/order-items/:id/deliver.
func (c *Client) MarkDelivered(ctx context.Context, orderItemID uuid.UUID) (*dto.OrderItemResponse, error) {
	return c.orderAction(ctx, orderItemID, "deliver")
}

func (c *Client) orderAction(ctx context.Context, orderItemID uuid.UUID, action string) (*dto.OrderItemResponse, error) {
	var out dto.OrderItemResponse
	path := "/api/v1/seller/order-items/" + orderItemID.String() + "/" + action
	if err := c.do(ctx, http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: data}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toWallet(w *dto.WalletResponse) (*domain.Wallet, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("decode wallet id: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode wallet updated_at: %w", err)
	}
	return &domain.Wallet{
		ID:        id,
		Balance:   w.Balance,
		Currency:  w.Currency,
		UpdatedAt: updatedAt,
	}, nil
}

func toTransaction(t *dto.TransactionResponse) (*domain.Transaction, error) {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return nil, fmt.Errorf("decode transaction id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode transaction created_at: %w", err)
	}
	return &domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(t.Type),
		Amount:      t.Amount,
		Currency:    t.Currency,
		Description: t.Description,
		CreatedAt:   createdAt,
	}, nil
}
