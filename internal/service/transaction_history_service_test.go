package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/internal/core/ports/mocks"
	"marketplace-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type historyTestDeps struct {
	svc      *TransactionHistoryServiceImpl
	txRepo   *mocks.MockTransactionRepository
	sessions *mocks.MockSessionProvider
	now      time.Time
	userID   uuid.UUID
}

func setupHistoryService(t *testing.T) *historyTestDeps {
	ctrl := gomock.NewController(t)
	d := &historyTestDeps{
		txRepo:   mocks.NewMockTransactionRepository(ctrl),
		sessions: mocks.NewMockSessionProvider(ctrl),
		now:      time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC),
		userID:   uuid.New(),
	}
	d.svc = NewTransactionHistoryService(d.txRepo, d.sessions, newTestLogger())
	d.svc.now = func() time.Time { return d.now }
	return d
}

func TestTransactionHistoryService_ListTransactions_Defaults(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, ports.TransactionListParams{UserID: d.userID, Page: 1, PageSize: 10}).
		Return(nil, int64(0), nil)

	page, err := d.svc.ListTransactions(ctx, ports.TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 0, page.TotalPages)
}

func TestTransactionHistoryService_ListTransactions_Filters(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			require.NotNil(t, p.Type)
			assert.Equal(t, domain.TransactionTypeRefund, *p.Type)
			require.NotNil(t, p.Since)
			assert.Equal(t, d.now.AddDate(0, 0, -30), *p.Since)
			assert.Equal(t, "steam", p.Search)
			assert.Equal(t, 3, p.Page)
			assert.Equal(t, 25, p.PageSize)
			return []domain.Transaction{{ID: uuid.New()}}, int64(51), nil
		})

	page, err := d.svc.ListTransactions(ctx, ports.TransactionFilter{
		Type: "refund", Range: "30days", Search: "steam", Page: 3, Limit: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(51), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestTransactionHistoryService_ListTransactions_LimitCapped(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, ports.TransactionListParams{UserID: d.userID, Page: 1, PageSize: 100}).
		Return([]domain.Transaction{}, int64(0), nil)

	page, err := d.svc.ListTransactions(ctx, ports.TransactionFilter{Type: "all", Range: "all", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
}

func TestTransactionHistoryService_ListTransactions_InvalidFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter ports.TransactionFilter
	}{
		{"bad type", ports.TransactionFilter{Type: "sale"}},
		{"bad range", ports.TransactionFilter{Range: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupHistoryService(t)
			ctx := context.Background()
			d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))

			_, err := d.svc.ListTransactions(ctx, tt.filter)
			assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
		})
	}
}

func TestTransactionHistoryService_Unauthenticated(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()
	d.sessions.EXPECT().Current(ctx).Return(domain.Unauthenticated()).Times(2)

	_, err := d.svc.ListTransactions(ctx, ports.TransactionFilter{})
	assert.Equal(t, apperror.CodeUnauthenticated, apperror.CodeOf(err))

	_, _, err = d.svc.ExportCSV(ctx, ports.TransactionFilter{})
	assert.Equal(t, apperror.CodeUnauthenticated, apperror.CodeOf(err))
}

func TestTransactionHistoryService_ListTransactions_RepoError(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()
	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	_, err := d.svc.ListTransactions(ctx, ports.TransactionFilter{})
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))
}

func TestTransactionHistoryService_ExportCSV(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 18, 14, 5, 0, 0, time.UTC)

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, ports.TransactionListParams{UserID: d.userID}).Return([]domain.Transaction{
		{Type: domain.TransactionTypeDeposit, Amount: decimal.RequireFromString("100"), Currency: "TRY", Description: "Top-up", CreatedAt: at},
		{Type: domain.TransactionTypePurchase, Amount: decimal.RequireFromString("-12.5"), Currency: "TRY", Description: "Gift card, 10 TL", CreatedAt: at},
	}, int64(2), nil)

	filename, content, err := d.svc.ExportCSV(ctx, ports.TransactionFilter{Page: 4, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "transactions_2026-05-20.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Type,Amount,Currency,Description", lines[0])
	assert.Equal(t, "2026-05-18T14:05:00Z,deposit,100.00,TRY,Top-up", lines[1])
	assert.Equal(t, `2026-05-18T14:05:00Z,purchase,-12.50,TRY,"Gift card, 10 TL"`, lines[2])
}

func TestTransactionHistoryService_ExportCSV_RepoError(t *testing.T) {
	d := setupHistoryService(t)
	ctx := context.Background()
	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(d.userID))
	d.txRepo.EXPECT().List(ctx, gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	_, _, err := d.svc.ExportCSV(ctx, ports.TransactionFilter{})
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))
}
