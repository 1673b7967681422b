package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports/mocks"
	"marketplace-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletQueryTestDeps struct {
	svc        *WalletQueryServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	sessions   *mocks.MockSessionProvider
	ctrl       *gomock.Controller
}

func setupWalletQueryService(t *testing.T) *walletQueryTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletQueryTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		sessions:   mocks.NewMockSessionProvider(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletQueryService(d.walletRepo, d.txRepo, d.sessions, 10, "TRY", newTestLogger())
	return d
}

func makeTransactions(userID uuid.UUID, n int, base time.Time) []domain.Transaction {
	txns := make([]domain.Transaction, n)
	for i := range txns {
		txns[i] = domain.Transaction{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      domain.TransactionTypePurchase,
			Amount:    decimal.NewFromInt(int64(-(i + 1))),
			Currency:  "TRY",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return txns
}

func TestWalletQueryService_GetWalletSnapshot_Unauthenticated(t *testing.T) {
	d := setupWalletQueryService(t)
	ctx := context.Background()

	d.sessions.EXPECT().Current(ctx).Return(domain.Unauthenticated())

	snap, err := d.svc.GetWalletSnapshot(ctx)
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestWalletQueryService_GetWalletSnapshot_Success(t *testing.T) {
	d := setupWalletQueryService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.RequireFromString("310.25"), Currency: "TRY"}
	txns := makeTransactions(userID, 3, time.Now())

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(wallet, nil)
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(txns, nil)

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, wallet, snap.Wallet)
	assert.Len(t, snap.Transactions, 3)
}

func TestWalletQueryService_GetWalletSnapshot_NoWalletNoTransactions(t *testing.T) {
	d := setupWalletQueryService(t)
	ctx := context.Background()
	userID := uuid.New()

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(nil, nil)

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Nil(t, snap.Wallet)
	assert.NotNil(t, snap.Transactions)
	assert.Empty(t, snap.Transactions)
}

func TestWalletQueryService_GetWalletSnapshot_SortsAndTruncates(t *testing.T) {
	d := setupWalletQueryService(t)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now()
	txns := makeTransactions(userID, 12, base)
	// Reverse so storage hands back oldest first.
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(txns, nil)

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 10)
	assert.True(t, base.Equal(snap.Transactions[0].CreatedAt))
	for i := 1; i < len(snap.Transactions); i++ {
		assert.False(t, snap.Transactions[i].CreatedAt.After(snap.Transactions[i-1].CreatedAt))
	}
}

func TestWalletQueryService_GetWalletSnapshot_WalletError(t *testing.T) {
	d := setupWalletQueryService(t)
	var logs bytes.Buffer
	d.svc.log = zerolog.New(&logs)
	ctx := context.Background()
	userID := uuid.New()
	txns := makeTransactions(userID, 2, time.Now())

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, errors.New("db down"))
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(txns, nil)

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Nil(t, snap.Wallet)
	assert.Len(t, snap.Transactions, 2)
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "db down")
}

func TestWalletQueryService_GetWalletSnapshot_TransactionsError(t *testing.T) {
	d := setupWalletQueryService(t)
	var logs bytes.Buffer
	d.svc.log = zerolog.New(&logs)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &domain.Wallet{UserID: userID, Balance: decimal.NewFromInt(5), Currency: "TRY"}

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(wallet, nil)
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(nil, errors.New("timeout"))

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, wallet, snap.Wallet)
	assert.NotNil(t, snap.Transactions)
	assert.Empty(t, snap.Transactions)
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestWalletQueryService_GetWalletSnapshot_BothReadsFail(t *testing.T) {
	d := setupWalletQueryService(t)
	ctx := context.Background()
	userID := uuid.New()

	d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, errors.New("db down"))
	d.txRepo.EXPECT().ListRecent(ctx, userID, 10).Return(nil, errors.New("db down"))

	snap, err := d.svc.GetWalletSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Wallet)
	assert.Equal(t, []domain.Transaction{}, snap.Transactions)
}

func TestWalletQueryService_DefaultRecentLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewWalletQueryService(mocks.NewMockWalletRepository(ctrl), mocks.NewMockTransactionRepository(ctrl),
		mocks.NewMockSessionProvider(ctrl), 0, "TRY", newTestLogger())
	assert.Equal(t, 10, svc.recentLimit)
}

func TestWalletQueryService_GetBalance(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		d := setupWalletQueryService(t)
		ctx := context.Background()
		d.sessions.EXPECT().Current(ctx).Return(domain.Unauthenticated())

		bal, err := d.svc.GetBalance(ctx)
		assert.Nil(t, bal)
		assert.Equal(t, apperror.CodeUnauthenticated, apperror.CodeOf(err))
	})

	t.Run("no wallet defaults to zero", func(t *testing.T) {
		d := setupWalletQueryService(t)
		ctx := context.Background()
		userID := uuid.New()
		d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
		d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)

		bal, err := d.svc.GetBalance(ctx)
		require.NoError(t, err)
		assert.True(t, bal.Balance.IsZero())
		assert.Equal(t, "TRY", bal.Currency)
	})

	t.Run("wallet balance", func(t *testing.T) {
		d := setupWalletQueryService(t)
		ctx := context.Background()
		userID := uuid.New()
		d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
		d.walletRepo.EXPECT().GetByUserID(ctx, userID).
			Return(&domain.Wallet{UserID: userID, Balance: decimal.RequireFromString("42.10"), Currency: "USD"}, nil)

		bal, err := d.svc.GetBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, "42.1", bal.Balance.String())
		assert.Equal(t, "USD", bal.Currency)
	})

	t.Run("storage error", func(t *testing.T) {
		d := setupWalletQueryService(t)
		ctx := context.Background()
		userID := uuid.New()
		d.sessions.EXPECT().Current(ctx).Return(domain.Authenticated(userID))
		d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, errors.New("db down"))

		bal, err := d.svc.GetBalance(ctx)
		require.NoError(t, err)
		assert.True(t, bal.Balance.IsZero())
		assert.Equal(t, "TRY", bal.Currency)
	})
}
