package service

import (
	"context"
	"sort"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultRecentLimit = 10

// WalletQueryServiceImpl implements ports.WalletQueryService.
type WalletQueryServiceImpl struct {
	walletRepo      ports.WalletRepository
	txRepo          ports.TransactionRepository
	sessions        ports.SessionProvider
	recentLimit     int
	defaultCurrency string
	log             zerolog.Logger
}

// NewWalletQueryService creates a new wallet query service.
func NewWalletQueryService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	sessions ports.SessionProvider,
	recentLimit int,
	defaultCurrency string,
	log zerolog.Logger,
) *WalletQueryServiceImpl {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &WalletQueryServiceImpl{
		walletRepo:      walletRepo,
		txRepo:          txRepo,
		sessions:        sessions,
		recentLimit:     recentLimit,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// GetWalletSnapshot returns the signed-in user's wallet and latest transactions.
// It returns nil, nil when the request has no session. Storage errors are
// logged and read as "no data": a nil wallet or an empty transaction list.
func (s *WalletQueryServiceImpl) GetWalletSnapshot(ctx context.Context) (*ports.WalletSnapshot, error) {
	userID, ok := s.sessions.Current(ctx).Principal()
	if !ok {
		return nil, nil
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("wallet read failed, showing no wallet")
		wallet = nil
	case wallet == nil:
		s.log.Debug().Str("user_id", userID.String()).Msg("user has no wallet row")
	}

	txns, err := s.txRepo.ListRecent(ctx, userID, s.recentLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("recent transactions read failed, showing none")
		txns = nil
	}

	// Newest first regardless of what storage returned.
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	if len(txns) > s.recentLimit {
		txns = txns[:s.recentLimit]
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	return &ports.WalletSnapshot{Wallet: wallet, Transactions: txns}, nil
}

// GetBalance returns the balance shown in the header. Users without a wallet
// row, or whose wallet could not be read, see zero in the default currency.
func (s *WalletQueryServiceImpl) GetBalance(ctx context.Context) (*ports.WalletBalance, error) {
	userID, ok := s.sessions.Current(ctx).Principal()
	if !ok {
		return nil, apperror.ErrUnauthenticated()
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("wallet read failed, showing zero balance")
		wallet = nil
	}
	if wallet == nil {
		return &ports.WalletBalance{Balance: decimal.Zero, Currency: s.defaultCurrency}, nil
	}
	return &ports.WalletBalance{Balance: wallet.Balance, Currency: wallet.Currency}, nil
}
