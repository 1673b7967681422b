// Package walletstore keeps the last fetched wallet and transaction list for
// one signed-in session on the client side.
package walletstore

import (
	"context"
	"errors"
	"sync"

	"marketplace-core/internal/core/domain"
)

// ErrClosed is returned by refreshes on a closed Store.
var ErrClosed = errors.New("walletstore: store is closed")

// Source fetches wallet data on behalf of the session that owns the Store.
type Source interface {
	Wallet(ctx context.Context) (*domain.Wallet, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
}

// Store holds the wallet and recent transactions. Each Fetch replaces its
// field wholesale; a fetch that fails or returns nothing leaves the previous
// value in place. Overlapping fetches resolve last-write-wins.
type Store struct {
	source Source

	mu     sync.Mutex
	wallet *domain.Wallet
	txns   []domain.Transaction
	closed bool
}

// New creates a Store for one session.
func New(source Source) *Store {
	return &Store{
		source: source,
		txns:   []domain.Transaction{},
	}
}

// Close disposes of the store. Later fetches return ErrClosed; the last
// values stay readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Wallet returns the last fetched wallet, or nil before the first
// successful fetch.
func (s *Store) Wallet() *domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// Transactions returns the last fetched transactions. Never nil.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// FetchWallet refreshes the wallet from the source.
func (s *Store) FetchWallet(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	w, err := s.source.Wallet(ctx)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.wallet = w
	return nil
}

// FetchTransactions refreshes the transaction list from the source.
func (s *Store) FetchTransactions(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	txns, err := s.source.Transactions(ctx)
	if err != nil {
		return err
	}
	if txns == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.txns = txns
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
