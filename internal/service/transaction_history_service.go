package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

var rangeDays = map[string]int{
	"7days":  7,
	"30days": 30,
	"90days": 90,
}

// TransactionHistoryServiceImpl implements ports.TransactionHistoryService.
type TransactionHistoryServiceImpl struct {
	txRepo   ports.TransactionRepository
	sessions ports.SessionProvider
	log      zerolog.Logger
	now      func() time.Time
}

// NewTransactionHistoryService creates a new transaction history service.
func NewTransactionHistoryService(
	txRepo ports.TransactionRepository,
	sessions ports.SessionProvider,
	log zerolog.Logger,
) *TransactionHistoryServiceImpl {
	return &TransactionHistoryServiceImpl{
		txRepo:   txRepo,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// ListTransactions returns one filtered page of the signed-in user's history.
func (s *TransactionHistoryServiceImpl) ListTransactions(ctx context.Context, filter ports.TransactionFilter) (*ports.TransactionPage, error) {
	params, err := s.buildParams(ctx, filter)
	if err != nil {
		return nil, err
	}

	params.Page = filter.Page
	if params.Page < 1 {
		params.Page = 1
	}
	params.PageSize = filter.Limit
	switch {
	case params.PageSize <= 0:
		params.PageSize = defaultPageLimit
	case params.PageSize > maxPageLimit:
		params.PageSize = maxPageLimit
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	return &ports.TransactionPage{
		Items:      txns,
		Total:      total,
		Page:       params.Page,
		Limit:      params.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(params.PageSize))),
	}, nil
}

// ExportCSV renders every transaction matching filter (page and limit are
// ignored) as CSV.
func (s *TransactionHistoryServiceImpl) ExportCSV(ctx context.Context, filter ports.TransactionFilter) (string, []byte, error) {
	params, err := s.buildParams(ctx, filter)
	if err != nil {
		return "", nil, err
	}

	txns, _, err := s.txRepo.List(ctx, params)
	if err != nil {
		return "", nil, apperror.InternalError(fmt.Errorf("export transactions: %w", err))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Type", "Amount", "Currency", "Description"}); err != nil {
		return "", nil, apperror.InternalError(err)
	}
	for _, t := range txns {
		record := []string{
			t.CreatedAt.UTC().Format(time.RFC3339),
			string(t.Type),
			t.Amount.StringFixed(2),
			t.Currency,
			t.Description,
		}
		if err := w.Write(record); err != nil {
			return "", nil, apperror.InternalError(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, apperror.InternalError(fmt.Errorf("flush csv: %w", err))
	}

	s.log.Info().Int("rows", len(txns)).Msg("transactions exported")

	filename := fmt.Sprintf("transactions_%s.csv", s.now().UTC().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

// buildParams resolves the session and translates the user-facing filter.
// PageSize is left zero, which disables pagination.
func (s *TransactionHistoryServiceImpl) buildParams(ctx context.Context, filter ports.TransactionFilter) (ports.TransactionListParams, error) {
	userID, ok := s.sessions.Current(ctx).Principal()
	if !ok {
		return ports.TransactionListParams{}, apperror.ErrUnauthenticated()
	}

	params := ports.TransactionListParams{UserID: userID, Search: filter.Search}

	if filter.Type != "" && filter.Type != "all" {
		t := domain.TransactionType(filter.Type)
		if !t.IsValid() {
			return ports.TransactionListParams{}, apperror.Validation("invalid type: must be deposit, purchase, withdrawal, refund or all")
		}
		params.Type = &t
	}

	if filter.Range != "" && filter.Range != "all" {
		days, ok := rangeDays[filter.Range]
		if !ok {
			return ports.TransactionListParams{}, apperror.Validation("invalid range: must be 7days, 30days, 90days or all")
		}
		since := s.now().UTC().AddDate(0, 0, -days)
		params.Since = &since
	}

	return params, nil
}
