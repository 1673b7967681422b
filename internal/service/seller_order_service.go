package service

import (
	"context"
	"fmt"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/metrics"

	"github.com/rs/zerolog"
)

// SellerOrderServiceImpl implements ports.SellerOrderService with a
// read-through view cache in front of the order item repository.
type SellerOrderServiceImpl struct {
	repo     ports.OrderItemRepository
	sessions ports.SessionProvider
	cache    ports.ViewCache
	log      zerolog.Logger
}

// NewSellerOrderService creates a new seller order service. cache may be nil.
func NewSellerOrderService(
	repo ports.OrderItemRepository,
	sessions ports.SessionProvider,
	cache ports.ViewCache,
	log zerolog.Logger,
) *SellerOrderServiceImpl {
	return &SellerOrderServiceImpl{repo: repo, sessions: sessions, cache: cache, log: log}
}

// ListSellerOrders returns the signed-in seller's order items, newest first.
func (s *SellerOrderServiceImpl) ListSellerOrders(ctx context.Context, status *domain.DeliveryStatus) ([]domain.OrderItem, error) {
	sellerID, ok := s.sessions.Current(ctx).Principal()
	if !ok {
		return nil, apperror.ErrUnauthenticated()
	}
	if status != nil && !status.IsValid() {
		return nil, apperror.ErrInvalidStatus()
	}

	variant := sellerID.String() + ":all"
	if status != nil {
		variant = sellerID.String() + ":" + string(*status)
	}

	// version pins the cache fill to the view as it was before the database
	// read; an Invalidate racing the read retires it.
	var version int64
	cacheable := s.cache != nil
	if cacheable {
		var cached []domain.OrderItem
		v, hit, err := s.cache.Get(ctx, SellerOrdersPath, variant, &cached)
		version = v
		switch {
		case err != nil:
			cacheable = false
			metrics.ViewCacheLookups.WithLabelValues(SellerOrdersPath, "error").Inc()
			s.log.Warn().Err(err).Str("variant", variant).Msg("view cache read failed, reading from database")
		case hit:
			metrics.ViewCacheLookups.WithLabelValues(SellerOrdersPath, "hit").Inc()
			if cached == nil {
				cached = []domain.OrderItem{}
			}
			return cached, nil
		default:
			metrics.ViewCacheLookups.WithLabelValues(SellerOrdersPath, "miss").Inc()
		}
	}

	items, err := s.repo.ListBySeller(ctx, sellerID, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list seller orders: %w", err))
	}
	if items == nil {
		items = []domain.OrderItem{}
	}

	if cacheable {
		if err := s.cache.Set(ctx, SellerOrdersPath, variant, version, items); err != nil {
			s.log.Warn().Err(err).Str("variant", variant).Msg("failed to populate view cache")
		}
	}
	return items, nil
}
