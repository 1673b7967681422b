package service

import (
	"context"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SellerOrdersPath is the view invalidated after every successful status change.
const SellerOrdersPath = "/seller/orders"

// OrderStatusServiceImpl implements ports.OrderStatusService.
type OrderStatusServiceImpl struct {
	repo     ports.OrderItemRepository
	sessions ports.SessionProvider
	views    ports.ViewInvalidator
	audit    ports.AuditService
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrderStatusService creates a new order status service.
func NewOrderStatusService(
	repo ports.OrderItemRepository,
	sessions ports.SessionProvider,
	views ports.ViewInvalidator,
	audit ports.AuditService,
	log zerolog.Logger,
) *OrderStatusServiceImpl {
	return &OrderStatusServiceImpl{
		repo:     repo,
		sessions: sessions,
		views:    views,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// UpdateOrderItemStatus moves an order item to newStatus on behalf of its seller.
//
// Preconditions are checked in order and the first failure is returned:
// session present, item exists, caller owns the item. An unknown newStatus
// is only examined after those and fails as an update failure, so callers
// without a session never learn anything about the item or the payload.
func (s *OrderStatusServiceImpl) UpdateOrderItemStatus(ctx context.Context, orderItemID uuid.UUID, newStatus domain.DeliveryStatus) (*domain.OrderItem, error) {
	item, err := s.updateStatus(ctx, orderItemID, newStatus)
	result := "ok"
	if err != nil {
		result = apperror.CodeOf(err)
	}
	metrics.OrderStatusUpdates.WithLabelValues(result).Inc()
	return item, err
}

func (s *OrderStatusServiceImpl) updateStatus(ctx context.Context, orderItemID uuid.UUID, newStatus domain.DeliveryStatus) (*domain.OrderItem, error) {
	sellerID, ok := s.sessions.Current(ctx).Principal()
	if !ok {
		return nil, apperror.ErrUnauthenticated()
	}

	// uuid.Nil stands for an id that did not parse; no row carries it.
	if orderItemID == uuid.Nil {
		return nil, apperror.ErrOrderItemNotFound()
	}

	item, err := s.repo.GetByID(ctx, orderItemID)
	if err != nil {
		s.log.Warn().Err(err).Str("order_item_id", orderItemID.String()).Msg("order item lookup failed")
		return nil, apperror.ErrOrderItemNotFound()
	}
	if item == nil {
		return nil, apperror.ErrOrderItemNotFound()
	}

	if !item.OwnedBy(sellerID) {
		return nil, apperror.ErrForbidden()
	}

	if !newStatus.IsValid() {
		return nil, apperror.ErrStatusRejected()
	}

	// updated_at never moves backwards, even with clock skew between writers.
	updatedAt := s.now().UTC()
	if updatedAt.Before(item.UpdatedAt) {
		updatedAt = item.UpdatedAt
	}

	if err := s.repo.UpdateStatus(ctx, item.ID, newStatus, updatedAt); err != nil {
		s.log.Error().Err(err).Str("order_item_id", item.ID.String()).Msg("order item status update failed")
		return nil, apperror.ErrUpdateFailed(err)
	}

	oldStatus := item.DeliveryStatus
	item.DeliveryStatus = newStatus
	item.UpdatedAt = updatedAt

	if err := s.views.Invalidate(ctx, SellerOrdersPath); err != nil {
		metrics.ViewInvalidationFailures.WithLabelValues(SellerOrdersPath).Inc()
		s.log.Warn().Err(err).Str("path", SellerOrdersPath).Msg("view invalidation failed")
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &sellerID,
		Action:       domain.AuditActionOrderStatusUpdate,
		ResourceType: "order_item",
		ResourceID:   item.ID.String(),
		OldStatus:    string(oldStatus),
		NewStatus:    string(newStatus),
		IPAddress:    domain.ClientIPFromContext(ctx),
		CreatedAt:    updatedAt,
	})

	s.log.Info().
		Str("order_item_id", item.ID.String()).
		Str("seller_id", sellerID.String()).
		Str("from", string(oldStatus)).
		Str("to", string(newStatus)).
		Msg("order item status updated")

	return item, nil
}

// MarkAsProcessing is UpdateOrderItemStatus with the processing status.
func (s *OrderStatusServiceImpl) MarkAsProcessing(ctx context.Context, orderItemID uuid.UUID) (*domain.OrderItem, error) {
	return s.UpdateOrderItemStatus(ctx, orderItemID, domain.DeliveryStatusProcessing)
}

// MarkAsDelivered is UpdateOrderItemStatus with the completed status.
func (s *OrderStatusServiceImpl) MarkAsDelivered(ctx context.Context, orderItemID uuid.UUID) (*domain.OrderItem, error) {
	return s.UpdateOrderItemStatus(ctx, orderItemID, domain.DeliveryStatusCompleted)
}
