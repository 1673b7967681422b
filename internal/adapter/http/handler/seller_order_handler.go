package handler

import (
	"context"

	"marketplace-core/internal/adapter/http/dto"
	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SellerOrderHandler serves the seller dashboard: the orders listing and
// delivery status actions.
type SellerOrderHandler struct {
	orderSvc  ports.SellerOrderService
	statusSvc ports.OrderStatusService
}

// NewSellerOrderHandler creates a new SellerOrderHandler.
func NewSellerOrderHandler(orderSvc ports.SellerOrderService, statusSvc ports.OrderStatusService) *SellerOrderHandler {
	return &SellerOrderHandler{orderSvc: orderSvc, statusSvc: statusSvc}
}

// List handles GET /api/v1/seller/orders.
func (h *SellerOrderHandler) List(c *gin.Context) {
	var q dto.SellerOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var status *domain.DeliveryStatus
	if q.Status != "" {
		s := domain.DeliveryStatus(q.Status)
		status = &s
	}

	items, err := h.orderSvc.ListSellerOrders(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SellerOrdersResponse{Items: make([]dto.OrderItemResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, dto.ToOrderItemResponse(&items[i]))
	}
	response.OK(c, resp)
}

// UpdateStatus handles PATCH /api/v1/seller/order-items/:id/status.
//
// Neither the id nor the body is rejected here: the service checks the
// session before anything about the request is reported back.
func (h *SellerOrderHandler) UpdateStatus(c *gin.Context) {
	id := parseOrderItemID(c)

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An unreadable body is an empty status, rejected after ownership.
		req.Status = ""
	}

	h.respond(c, func(ctx context.Context) (*domain.OrderItem, error) {
		return h.statusSvc.UpdateOrderItemStatus(ctx, id, domain.DeliveryStatus(req.Status))
	})
}

// MarkProcessing handles POST /api/v1/seller/order-items/:id/processing.
func (h *SellerOrderHandler) MarkProcessing(c *gin.Context) {
	id := parseOrderItemID(c)
	h.respond(c, func(ctx context.Context) (*domain.OrderItem, error) {
		return h.statusSvc.MarkAsProcessing(ctx, id)
	})
}

// MarkDelivered handles POST /api/v1/seller/order-items/:id/deliver.
func (h *SellerOrderHandler) MarkDelivered(c *gin.Context) {
	id := parseOrderItemID(c)
	h.respond(c, func(ctx context.Context) (*domain.OrderItem, error) {
		return h.statusSvc.MarkAsDelivered(ctx, id)
	})
}

func (h *SellerOrderHandler) respond(c *gin.Context, update func(context.Context) (*domain.OrderItem, error)) {
	item, err := update(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToOrderItemResponse(item))
}

// parseOrderItemID returns uuid.Nil for an id that does not parse, which the
// service reports as not found once the session is checked.
func parseOrderItemID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
