package handler

import (
	"marketplace-core/internal/adapter/http/dto"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves the filtered transaction history.
type TransactionHandler struct {
	historySvc ports.TransactionHistoryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(historySvc ports.TransactionHistoryService) *TransactionHandler {
	return &TransactionHandler{historySvc: historySvc}
}

func bindTransactionFilter(c *gin.Context) (ports.TransactionFilter, error) {
	var q dto.TransactionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return ports.TransactionFilter{}, apperror.Validation(err.Error())
	}
	dto.TrimStruct(&q)

	return ports.TransactionFilter{
		Type:   q.Type,
		Range:  q.Range,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	}, nil
}

// List handles GET /api/v1/wallet/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	filter, err := bindTransactionFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.historySvc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransactionListResponse{
		Items:      dto.ToTransactionResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Export handles GET /api/v1/wallet/transactions/export.
func (h *TransactionHandler) Export(c *gin.Context) {
	filter, err := bindTransactionFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename, content, err := h.historySvc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CSV(c, filename, content)
}
