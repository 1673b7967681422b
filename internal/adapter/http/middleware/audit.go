package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"marketplace-core/internal/core/domain"
	"marketplace-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditDenied records refused order status changes (401/403) so attempts to
// touch another seller's items leave a trail. Successful changes are audited
// by the order status service itself.
func AuditDenied(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status != http.StatusUnauthorized && status != http.StatusForbidden {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}
		if !strings.HasPrefix(c.FullPath(), "/api/v1/seller/order-items/") {
			return
		}

		var actorID *uuid.UUID
		if id, ok := domain.SessionFromContext(c.Request.Context()).Principal(); ok {
			actorID = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       domain.AuditActionOrderStatusDenied,
			ResourceType: "order_item",
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}
