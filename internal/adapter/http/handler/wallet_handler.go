package handler

import (
	"marketplace-core/internal/adapter/http/dto"
	"marketplace-core/internal/core/ports"
	"marketplace-core/pkg/apperror"
	"marketplace-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves the signed-in user's wallet.
type WalletHandler struct {
	walletSvc ports.WalletQueryService
	loginPath string
}

// NewWalletHandler creates a new WalletHandler. loginPath is sent as the
// Location of the 401 returned to callers without a session.
func NewWalletHandler(walletSvc ports.WalletQueryService, loginPath string) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, loginPath: loginPath}
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	snapshot, err := h.walletSvc.GetWalletSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if snapshot == nil {
		if h.loginPath != "" {
			c.Header("Location", h.loginPath)
		}
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	response.OK(c, dto.ToWalletSnapshotResponse(snapshot))
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.walletSvc.GetBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletBalanceResponse{
		Balance:  balance.Balance,
		Currency: balance.Currency,
	})
}
