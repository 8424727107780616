package handlers

import (
	"messpay/internal/core/domain"
	"messpay/internal/core/services"
	"messpay/internal/pkg/pagination"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler handles token wallet endpoints
type WalletHandler struct {
	walletService services.WalletLedger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService services.WalletLedger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// CreditRequest represents credit request body
type CreditRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// TransferRequest represents transfer request body
type TransferRequest struct {
	ToUserID   string `json:"toUserId"`
	ToUserName string `json:"toUserName"`
	Amount     int64  `json:"amount"`
}

// GetWallet handles reloading the wallet
// @Summary Get wallet
// @Description Reload the wallet of the logged-in user from the store
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to get wallet")
	}

	wallet, err := h.walletService.Refresh(c.Context(), sess)
	if err != nil {
		return writeError(c, err, "Failed to get wallet")
	}

	return response.Success(c, "Wallet retrieved successfully", wallet)
}

// ListTransactions handles paginated transaction history
// @Summary Transaction history
// @Description Paginated transactions, newest first
// @Tags Wallet
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param type query string false "credit, debit, transfer-sent or transfer-received"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to list transactions")
	}

	typ := domain.TransactionType(c.Query("type"))
	switch typ {
	case "", domain.TxCredit, domain.TxDebit, domain.TxTransferSent, domain.TxTransferReceived:
	default:
		return response.BadRequest(c, "Invalid transaction type")
	}

	txs, err := h.walletService.Transactions(c.Context(), sess, typ)
	if err != nil {
		return writeError(c, err, "Failed to list transactions")
	}

	params := pagination.GetParams(c)
	page := pagination.Slice(txs, params)

	return response.Success(c, "Transactions retrieved successfully",
		pagination.NewResponse(page, params, int64(len(txs))))
}

// Credit handles adding tokens
// @Summary Credit tokens
// @Description Add tokens to the wallet of the logged-in user
// @Tags Wallet
// @Accept json
// @Produce json
// @Param body body CreditRequest true "Credit data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /wallet/credit [post]
func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to credit tokens")
	}

	var req CreditRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Description == "" {
		req.Description = "Token top-up"
	}

	if err := h.walletService.Credit(c.Context(), sess, req.Amount, req.Description); err != nil {
		return writeError(c, err, "Failed to credit tokens")
	}

	return response.Success(c, "Tokens credited successfully", sess.Wallet())
}

// Transfer handles sending tokens to another user
// @Summary Transfer tokens
// @Description Send tokens to another user; only the sender side is recorded
// @Tags Wallet
// @Accept json
// @Produce json
// @Param body body TransferRequest true "Transfer data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /wallet/transfer [post]
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to transfer tokens")
	}

	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ok, err := h.walletService.Transfer(c.Context(), sess, req.ToUserID, req.ToUserName, req.Amount)
	if err != nil {
		return writeError(c, err, "Failed to transfer tokens")
	}
	if !ok {
		return response.Rejected(c, string(domain.RejectInsufficientBalance), "Insufficient token balance")
	}

	return response.Success(c, "Tokens transferred successfully", sess.Wallet())
}
