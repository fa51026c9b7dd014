package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/middleware"
	"github.com/gin-gonic/gin"
)

// TransferOperations defines the service operations used by
// TransferHandler.
type TransferOperations interface {
	Transfer(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error)
	ListTransfers(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error)
}

type TransferHandler struct {
	transfers TransferOperations
}

func NewTransferHandler(transfers TransferOperations) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type CreateTransferRequest struct {
	FromAccount string  `json:"fromAccount" validate:"required"`
	ToAccount   string  `json:"toAccount" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Reference   string  `json:"reference"`
}

type ListTransfersResponse struct {
	Transfers []model.Transfer `json:"transfers"`
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transfer, err := h.transfers.Transfer(c.Request.Context(), userID, req.FromAccount, req.ToAccount, req.Amount, req.Reference)
	if err != nil {
		// recording the error marks the request transaction for rollback
		_ = c.Error(err)
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only transfer from your own accounts")
		case "insufficient funds":
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
		case "currency mismatch":
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Accounts use different currencies")
		case "cannot transfer to the same account", "amount must be greater than zero":
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transfer")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transfer")
		}
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) ListTransfers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	accountNumber := c.Param("accountNumber")

	transfers, err := h.transfers.ListTransfers(c.Request.Context(), userID, accountNumber)
	if err != nil {
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only view transfers on your own accounts")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transfers")
		}
		return
	}
	c.JSON(http.StatusOK, ListTransfersResponse{Transfers: transfers})
}
