package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/middleware"
	"github.com/gin-gonic/gin"
)

// AccountOperations defines the service operations used by AccountHandler.
type AccountOperations interface {
	OpenAccount(ctx context.Context, userID, name, currency string) (*model.Account, error)
	GetAccount(ctx context.Context, userID, accountNumber string) (*model.Account, error)
}

type AccountHandler struct {
	accounts AccountOperations
}

func NewAccountHandler(accounts AccountOperations) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type OpenAccountRequest struct {
	Name     string `json:"name" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,oneof=GBP EUR USD"`
}

func (h *AccountHandler) OpenAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.accounts.OpenAccount(c.Request.Context(), userID, req.Name, req.Currency)
	if err != nil {
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to open account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	accountNumber := c.Param("accountNumber")

	account, err := h.accounts.GetAccount(c.Request.Context(), userID, accountNumber)
	if err != nil {
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only view your own accounts")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		}
		return
	}
	c.JSON(http.StatusOK, account)
}
