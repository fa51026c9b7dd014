package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/middleware"
	"github.com/gin-gonic/gin"
)

// UserOperations defines the service operations used by UserHandler.
type UserOperations interface {
	CreateUser(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type UserHandler struct {
	users UserOperations
}

func NewUserHandler(users UserOperations) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// recording the error marks the request transaction for rollback
		_ = c.Error(err)
		switch err.Error() {
		case "email already registered":
			middleware.RespondWithError(c, http.StatusConflict, "Email already registered")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err.Error() {
		case "invalid credentials":
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}
