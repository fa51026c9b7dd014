package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockTransferOps struct {
	transferFn func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error)
	listFn     func(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error)
}

func (m *mockTransferOps) Transfer(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
	if m.transferFn != nil {
		return m.transferFn(ctx, userID, from, to, amount, reference)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferOps) ListTransfers(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, accountNumber)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newTransferTestRouter(ops TransferOperations, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewTransferHandler(ops)
	r.POST("/v1/transfers", h.CreateTransfer)
	r.GET("/v1/accounts/:accountNumber/transfers", h.ListTransfers)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransfer = &model.Transfer{
	ID: "trf-001", FromAccount: "01000001", ToAccount: "01000002", UserID: "usr-001",
	Amount: 50.00, Currency: "GBP", CreatedAt: time.Now(),
}

func transferBody() map[string]interface{} {
	return map[string]interface{}{
		"fromAccount": "01000001", "toAccount": "01000002",
		"amount": 50.0, "reference": "Rent",
	}
}

// ---- tests ----

func TestCreateTransfer(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		transferFn     func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error)
		expectedStatus int
	}{
		{
			name: "success - transfer between accounts",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return testTransfer, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable entity - insufficient funds",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return nil, fmt.Errorf("insufficient funds")
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unprocessable entity - currency mismatch",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return nil, fmt.Errorf("currency mismatch")
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "forbidden - transfer from another user's account",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return nil, fmt.Errorf("forbidden")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return nil, fmt.Errorf("account not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "bad request - same source and destination",
			body: transferBody(),
			transferFn: func(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
				return nil, fmt.Errorf("cannot transfer to the same account")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{},
			transferFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - amount is zero",
			body:           map[string]interface{}{"fromAccount": "01000001", "toAccount": "01000002", "amount": 0},
			transferFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransferTestRouter(&mockTransferOps{transferFn: tt.transferFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/transfers", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransfers(t *testing.T) {
	tests := []struct {
		name           string
		accountNum     string
		listFn         func(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error)
		expectedStatus int
	}{
		{
			name:       "success - list transfers on own account",
			accountNum: "01000001",
			listFn: func(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error) {
				return []model.Transfer{*testTransfer}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "forbidden - list transfers on another user's account",
			accountNum: "01999999",
			listFn: func(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error) {
				return nil, fmt.Errorf("forbidden")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:       "not found - account does not exist",
			accountNum: "01000000",
			listFn: func(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error) {
				return nil, fmt.Errorf("account not found")
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransferTestRouter(&mockTransferOps{listFn: tt.listFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/v1/accounts/"+tt.accountNum+"/transfers", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
