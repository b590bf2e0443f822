package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/services"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) Create(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockSaleService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockSaleService) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	args := m.Called(ctx, id, values)
	return args.Error(0)
}

func (m *MockSaleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleService) StatusReport(ctx context.Context) ([]*model.PendingSale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingSale), args.Error(1)
}

func (m *MockSaleService) MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SaleRecord), args.Error(1)
}

func (m *MockSaleService) MonthlySummary(ctx context.Context, userEmail string, anyDay time.Time) (*model.MonthlySummary, error) {
	args := m.Called(ctx, userEmail, anyDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MonthlySummary), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func testVerifier(t *testing.T) (*services.TokenManager, string) {
	t.Helper()
	tokens := services.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(&model.User{ID: 5, Email: "seller@example.com"})
	require.NoError(t, err)
	return tokens, token
}

type tokenVerifierAdapter struct {
	tokens *services.TokenManager
}

func (a tokenVerifierAdapter) Verify(token string) (*services.Claims, error) {
	return a.tokens.Validate(token)
}

func TestTransactionHandler_CreateSale(t *testing.T) {
	tokens, token := testVerifier(t)
	verifier := tokenVerifierAdapter{tokens}

	saleBody := map[string]any{
		"client_id":  "204511378",
		"first_name": "dana",
		"last_name":  "cohen",
		"tracks": map[string][]map[string]string{
			"1": {{"sim_num": "sim-1", "phone_num": "0521000001"}},
			"2": {{"sim_num": "sim-2", "phone_num": "0521000002"}},
		},
	}

	t.Run("seller comes from the token", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.SaleCreateRequest) bool {
			return p.UserEmail == "seller@example.com" && p.Cart.Lines() == 2
		})).Return([]*model.Transaction{
			{ID: 1, ClientID: "204511378", DateTime: now, Status: model.StatusNew},
			{ID: 2, ClientID: "204511378", DateTime: now, Status: model.StatusNew},
		}, nil)

		body, _ := json.Marshal(saleBody)
		ctx := setupTestContext("POST", "/api/transactions", body)
		ctx.Request.Header.Set(AuthHeader, token)

		RequireAuth(verifier, handler.CreateSale)(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var resp struct {
			Data []transactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "2025-03-01 10:00:00", resp.Data[0].DateTime)

		svc.AssertExpectations(t)
	})

	t.Run("missing token is a 403", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		body, _ := json.Marshal(saleBody)
		ctx := setupTestContext("POST", "/api/transactions", body)

		RequireAuth(verifier, handler.CreateSale)(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("garbage token is a 403", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		body, _ := json.Marshal(saleBody)
		ctx := setupTestContext("POST", "/api/transactions", body)
		ctx.Request.Header.Set(AuthHeader, "not-a-jwt")

		RequireAuth(verifier, handler.CreateSale)(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
	})

	t.Run("field outside the allow-list is a 400", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		bad := map[string]any{
			"client_id":  "204511378",
			"first_name": "dana",
			"last_name":  "cohen",
			"user_email": "spoofed@example.com",
			"tracks":     map[string][]map[string]string{},
		}
		body, _ := json.Marshal(bad)
		ctx := setupTestContext("POST", "/api/transactions", body)
		ctx.Request.Header.Set(AuthHeader, token)

		RequireAuth(verifier, handler.CreateSale)(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_PendingReport(t *testing.T) {
	svc := new(MockSaleService)
	handler := NewTransactionHandler(svc)

	svc.On("StatusReport", mock.Anything).Return([]*model.PendingSale{
		{
			TransactionID: 7,
			DateTime:      time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
			UserEmail:     "seller@example.com",
			ClientID:      "204511378",
			TrackName:     "unlimited",
			PaymentKind:   "credit_card",
		},
	}, nil)

	ctx := setupTestContext("GET", "/api/transactions/pending", nil)
	handler.PendingReport(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp struct {
		Data []pendingSaleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2025-03-01 09:30:00", resp.Data[0].DateTime)
	assert.Equal(t, "credit_card", resp.Data[0].PaymentKind)
}

func TestTransactionHandler_MonthlySummary(t *testing.T) {
	tokens, token := testVerifier(t)
	verifier := tokenVerifierAdapter{tokens}

	t.Run("explicit month", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		svc.On("MonthlySummary", mock.Anything, "seller@example.com",
			time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)).
			Return(&model.MonthlySummary{Success: 3, Fail: 1, Waiting: 2}, nil)

		ctx := setupTestContext("GET", "/api/transactions_by_user?month=2025-02", nil)
		ctx.Request.Header.Set(AuthHeader, token)

		RequireAuth(verifier, handler.MonthlySummary)(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp struct {
			Data model.MonthlySummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(3), resp.Data.Success)
		assert.Equal(t, int64(2), resp.Data.Waiting)
	})

	t.Run("bad month format", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/transactions_by_user?month=02-2025", nil)
		ctx.Request.Header.Set(AuthHeader, token)

		RequireAuth(verifier, handler.MonthlySummary)(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestTransactionHandler_MySales(t *testing.T) {
	tokens, token := testVerifier(t)
	verifier := tokenVerifierAdapter{tokens}

	svc := new(MockSaleService)
	handler := NewTransactionHandler(svc)

	svc.On("MySales", mock.Anything, "seller@example.com").Return([]*model.SaleRecord{
		{TransactionID: 1, TrackName: "unlimited", Status: model.StatusSuccess,
			DateTime: time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)},
	}, nil)

	ctx := setupTestContext("GET", "/api/my_sale", nil)
	ctx.Request.Header.Set(AuthHeader, token)

	RequireAuth(verifier, handler.MySales)(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp struct {
		Data []saleRecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "unlimited", resp.Data[0].TrackName)
}

func TestTransactionHandler_UpdateStatus(t *testing.T) {
	t.Run("valid status", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		svc.On("Update", mock.Anything, int64(4),
			map[string]interface{}{"status": float64(model.StatusSuccess)}).Return(nil)

		ctx := setupTestContext("PUT", "/api/transactions/4", []byte(`{"status":1}`))
		ctx.SetUserValue("id", "4")
		handler.UpdateTransaction(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("out of range status", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("PUT", "/api/transactions/4", []byte(`{"status":9}`))
		ctx.SetUserValue("id", "4")
		handler.UpdateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("field outside allow-list", func(t *testing.T) {
		svc := new(MockSaleService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("PUT", "/api/transactions/4", []byte(`{"user_email":"x@y.com"}`))
		ctx.SetUserValue("id", "4")
		handler.UpdateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}
