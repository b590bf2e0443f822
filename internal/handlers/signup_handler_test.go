package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/services"
)

type MockSignupService struct {
	mock.Mock
}

func (m *MockSignupService) Lookup(ctx context.Context, token string) (*model.PendingSignup, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingSignup), args.Error(1)
}

func (m *MockSignupService) Complete(ctx context.Context, token, password string) (*model.User, error) {
	args := m.Called(ctx, token, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestSignupHandler_LookupSignup(t *testing.T) {
	t.Run("returns the prefill data for a live token", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		svc.On("Lookup", mock.Anything, "tok-1").Return(&model.PendingSignup{
			Token: "tok-1", GroupID: 1, Email: "a@b.com", FirstName: "A", LastName: "B",
		}, nil)

		ctx := setupTestContext("GET", "/singUp?unique_id=tok-1", nil)
		handler.LookupSignup(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp struct {
			Data model.PendingSignup `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "a@b.com", resp.Data.Email)
	})

	t.Run("used token", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		svc.On("Lookup", mock.Anything, "tok-burned").Return(nil, services.ErrSignupTokenUsed)

		ctx := setupTestContext("GET", "/singUp?unique_id=tok-burned", nil)
		handler.LookupSignup(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), "no longer valid")
	})

	t.Run("missing unique_id", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		ctx := setupTestContext("GET", "/singUp", nil)
		handler.LookupSignup(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})
}

func TestSignupHandler_CompleteSignup(t *testing.T) {
	t.Run("creates the account", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		svc.On("Complete", mock.Anything, "tok-1", "chosen-pass").Return(&model.User{
			ID: 9, GroupID: 1, Email: "a@b.com",
		}, nil)

		ctx := setupTestContext("POST", "/singUp", []byte(`{"unique_id":"tok-1","user_password":"chosen-pass"}`))
		handler.CompleteSignup(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var resp struct {
			Success bool       `json:"success"`
			Data    model.User `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(9), resp.Data.ID)
	})

	t.Run("used token", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		svc.On("Complete", mock.Anything, "tok-burned", "pass").Return(nil, services.ErrSignupTokenUsed)

		ctx := setupTestContext("POST", "/singUp", []byte(`{"unique_id":"tok-burned","user_password":"pass"}`))
		handler.CompleteSignup(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("extra field is a 400", func(t *testing.T) {
		svc := new(MockSignupService)
		handler := NewSignupHandler(svc)

		ctx := setupTestContext("POST", "/singUp", []byte(`{"unique_id":"tok-1","user_password":"p","group_id":99}`))
		handler.CompleteSignup(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})
}
