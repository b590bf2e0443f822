package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/services"
	"github.com/yakirz/sales-gateway/internal/session"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, email, password string) (string, *model.Admin, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.Admin), args.Error(2)
}

func (m *MockAuthService) AdminSession(sessionID string) (*session.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockAuthService) AdminLogout(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

type MockGroupNamer struct {
	mock.Mock
}

func (m *MockGroupNamer) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func TestAuthHandler_Authenticate(t *testing.T) {
	t.Run("good credentials carry the token and the group name", func(t *testing.T) {
		svc := new(MockAuthService)
		groups := new(MockGroupNamer)
		handler := NewAuthHandler(svc, groups, time.Hour)

		svc.On("Login", mock.Anything, "seller@example.com", "pass123").Return("tok-abc", &model.User{
			ID: 5, GroupID: 2, Email: "seller@example.com", FirstName: "Dana", LastName: "Levi",
		}, nil)
		groups.On("GetByID", mock.Anything, int64(2)).Return(&model.Group{ID: 2, Name: "North"}, nil)

		ctx := setupTestContext("POST", "/api/auth", []byte(`{"email":"seller@example.com","password":"pass123"}`))
		handler.Authenticate(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp struct {
			Auth        bool   `json:"auth"`
			AccessToken string `json:"access_token"`
			Data        map[string]any
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.True(t, resp.Auth)
		assert.Equal(t, "tok-abc", resp.AccessToken)
		// the group_id key carries the group name, not the id
		assert.Equal(t, "North", resp.Data["group_id"])
		assert.Equal(t, "seller@example.com", resp.Data["user_email"])
		assert.NotContains(t, resp.Data, "user_password")
	})

	t.Run("bad credentials answer auth false, not an error", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

		svc.On("Login", mock.Anything, "seller@example.com", "wrong").
			Return("", nil, services.ErrInvalidCredentials)

		ctx := setupTestContext("POST", "/api/auth", []byte(`{"email":"seller@example.com","password":"wrong"}`))
		handler.Authenticate(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"auth":false}`, string(ctx.Response.Body()))
	})

	t.Run("unexpected field is a 400", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

		ctx := setupTestContext("POST", "/api/auth", []byte(`{"email":"a@b.com","password":"x","remember_me":true}`))
		handler.Authenticate(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	svc := new(MockAuthService)
	handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

	svc.On("AdminLogin", mock.Anything, "root@example.com", "adminpass").
		Return("sess-1", &model.Admin{ID: 1, Email: "root@example.com", Permissions: model.AdminPermissionFull}, nil)

	ctx := setupTestContext("POST", "/api/admin/login", []byte(`{"email":"root@example.com","password":"adminpass"}`))
	handler.AdminLogin(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp struct {
		Auth        bool `json:"auth"`
		Permissions int  `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Auth)
	assert.Equal(t, model.AdminPermissionFull, resp.Permissions)

	setCookie := string(ctx.Response.Header.PeekCookie(session.CookieName))
	assert.Contains(t, setCookie, "sess-1")
	assert.Contains(t, setCookie, "HttpOnly")
}

func TestAuthHandler_RequireAdmin(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService), new(MockGroupNamer), time.Hour)

		called := false
		ctx := setupTestContext("GET", "/api/admin/report", nil)
		handler.RequireAdmin(func(_ *xhttp.RequestCtx) { called = true })(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("dead session", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

		svc.On("AdminSession", "sess-dead").Return(nil, session.ErrNotFound)

		called := false
		ctx := setupTestContext("GET", "/api/admin/report", nil)
		ctx.Request.Header.SetCookie(session.CookieName, "sess-dead")
		handler.RequireAdmin(func(_ *xhttp.RequestCtx) { called = true })(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("live session reaches the handler", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

		svc.On("AdminSession", "sess-1").Return(&session.Session{AdminID: 1, Email: "root@example.com"}, nil)

		called := false
		ctx := setupTestContext("GET", "/api/admin/report", nil)
		ctx.Request.Header.SetCookie(session.CookieName, "sess-1")
		handler.RequireAdmin(func(_ *xhttp.RequestCtx) { called = true })(ctx)

		assert.True(t, called)
	})
}

func TestAuthHandler_AdminLogout(t *testing.T) {
	svc := new(MockAuthService)
	handler := NewAuthHandler(svc, new(MockGroupNamer), time.Hour)

	svc.On("AdminLogout", "sess-1").Return(nil)

	ctx := setupTestContext("POST", "/api/admin/logout", nil)
	ctx.Request.Header.SetCookie(session.CookieName, "sess-1")
	handler.AdminLogout(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}
