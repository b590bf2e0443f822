package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, p model.UserCreateRequest) (*model.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, f model.UserFilter) ([]*model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	args := m.Called(ctx, id, values)
	return args.Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Invite(ctx context.Context, p model.InviteRequest) (*model.PendingSignup, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingSignup), args.Error(1)
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("body with password creates the account directly", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.UserCreateRequest) bool {
			// the stored password must already be hashed
			return p.Email == "a@b.com" && p.Password != "x" && p.Password != ""
		})).Return(&model.User{ID: 1, GroupID: 1, Email: "a@b.com", FirstName: "a", LastName: "b"}, nil)

		body := []byte(`{"group_id":1,"user_email":"a@b.com","user_password":"x","user_first_name":"A","user_last_name":"B"}`)
		ctx := setupTestContext("POST", "/api/users", body)
		handler.CreateUser(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("body without password opens an invite", func(t *testing.T) {
		invites := new(MockInviteService)
		handler := NewUserHandler(new(MockUserService), invites)

		invites.On("Invite", mock.Anything, model.InviteRequest{
			GroupID: 1, Email: "a@b.com", FirstName: "A", LastName: "B",
		}).Return(&model.PendingSignup{Token: "tok-1", Email: "a@b.com"}, nil)

		body := []byte(`{"group_id":1,"user_email":"a@b.com","user_first_name":"A","user_last_name":"B"}`)
		ctx := setupTestContext("POST", "/api/users", body)
		handler.CreateUser(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "tok-1", resp["unique_id"])
		invites.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrEmailTaken)

		body := []byte(`{"group_id":1,"user_email":"a@b.com","user_password":"x","user_first_name":"A","user_last_name":"B"}`)
		ctx := setupTestContext("POST", "/api/users", body)
		handler.CreateUser(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unexpected field is a 400", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		body := []byte(`{"group_id":1,"user_email":"a@b.com","is_admin":true}`)
		ctx := setupTestContext("POST", "/api/users", body)
		handler.CreateUser(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserHandler_ListUsers_HidesPassword(t *testing.T) {
	svc := new(MockUserService)
	handler := NewUserHandler(svc, new(MockInviteService))

	svc.On("List", mock.Anything, model.UserFilter{}).Return([]*model.User{
		{ID: 1, GroupID: 1, Email: "a@b.com", Password: "$2a$10$secret", FirstName: "A", LastName: "B"},
	}, nil)

	ctx := setupTestContext("GET", "/api/users", nil)
	handler.ListUsers(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "a@b.com", resp.Data[0]["user_email"])
	assert.NotContains(t, resp.Data[0], "user_password")
	assert.NotContains(t, string(ctx.Response.Body()), "secret")
}

func TestUserHandler_GetUpdateDelete(t *testing.T) {
	t.Run("unknown user id", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		svc.On("GetByID", mock.Anything, int64(42)).Return(nil, repository.ErrUserNotFound)

		ctx := setupTestContext("GET", "/api/users/42", nil)
		ctx.SetUserValue("id", "42")
		handler.GetUser(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("update cannot touch the password", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		ctx := setupTestContext("PUT", "/api/users/1", []byte(`{"user_password":"pwned"}`))
		ctx.SetUserValue("id", "1")
		handler.UpdateUser(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockUserService)
		handler := NewUserHandler(svc, new(MockInviteService))

		svc.On("Delete", mock.Anything, int64(3)).Return(nil)

		ctx := setupTestContext("DELETE", "/api/users/3", nil)
		ctx.SetUserValue("id", "3")
		handler.DeleteUser(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}
