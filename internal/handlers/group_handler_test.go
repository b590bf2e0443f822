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

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) Create(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) GetByName(ctx context.Context, name string) (*model.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) List(ctx context.Context) ([]*model.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Group), args.Error(1)
}

func (m *MockGroupService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestGroupHandler_CreateGroup(t *testing.T) {
	t.Run("creates and echoes the group", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("Create", mock.Anything, model.GroupCreateRequest{Name: "Sales"}).
			Return(&model.Group{ID: 1, Name: "Sales"}, nil)

		ctx := setupTestContext("POST", "/api/groups", []byte(`{"group_name":"Sales"}`))
		handler.CreateGroup(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var group model.Group
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &group))
		assert.Equal(t, int64(1), group.ID)
		assert.Equal(t, "Sales", group.Name)
		svc.AssertExpectations(t)
	})

	t.Run("unexpected field is a 400", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		ctx := setupTestContext("POST", "/api/groups", []byte(`{"group_name":"Sales","quota":10}`))
		handler.CreateGroup(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGroupHandler_GetGroup(t *testing.T) {
	t.Run("numeric segment resolves by id", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("GetByID", mock.Anything, int64(7)).Return(&model.Group{ID: 7, Name: "North"}, nil)

		ctx := setupTestContext("GET", "/api/groups/7", nil)
		ctx.SetUserValue("id_or_name", "7")
		handler.GetGroup(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric segment resolves by name", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("GetByName", mock.Anything, "Sales").Return(&model.Group{ID: 1, Name: "Sales"}, nil)

		ctx := setupTestContext("GET", "/api/groups/Sales", nil)
		ctx.SetUserValue("id_or_name", "Sales")
		handler.GetGroup(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp struct {
			Data model.Group `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "Sales", resp.Data.Name)
	})

	t.Run("unknown group", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("GetByName", mock.Anything, "Ghost").Return(nil, repository.ErrGroupNotFound)

		ctx := setupTestContext("GET", "/api/groups/Ghost", nil)
		ctx.SetUserValue("id_or_name", "Ghost")
		handler.GetGroup(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestGroupHandler_DeleteGroup(t *testing.T) {
	t.Run("refuses while users remain", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("GetByID", mock.Anything, int64(1)).Return(&model.Group{ID: 1, Name: "Sales"}, nil)
		svc.On("Delete", mock.Anything, int64(1)).Return(repository.ErrGroupInUse)

		ctx := setupTestContext("DELETE", "/api/groups/1", nil)
		ctx.SetUserValue("id_or_name", "1")
		handler.DeleteGroup(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), "group still has users")
	})

	t.Run("deletes by name", func(t *testing.T) {
		svc := new(MockGroupService)
		handler := NewGroupHandler(svc)

		svc.On("GetByName", mock.Anything, "Sales").Return(&model.Group{ID: 1, Name: "Sales"}, nil)
		svc.On("Delete", mock.Anything, int64(1)).Return(nil)

		ctx := setupTestContext("DELETE", "/api/groups/Sales", nil)
		ctx.SetUserValue("id_or_name", "Sales")
		handler.DeleteGroup(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}
