package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	"github.com/yakirz/sales-gateway/internal/services"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type UserService interface {
	Create(ctx context.Context, p model.UserCreateRequest) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, f model.UserFilter) ([]*model.User, error)
	Update(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type InviteService interface {
	Invite(ctx context.Context, p model.InviteRequest) (*model.PendingSignup, error)
}

// UserHandler serves the salesperson roster. A create body carrying a
// password makes the account directly; without one it opens a pending
// signup and mails an invite link, the invitee picks a password at
// /singUp.
type UserHandler struct {
	svc     UserService
	invites InviteService
}

func RegisterUserRoutes(e *router.Group, h *UserHandler) {
	e.GET("/users", h.ListUsers)
	e.POST("/users", h.CreateUser)
	e.GET("/users/{id}", h.GetUser)
	e.PUT("/users/{id}", h.UpdateUser)
	e.DELETE("/users/{id}", h.DeleteUser)
}

func NewUserHandler(svc UserService, invites InviteService) *UserHandler {
	return &UserHandler{svc: svc, invites: invites}
}

type createUserRequest struct {
	GroupID   int64  `json:"group_id"`
	Email     string `json:"user_email"`
	Password  string `json:"user_password"`
	FirstName string `json:"user_first_name"`
	LastName  string `json:"user_last_name"`
	Phone     string `json:"user_phone"`
}

func (h *UserHandler) CreateUser(ctx *xhttp.RequestCtx) {
	var req createUserRequest
	if err := readJSONAllowed(ctx, &req, allowedUserFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Password == "" {
		pending, err := h.invites.Invite(ctx, model.InviteRequest{
			GroupID:   req.GroupID,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		writeJSON(ctx, xhttp.StatusCreated, map[string]any{
			"success":   true,
			"unique_id": pending.Token,
		})
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	user, err := h.svc.Create(ctx, model.UserCreateRequest{
		GroupID:   req.GroupID,
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeError(ctx, xhttp.StatusBadRequest, "email already registered")
			return
		}
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, map[string]any{
		"success": true,
		"data":    user,
	})
}

func (h *UserHandler) ListUsers(ctx *xhttp.RequestCtx) {
	var f model.UserFilter
	if v := query(ctx, "group_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.GroupID = &id
		}
	}

	users, err := h.svc.List(ctx, f)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": users})
}

func (h *UserHandler) GetUser(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "user not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": user})
}

func (h *UserHandler) UpdateUser(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid user id")
		return
	}

	values, err := updateValues(ctx, allowedUserUpdateFields)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Update(ctx, id, values); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "user not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}

func (h *UserHandler) DeleteUser(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "user not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}
