package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type GroupService interface {
	Create(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error)
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetByName(ctx context.Context, name string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	Delete(ctx context.Context, id int64) error
}

type GroupHandler struct {
	svc GroupService
}

func RegisterGroupRoutes(e *router.Group, h *GroupHandler) {
	e.GET("/groups", h.ListGroups)
	e.POST("/groups", h.CreateGroup)
	e.GET("/groups/{id_or_name}", h.GetGroup)
	e.DELETE("/groups/{id_or_name}", h.DeleteGroup)
}

func NewGroupHandler(svc GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type createGroupRequest struct {
	Name string `json:"group_name"`
}

func (h *GroupHandler) CreateGroup(ctx *xhttp.RequestCtx) {
	var req createGroupRequest
	if err := readJSONAllowed(ctx, &req, allowedGroupFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	group, err := h.svc.Create(ctx, model.GroupCreateRequest{Name: req.Name})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, group)
}

func (h *GroupHandler) ListGroups(ctx *xhttp.RequestCtx) {
	groups, err := h.svc.List(ctx)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": groups})
}

// resolveGroup treats a numeric path segment as an id and anything else
// as a group name.
func (h *GroupHandler) resolveGroup(ctx *xhttp.RequestCtx) (*model.Group, error) {
	idOrName := pathParam(ctx, "id_or_name")
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		return h.svc.GetByID(ctx, id)
	}
	return h.svc.GetByName(ctx, idOrName)
}

func (h *GroupHandler) GetGroup(ctx *xhttp.RequestCtx) {
	group, err := h.resolveGroup(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "group not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": group})
}

func (h *GroupHandler) DeleteGroup(ctx *xhttp.RequestCtx) {
	group, err := h.resolveGroup(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "group not found")
			return
		}
		writeServerError(ctx, err)
		return
	}

	if err := h.svc.Delete(ctx, group.ID); err != nil {
		if errors.Is(err, repository.ErrGroupInUse) {
			writeError(ctx, xhttp.StatusBadRequest, "group still has users")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}
