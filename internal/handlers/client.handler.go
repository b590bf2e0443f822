package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type ClientService interface {
	Create(ctx context.Context, p model.ClientCreateRequest) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	List(ctx context.Context) ([]*model.Client, error)
	Update(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type ClientHandler struct {
	svc ClientService
}

func RegisterClientRoutes(e *router.Group, h *ClientHandler) {
	e.GET("/clients", h.ListClients)
	e.POST("/clients", h.CreateClient)
	e.GET("/clients/{id}", h.GetClient)
	e.PUT("/clients/{id}", h.UpdateClient)
	e.DELETE("/clients/{id}", h.DeleteClient)
}

func NewClientHandler(svc ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

type createClientRequest struct {
	ClientID  string `json:"client_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (h *ClientHandler) CreateClient(ctx *xhttp.RequestCtx) {
	var req createClientRequest
	if err := readJSONAllowed(ctx, &req, allowedClientFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	client, err := h.svc.Create(ctx, model.ClientCreateRequest{
		ClientID:  req.ClientID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, client)
}

func (h *ClientHandler) ListClients(ctx *xhttp.RequestCtx) {
	clients, err := h.svc.List(ctx)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": clients})
}

func (h *ClientHandler) GetClient(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid client id")
		return
	}

	client, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "client not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": client})
}

func (h *ClientHandler) UpdateClient(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid client id")
		return
	}

	values, err := updateValues(ctx, allowedClientFields)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Update(ctx, id, values); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "client not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}

func (h *ClientHandler) DeleteClient(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid client id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "client not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}
