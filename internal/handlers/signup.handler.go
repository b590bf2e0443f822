package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/services"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type SignupService interface {
	Lookup(ctx context.Context, token string) (*model.PendingSignup, error)
	Complete(ctx context.Context, token, password string) (*model.User, error)
}

// SignupHandler serves the invite-completion flow at /singUp. The path
// keeps its historical spelling, the deployed clients link to it.
type SignupHandler struct {
	svc SignupService
}

func RegisterSignupRoutes(r *router.Router, h *SignupHandler) {
	r.GET("/singUp", h.LookupSignup)
	r.POST("/singUp", h.CompleteSignup)
}

func NewSignupHandler(svc SignupService) *SignupHandler {
	return &SignupHandler{svc: svc}
}

// LookupSignup resolves ?unique_id= to the invite's prefill data.
func (h *SignupHandler) LookupSignup(ctx *xhttp.RequestCtx) {
	token := query(ctx, "unique_id")
	if token == "" {
		writeError(ctx, xhttp.StatusBadRequest, "unique_id is required")
		return
	}

	pending, err := h.svc.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, services.ErrSignupTokenUsed) {
			writeError(ctx, xhttp.StatusNotFound, "signup link is no longer valid")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": pending})
}

type completeSignupRequest struct {
	Token    string `json:"unique_id"`
	Password string `json:"user_password"`
}

func (h *SignupHandler) CompleteSignup(ctx *xhttp.RequestCtx) {
	var req completeSignupRequest
	if err := readJSONAllowed(ctx, &req, allowedSignupFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Token == "" {
		writeError(ctx, xhttp.StatusBadRequest, "unique_id is required")
		return
	}

	user, err := h.svc.Complete(ctx, req.Token, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrSignupTokenUsed) {
			writeError(ctx, xhttp.StatusNotFound, "signup link is no longer valid")
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
