package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/session"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	AdminLogin(ctx context.Context, email, password string) (string, *model.Admin, error)
	AdminSession(sessionID string) (*session.Session, error)
	AdminLogout(sessionID string) error
}

type GroupNamer interface {
	GetByID(ctx context.Context, id int64) (*model.Group, error)
}

type AuthHandler struct {
	svc        AuthService
	groups     GroupNamer
	sessionTTL time.Duration
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/auth", h.Authenticate)
	e.POST("/admin/login", h.AdminLogin)
	e.POST("/admin/logout", h.AdminLogout)
}

func NewAuthHandler(svc AuthService, groups GroupNamer, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		svc:        svc,
		groups:     groups,
		sessionTTL: sessionTTL,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authUserData is the logged-in user as the clients expect it: no
// password, and the group id replaced by its display name.
type authUserData struct {
	ID        int64  `json:"id"`
	GroupName string `json:"group_id"`
	Email     string `json:"user_email"`
	FirstName string `json:"user_first_name"`
	LastName  string `json:"user_last_name"`
	Phone     string `json:"user_phone,omitempty"`
}

// Authenticate answers {auth:false} for any bad credential, never an
// error status.
func (h *AuthHandler) Authenticate(ctx *xhttp.RequestCtx) {
	var req authRequest
	if err := readJSONAllowed(ctx, &req, allowedAuthFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	token, user, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeJSON(ctx, xhttp.StatusOK, map[string]bool{"auth": false})
		return
	}

	data := authUserData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
	}
	if group, err := h.groups.GetByID(ctx, user.GroupID); err == nil {
		data.GroupName = group.Name
	}

	writeJSON(ctx, xhttp.StatusOK, map[string]any{
		"auth":         true,
		"data":         data,
		"access_token": token,
	})
}

func (h *AuthHandler) AdminLogin(ctx *xhttp.RequestCtx) {
	var req authRequest
	if err := readJSONAllowed(ctx, &req, allowedAuthFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sessionID, admin, err := h.svc.AdminLogin(ctx, req.Email, req.Password)
	if err != nil {
		writeJSON(ctx, xhttp.StatusOK, map[string]bool{"auth": false})
		return
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(session.CookieName)
	cookie.SetValue(sessionID)
	cookie.SetHTTPOnly(true)
	cookie.SetPath("/")
	cookie.SetExpire(time.Now().Add(h.sessionTTL))
	ctx.Response.Header.SetCookie(cookie)

	writeJSON(ctx, xhttp.StatusOK, map[string]any{
		"auth":        true,
		"permissions": admin.Permissions,
	})
}

func (h *AuthHandler) AdminLogout(ctx *xhttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Cookie(session.CookieName))
	if sessionID != "" {
		_ = h.svc.AdminLogout(sessionID)
	}
	ctx.Response.Header.DelClientCookie(session.CookieName)
	writeSuccess(ctx)
}

// RequireAdmin wraps a handler so it only runs for a live admin session.
func (h *AuthHandler) RequireAdmin(next func(ctx *xhttp.RequestCtx)) func(ctx *xhttp.RequestCtx) {
	return func(ctx *xhttp.RequestCtx) {
		sessionID := string(ctx.Request.Header.Cookie(session.CookieName))
		if sessionID == "" {
			ctx.SetStatusCode(xhttp.StatusForbidden)
			return
		}
		sess, err := h.svc.AdminSession(sessionID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				ctx.SetStatusCode(xhttp.StatusForbidden)
				return
			}
			ctx.SetStatusCode(xhttp.StatusInternalServerError)
			return
		}
		ctx.SetUserValue("admin_session", sess)
		next(ctx)
	}
}
