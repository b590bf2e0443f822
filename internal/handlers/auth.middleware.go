package handlers

import (
	"github.com/yakirz/sales-gateway/internal/services"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

// AuthHeader carries the salesperson's bearer token.
const AuthHeader = "Authentication"

const claimsKey = "auth_claims"

type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// RequireAuth wraps a handler so it only runs for a valid bearer token.
// A missing or undecodable token is a 403, matching the API contract.
func RequireAuth(verifier TokenVerifier, next func(ctx *xhttp.RequestCtx)) func(ctx *xhttp.RequestCtx) {
	return func(ctx *xhttp.RequestCtx) {
		token := string(ctx.Request.Header.Peek(AuthHeader))
		if token == "" {
			ctx.SetStatusCode(xhttp.StatusForbidden)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			ctx.SetStatusCode(xhttp.StatusForbidden)
			return
		}

		ctx.SetUserValue(claimsKey, claims)
		next(ctx)
	}
}

func claimsFromCtx(ctx *xhttp.RequestCtx) *services.Claims {
	if c, ok := ctx.UserValue(claimsKey).(*services.Claims); ok {
		return c
	}
	return nil
}
