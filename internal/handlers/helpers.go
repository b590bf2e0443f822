package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	xhttp "github.com/yakirz/sales-gateway/pkg/http"
	"github.com/yakirz/sales-gateway/pkg/logger"
)

// DateTimeLayout is how timestamps render on the wire, seconds precision.
const DateTimeLayout = "2006-01-02 15:04:05"

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServerError logs the real failure and answers a generic one.
// Storage error detail never goes out on the wire.
func writeServerError(ctx *xhttp.RequestCtx, err error) {
	logger.Error("request failed", "path", string(ctx.Path()), "error", err)
	writeError(ctx, xhttp.StatusInternalServerError, "internal error")
}

func writeSuccess(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"success": true})
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func pathParam(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func pathParamInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	return strconv.ParseInt(pathParam(ctx, name), 10, 64)
}

func formatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
