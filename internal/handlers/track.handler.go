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

type TrackService interface {
	Create(ctx context.Context, p model.TrackCreateRequest) (*model.Track, error)
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	List(ctx context.Context, f model.TrackFilter) ([]*model.Track, error)
	Update(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type TrackHandler struct {
	svc TrackService
}

func RegisterTrackRoutes(e *router.Group, h *TrackHandler) {
	e.GET("/tracks", h.ListTracks)
	e.POST("/tracks", h.CreateTrack)
	e.GET("/tracks/{id_or_company}", h.GetTrack)
	e.PUT("/tracks/{id_or_company}", h.UpdateTrack)
	e.DELETE("/tracks/{id_or_company}", h.DeleteTrack)
}

func NewTrackHandler(svc TrackService) *TrackHandler {
	return &TrackHandler{svc: svc}
}

type createTrackRequest struct {
	Company     string  `json:"company"`
	Price       float64 `json:"price"`
	Name        string  `json:"track_name"`
	Description string  `json:"description"`
	Kosher      bool    `json:"kosher"`
}

func (h *TrackHandler) CreateTrack(ctx *xhttp.RequestCtx) {
	var req createTrackRequest
	if err := readJSONAllowed(ctx, &req, allowedTrackFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	track, err := h.svc.Create(ctx, model.TrackCreateRequest{
		Company:     req.Company,
		Price:       req.Price,
		Name:        req.Name,
		Description: req.Description,
		Kosher:      req.Kosher,
	})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, track)
}

func (h *TrackHandler) ListTracks(ctx *xhttp.RequestCtx) {
	var f model.TrackFilter
	if v := query(ctx, "company"); v != "" {
		f.Company = &v
	}
	if v := query(ctx, "kosher"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Kosher = &b
		}
	}

	tracks, err := h.svc.List(ctx, f)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": tracks})
}

// GetTrack treats a numeric path segment as a track id and anything else
// as a company filter, mirroring the groups id-or-name resolution.
func (h *TrackHandler) GetTrack(ctx *xhttp.RequestCtx) {
	idOrCompany := pathParam(ctx, "id_or_company")

	if id, err := strconv.ParseInt(idOrCompany, 10, 64); err == nil {
		track, err := h.svc.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrTrackNotFound) {
				writeError(ctx, xhttp.StatusNotFound, "track not found")
				return
			}
			writeServerError(ctx, err)
			return
		}
		writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": track})
		return
	}

	f := model.TrackFilter{Company: &idOrCompany}
	if v := query(ctx, "kosher"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Kosher = &b
		}
	}
	tracks, err := h.svc.List(ctx, f)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": tracks})
}

func (h *TrackHandler) UpdateTrack(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id_or_company")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid track id")
		return
	}

	values, err := updateValues(ctx, allowedTrackFields)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Update(ctx, id, values); err != nil {
		if errors.Is(err, repository.ErrTrackNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "track not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}

func (h *TrackHandler) DeleteTrack(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id_or_company")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid track id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTrackNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "track not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}
