package geofence

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/auth"
	"trailguard/internal/platform/middleware"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/httputil"
)

// Handler exposes geofence management endpoints. Creation and deletion are
// gated to admin/operator; the read endpoints are public like the rest of the
// map-facing API.
type Handler struct {
	service *Service
	logger  *slog.Logger
	authn   middleware.Authenticator
}

// NewHandler constructs the geofence handler.
func NewHandler(service *Service, authn middleware.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, authn: authn}
}

// Register mounts the geofence routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/geofences", h.handleList)
	r.Get("/geofences/geojson", h.handleGeoJSON)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.authn, h.logger))
		r.Use(middleware.RequireRoles(string(auth.RoleAdmin), string(auth.RoleOperator)))
		r.Post("/geofences", h.handleCreate)
		r.Delete("/geofences/{id}", h.handleDelete)
	})
}

type createRequest struct {
	Name      string        `json:"name"`
	RiskLevel string        `json:"risk_level"`
	// GeoJSON Polygon coordinates [[[lng,lat], ...]]; first ring only.
	Coordinates [][][]float64 `json:"coordinates"`
}

type geofenceResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RiskLevel string `json:"risk_level"`
	Active    bool   `json:"active"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	risk := RiskLow
	if req.RiskLevel != "" {
		parsed, ok := ParseRiskLevel(req.RiskLevel)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid risk level"))
			return
		}
		risk = parsed
	}

	gf, err := h.service.Create(ctx, req.Name, risk, req.Coordinates)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to create geofence",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, geofenceResponse{
		ID:        gf.ID,
		Name:      gf.Name,
		RiskLevel: string(gf.RiskLevel),
		Active:    gf.Active,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fences, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list geofences",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]geofenceResponse, 0, len(fences))
	for _, gf := range fences {
		out = append(out, geofenceResponse{
			ID:        gf.ID,
			Name:      gf.Name,
			RiskLevel: string(gf.RiskLevel),
			Active:    gf.Active,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid geofence id"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to delete geofence",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fc, err := h.service.ExportGeoJSON(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export geofences",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fc)
}
