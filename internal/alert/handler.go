package alert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/auth"
	"trailguard/internal/platform/middleware"
	"trailguard/pkg/httputil"
)

// AlertService defines the interface for alert operations.
type AlertService interface {
	List(ctx context.Context, status, risk string, offset, limit int) ([]Alert, error)
	Acknowledge(ctx context.Context, id int64) (*Alert, error)
	Resolve(ctx context.Context, id int64) (*Alert, error)
}

// Handler exposes alert listing and triage endpoints. Listing is public;
// triage is gated to admin/operator/police.
type Handler struct {
	service AlertService
	logger  *slog.Logger
	authn   middleware.Authenticator
}

// NewHandler constructs the alert handler.
func NewHandler(service AlertService, authn middleware.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, authn: authn}
}

// Register mounts the alert routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/alerts", h.handleList)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.authn, h.logger))
		r.Use(middleware.RequireRoles(
			string(auth.RoleAdmin), string(auth.RoleOperator), string(auth.RolePolice),
		))
		r.Post("/alerts/{id}/acknowledge", h.handleAcknowledge)
		r.Post("/alerts/{id}/resolve", h.handleResolve)
	})
}

// Response carries the minimal alert fields the API exposes.
type Response struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	UserID     *int64 `json:"user_id"`
	GeofenceID *int64 `json:"geofence_id"`
	Severity   int    `json:"severity"`
	Status     string `json:"status"`
}

// ToResponse maps an Alert to its API shape.
func ToResponse(a Alert) Response {
	return Response{
		ID:         a.ID,
		Type:       string(a.Type),
		UserID:     a.UserID,
		GeofenceID: a.GeofenceID,
		Severity:   a.Severity,
		Status:     string(a.Status),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	// Malformed numbers fall back to defaults; invalid status/risk values are
	// dropped inside the service. Nothing here rejects.
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	alerts, err := h.service.List(ctx, q.Get("status"), q.Get("risk"), offset, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list alerts",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]Response, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, ToResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	h.handleStatusChange(w, r, h.service.Acknowledge)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	h.handleStatusChange(w, r, h.service.Resolve)
}

// handleStatusChange applies a triage transition. Unknown ids answer with an
// inline {ok:false} payload instead of a 404; this router predates the shared
// error envelope and clients depend on the shape.
func (h *Handler) handleStatusChange(w http.ResponseWriter, r *http.Request, change func(context.Context, int64) (*Alert, error)) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "not found"})
		return
	}

	a, err := change(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "not found"})
			return
		}
		h.logger.ErrorContext(ctx, "failed to update alert status",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": a.ID, "status": string(a.Status)})
}
