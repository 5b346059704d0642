package location

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/alert"
	"trailguard/internal/auth"
	"trailguard/internal/platform/middleware"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/httputil"
)

// Handler exposes the ingest endpoint. Any authenticated role may ingest.
type Handler struct {
	service *Service
	logger  *slog.Logger
	authn   middleware.Authenticator
}

// NewHandler constructs the location handler.
func NewHandler(service *Service, authn middleware.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, authn: authn}
}

// Register mounts the location routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.authn, h.logger))
		r.Use(middleware.RequireRoles(
			string(auth.RoleTourist), string(auth.RoleOperator),
			string(auth.RolePolice), string(auth.RoleAdmin),
		))
		r.Post("/locations/ingest", h.handleIngest)
	})
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.service.Ingest(ctx, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to ingest location",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	out := make([]alert.Response, 0, len(created))
	for _, a := range created {
		out = append(out, alert.ToResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
