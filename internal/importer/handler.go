package importer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/auth"
	"trailguard/internal/platform/middleware"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/httputil"
)

// maxUploadBytes bounds the multipart form held in memory per import request.
const maxUploadBytes = 16 << 20

// Handler exposes the CSV import endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
	authn   middleware.Authenticator
}

// NewHandler constructs the import handler.
func NewHandler(service *Service, authn middleware.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, authn: authn}
}

// Register mounts the import routes. Geofence imports are open to operators;
// user imports are admin only.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.authn, h.logger))
		r.With(middleware.RequireRoles(string(auth.RoleAdmin), string(auth.RoleOperator))).
			Post("/imports/geofences", h.handleImport(h.service.ImportGeofences))
		r.With(middleware.RequireRoles(string(auth.RoleAdmin))).
			Post("/imports/users", h.handleImport(h.service.ImportUsers))
	})
}

func (h *Handler) handleImport(importFn func(context.Context, io.Reader) (Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file is required"))
			return
		}
		defer file.Close()

		if !strings.HasSuffix(header.Filename, ".csv") {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "upload a .csv file"))
			return
		}

		result, err := importFn(ctx, file)
		if err != nil {
			if dErrors.CodeOf(err) == dErrors.CodeInternal {
				h.logger.ErrorContext(ctx, "import failed",
					"error", err.Error(),
					"request_id", middleware.GetRequestID(ctx),
				)
			}
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}
