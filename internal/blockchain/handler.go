package blockchain

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/platform/middleware"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/httputil"
)

// Handler exposes the digital-ID verification proxy. The endpoint is public:
// a hash lookup discloses nothing beyond what the chain already does.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the blockchain handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the verification route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/digital-ids/verify", h.handleVerify)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idHash := r.URL.Query().Get("id_hash")
	if idHash == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id_hash is required"))
		return
	}

	result, err := h.service.Verify(ctx, idHash)
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) && de.Code == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "digital id verification failed",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
			// Upstream RPC failure messages are part of this endpoint's
			// contract, unlike other internal errors.
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"error":             string(dErrors.CodeInternal),
				"error_description": de.Message,
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
