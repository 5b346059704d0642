package aiservice

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/httputil"
)

// Handler exposes the scoring endpoints.
type Handler struct{}

// NewHandler constructs the AI handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Register mounts the scoring routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealthz)
	r.Post("/anomaly/trajectory-score", h.handleTrajectoryScore)
	r.Post("/nlp/classify", h.handleClassify)
}

type trajectoryRequest struct {
	Speeds []float64 `json:"speeds"`
	Gaps   []float64 `json:"gaps"`
}

type trajectoryResponse struct {
	AnomalyScore float64 `json:"anomaly_score"`
}

type classifyRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTrajectoryScore(w http.ResponseWriter, r *http.Request) {
	var req trajectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trajectoryResponse{
		AnomalyScore: TrajectoryScore(req.Speeds, req.Gaps),
	})
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "text is required"))
		return
	}
	label, confidence := Classify(req.Text)
	httputil.WriteJSON(w, http.StatusOK, classifyResponse{Label: label, Confidence: confidence})
}
