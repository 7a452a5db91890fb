package diagram

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/relgraph/relgraph/internal/auth"
	"github.com/relgraph/relgraph/internal/preview"
	"github.com/relgraph/relgraph/internal/store"
)

const maxSnapshotSize = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the public routes on r and the publish route on an /api
// subrouter guarded by requireAuth.
func (h *Handler) Register(r *mux.Router, requireAuth mux.MiddlewareFunc) {
	r.HandleFunc("/diagrams/{diagramId}/snapshot", h.GetLatestSnapshot).Methods("GET")
	r.HandleFunc("/diagrams/{diagramId}/render", h.Render).Methods("GET")
	r.HandleFunc("/diagrams/{diagramId}/paths", h.Paths).Methods("GET")
	r.HandleFunc("/diagrams/{diagramId}/preview.png", h.Preview).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireAuth)
	api.HandleFunc("/diagrams/{diagramId}/snapshots", h.Publish).Methods("POST")
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	publisherID := auth.PublisherIDFromContext(r.Context())
	diagramID := mux.Vars(r)["diagramId"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(body) > maxSnapshotSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "snapshot too large"})
		return
	}

	result, err := h.service.Publish(r.Context(), diagramID, publisherID, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	diagramID := mux.Vars(r)["diagramId"]

	rec, err := h.service.Latest(r.Context(), diagramID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Snapshot-Sequence", strconv.FormatInt(rec.Sequence, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Snapshot)
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.service.Render(r.Context(), mux.Vars(r)["diagramId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmds)
}

func (h *Handler) Paths(w http.ResponseWriter, r *http.Request) {
	paths, err := h.service.Paths(r.Context(), mux.Vars(r)["diagramId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paths)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	width := preview.DefaultWidth
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width must be a positive integer"})
			return
		}
		width = n
	}

	img, err := h.service.Preview(r.Context(), mux.Vars(r)["diagramId"], width)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := preview.WritePNG(w, img); err != nil {
		slog.Error("encode preview", "error", err)
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidSnapshot):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, preview.ErrEmptyScene):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "diagram is empty"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
