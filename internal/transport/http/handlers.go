package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/authoring"
	"fanquiz-service/internal/domain"
	"fanquiz-service/internal/report"
)

// Handler serves the authoring and export surface: publish a draft, fetch a
// published document, paginate a scored report.
type Handler struct {
	store   app.DocumentStore
	layout  report.Layout
	baseURL string
}

func NewHandler(store app.DocumentStore, baseURL string) *Handler {
	return &Handler{
		store:   store,
		layout:  report.DefaultLayout(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Register wires the routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quizzes", h.publish)
	mux.HandleFunc("GET /api/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/report", h.buildReport)
}

type publishResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type reportRequest struct {
	Answers []int `json:"answers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var draft domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz draft"})
		return
	}

	builder := authoring.FromDraft(draft)
	id, err := builder.Publish(r.Context(), h.store)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	slog.Info("quiz published", "quizId", id, "questions", len(draft.Questions))
	writeJSON(w, http.StatusCreated, publishResponse{
		ID:  id,
		URL: h.baseURL + "/quiz/" + id,
	})
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report request"})
		return
	}

	quiz, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report.Paginate(h.layout, quiz, req.Answers))
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
