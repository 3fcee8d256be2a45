package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/PabloPavan/pastebox/internal/pastes"
)

// PasswordHeader carries the paste password on fetch. A header keeps it out
// of access logs and browser history, unlike a query parameter.
const PasswordHeader = "X-Paste-Password"

type PastesService interface {
	Create(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error)
	Get(ctx context.Context, id, password string) (*pastes.Paste, error)
	ListRecent(ctx context.Context) []pastes.Summary
}

type PastesHandler struct {
	Service PastesService
}

// Create Paste
// @Summary Create paste
// @Tags pastes
// @Accept json
// @Produce json
// @Param body body PasteCreateDTO true "paste"
// @Success 201 {object} pastes.Paste
// @Failure 400 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /pastes [post]
func (h *PastesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PasteCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	paste, err := h.Service.Create(r.Context(), pastes.CreatePasteRequest{
		Title:     req.Title,
		Content:   req.Content,
		Language:  req.Language,
		Expiry:    req.Expiry,
		IsPrivate: req.IsPrivate,
		Password:  req.Password,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(paste)
}

// Get Paste
// @Summary Get paste by id
// @Tags pastes
// @Produce json
// @Param id path string true "paste id"
// @Param X-Paste-Password header string false "paste password, when gated"
// @Success 200 {object} pastes.Paste
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /pastes/{id} [get]
func (h *PastesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	password := r.Header.Get(PasswordHeader)

	paste, err := h.Service.Get(r.Context(), id, password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(paste)
}

// ListRecent Pastes
// @Summary List the ten most recent public pastes
// @Tags pastes
// @Produce json
// @Success 200 {array} pastes.Summary
// @Router /pastes/recent [get]
func (h *PastesHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	list := h.Service.ListRecent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
