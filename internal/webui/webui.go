// Package webui serves the HTML pages for creating and viewing pastes.
// Syntax highlighting is delegated to highlight.js in the page itself; the
// server only picks the grammar from the stored language tag.
package webui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/PabloPavan/pastebox/internal/apperrors"
	"github.com/PabloPavan/pastebox/internal/pastes"
)

//go:embed templates/*.html
var templateFS embed.FS

// PastesService mirrors the domain service; declared here so page tests can
// stub it.
type PastesService interface {
	Create(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error)
	Get(ctx context.Context, id, password string) (*pastes.Paste, error)
	ListRecent(ctx context.Context) []pastes.Summary
}

type Handler struct {
	service   PastesService
	templates *template.Template
}

func New(service PastesService) http.Handler {
	h := &Handler{
		service:   service,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	r := chi.NewRouter()
	r.Get("/", h.createForm)
	r.Post("/", h.createSubmit)
	r.Get("/paste/{id}", h.view)
	r.Post("/paste/{id}", h.view)
	r.Get("/recent", h.recent)
	r.Get("/about", h.about)
	return r
}

type createPage struct {
	Title     string
	Content   string
	Language  string
	Expiry    string
	IsPrivate bool
	Languages []string
	Error     string
}

func (h *Handler) createForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "create.html", createPage{
		Language:  pastes.LanguagePlain,
		Expiry:    string(pastes.ExpiryNever),
		Languages: pastes.Languages,
	})
}

func (h *Handler) createSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := createPage{
		Title:     r.PostFormValue("title"),
		Content:   r.PostFormValue("content"),
		Language:  r.PostFormValue("language"),
		Expiry:    r.PostFormValue("expiry"),
		IsPrivate: r.PostFormValue("is_private") == "on",
		Languages: pastes.Languages,
	}

	// Empty content never reaches the store; the form comes back as-is.
	if strings.TrimSpace(page.Content) == "" {
		page.Error = "content is required"
		h.render(w, "create.html", page)
		return
	}

	paste, err := h.service.Create(r.Context(), pastes.CreatePasteRequest{
		Title:     page.Title,
		Content:   page.Content,
		Language:  page.Language,
		Expiry:    pastes.Expiry(page.Expiry),
		IsPrivate: page.IsPrivate,
		Password:  r.PostFormValue("password"),
	})
	if err != nil {
		page.Error = userMessage(err)
		h.render(w, "create.html", page)
		return
	}

	http.Redirect(w, r, "/paste/"+paste.ID, http.StatusSeeOther)
}

type viewPage struct {
	Paste       *pastes.Paste
	Highlighted bool
}

type passwordPage struct {
	ID    string
	Error string
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	password := ""
	attempted := false
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			password = r.PostFormValue("password")
			attempted = password != ""
		}
	}

	paste, err := h.service.Get(r.Context(), id, password)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Kind == apperrors.KindPasswordRequired {
			page := passwordPage{ID: id}
			if attempted {
				page.Error = "wrong password"
			}
			h.render(w, "password.html", page)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		h.render(w, "notfound.html", nil)
		return
	}

	h.render(w, "view.html", viewPage{
		Paste:       paste,
		Highlighted: paste.Language != pastes.LanguagePlain,
	})
}

type recentPage struct {
	Pastes []pastes.Summary
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	h.render(w, "recent.html", recentPage{Pastes: h.service.ListRecent(r.Context())})
}

func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about.html", nil)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func userMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "could not create paste"
}
