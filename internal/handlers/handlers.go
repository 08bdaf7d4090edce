package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"todolists/internal/models"
	"todolists/internal/tasklist"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	// mu serializes every request that touches the registry; task lists
	// assume a single writer.
	mu        sync.Mutex
	registry  *tasklist.Registry
	templates *template.Template
}

// New creates a new Handlers instance.
func New(registry *tasklist.Registry, tmpl *template.Template) *Handlers {
	return &Handlers{
		registry:  registry,
		templates: tmpl,
	}
}

// parseIndex extracts a zero-based task position from URL parameters.
func parseIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

// formFields reads the task form values.
func formFields(r *http.Request) models.Fields {
	return models.Fields{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Deadline:    r.FormValue("deadline"),
	}
}

// lookupList finds the list named by the "key" URL parameter and writes a
// 404 if there is none. Callers hold h.mu.
func (h *Handlers) lookupList(w http.ResponseWriter, r *http.Request) (*tasklist.Store, bool) {
	list, err := h.registry.Get(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	return list, true
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondListError maps task list errors to status codes.
func respondListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, http.StatusBadRequest, "Please fill in all fields: "+err.Error())
	case errors.Is(err, tasklist.ErrNotFound):
		respondError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, tasklist.ErrListNotFound), errors.Is(err, tasklist.ErrListDeleted):
		respondError(w, http.StatusNotFound, "list not found")
	case errors.Is(err, tasklist.ErrNoActiveEdit):
		respondError(w, http.StatusConflict, "no task is being edited")
	default:
		respondServerError(w, err)
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}

// renderTemplate renders a full page template.
func (h *Handlers) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.render(w, name, data)
}

// renderPartial renders a partial template (for htmx responses).
func (h *Handlers) renderPartial(w http.ResponseWriter, name string, data interface{}) {
	h.render(w, name, data)
}

// renderList renders the card of one list after a change.
func (h *Handlers) renderList(w http.ResponseWriter, list *tasklist.Store) {
	h.renderPartial(w, "list_card.html", list.Snapshot())
}
