package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"todolists/internal/export"
)

// CreateList creates a new empty list.
func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.registry.CreateList(r.Context())
	if err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// DeleteList deletes a list and its stored tasks.
func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.registry.DeleteList(r.Context(), chi.URLParam(r, "key")); err != nil {
		respondListError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ExportList downloads a list as json, csv, yaml or pdf.
func (h *Handlers) ExportList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	body, err := export.Render(list.Snapshot(), format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", list.Key()+"."+format))
	w.Write(body)
}
