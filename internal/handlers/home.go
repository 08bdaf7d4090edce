package handlers

import (
	"net/http"

	"todolists/internal/models"
)

// HomeData holds data for the home page template.
type HomeData struct {
	Title string
	Lists []models.List
}

// Home renders the home page with every list and its tasks.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stores := h.registry.Lists()
	lists := make([]models.List, 0, len(stores))
	for _, s := range stores {
		lists = append(lists, s.Snapshot())
	}

	data := HomeData{
		Title: "To-Do Lists",
		Lists: lists,
	}

	h.renderTemplate(w, "home.html", data)
}
