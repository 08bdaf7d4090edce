package handlers

import (
	"net/http"
)

// CreateTask appends a task to a list.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if err := list.Create(r.Context(), formFields(r)); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// BeginEdit pulls a task out of its list and returns the card with the
// form pre-filled.
func (h *Handlers) BeginEdit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	index, err := parseIndex(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task index")
		return
	}

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if _, err := list.BeginEdit(index); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// CommitEdit saves the task being edited.
func (h *Handlers) CommitEdit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if err := list.CommitEdit(r.Context(), formFields(r)); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// CancelEdit puts the task being edited back unchanged.
func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if err := list.CancelEdit(r.Context()); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	index, err := parseIndex(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task index")
		return
	}

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if err := list.Delete(r.Context(), index); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}

// ToggleTask toggles the completion status of a task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	index, err := parseIndex(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task index")
		return
	}

	list, ok := h.lookupList(w, r)
	if !ok {
		return
	}

	if err := list.ToggleComplete(r.Context(), index); err != nil {
		respondListError(w, err)
		return
	}

	h.renderList(w, list)
}
