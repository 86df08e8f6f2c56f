package api

import (
	"encoding/json"
	"net/http"

	"personio-go/internal/twin/store"
)

type projectInput struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

func decodeProject(w http.ResponseWriter, r *http.Request, requireName bool) (projectInput, bool) {
	var in projectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, 0, "Malformed request body", nil)
		return in, false
	}
	if requireName && in.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, http.StatusUnprocessableEntity, "Validation error",
			map[string][]string{"name": {"The name field is required."}})
		return in, false
	}
	return in, true
}

// ListProjects returns all projects in one unpaginated list.
func (h *Handler) ListProjects(w http.ResponseWriter, _ *http.Request) {
	projects := h.store.Projects()
	data := make([]any, 0, len(projects))
	for _, p := range projects {
		data = append(data, renderProject(p))
	}
	writeData(w, http.StatusOK, data)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProject(w, r, true)
	if !ok {
		return
	}
	p := store.Project{Name: in.Name, Active: true}
	if in.Active != nil {
		p.Active = *in.Active
	}
	writeData(w, http.StatusOK, renderProject(h.store.CreateProject(p)))
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	in, ok := decodeProject(w, r, false)
	if !ok {
		return
	}
	p, ok := h.store.UpdateProject(id, func(p *store.Project) {
		if in.Name != "" {
			p.Name = in.Name
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
	})
	if !ok {
		notFound(w, "Project")
		return
	}
	writeData(w, http.StatusOK, renderProject(p))
}

// DeleteProject answers 204 without a body.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	if !h.store.DeleteProject(id) {
		notFound(w, "Project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
