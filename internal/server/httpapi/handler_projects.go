package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type projectOrderRequest struct {
	ProjectOrder []models.OrderItem `json:"project_order"`
}

func (s *HTTPServer) listPublicProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.svc.Projects.ListPublic(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *HTTPServer) listAdminProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.svc.Projects.ListAdmin(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *HTTPServer) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.svc.Projects.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Project created", "id", p.ID)
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) updateProject(w http.ResponseWriter, r *http.Request) {
	var patch models.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Projects.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Project deleted", "id", id)
	writeJSON(w, http.StatusOK, messageBody{Message: "Project deleted successfully"})
}

func (s *HTTPServer) reorderProjects(w http.ResponseWriter, r *http.Request) {
	var req projectOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ps, err := s.svc.Projects.Reorder(r.Context(), req.ProjectOrder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
