package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

type mediaOrderRequest struct {
	MediaOrder []models.OrderItem `json:"media_order"`
}

// formFile limits the body to the configured upload size and opens the named
// multipart field. The caller closes the returned file.
func (s *HTTPServer) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, error) {
	if s.opts.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: field %q: %v", common.ErrorValidation, field, err)
	}
	return file, header.Filename, nil
}

func (s *HTTPServer) addMedia(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	file, filename, err := s.formFile(w, r, "file")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer file.Close()

	m, err := s.svc.Media.Add(r.Context(), projectID, file, filename, r.FormValue("alt"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Media added", "project", projectID, "media", m.ID, "type", m.Type)
	writeJSON(w, http.StatusOK, m)
}

func (s *HTTPServer) removeMedia(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Media.Remove(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mediaId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Media deleted successfully"})
}

func (s *HTTPServer) reorderMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.svc.Media.Reorder(r.Context(), chi.URLParam(r, "id"), req.MediaOrder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) setMediaFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := strconv.ParseBool(r.URL.Query().Get("featured"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: featured must be true or false", common.ErrorValidation))
		return
	}

	err = s.svc.Media.SetFeatured(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mediaId"), featured)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Media featured status updated"})
}

func (s *HTTPServer) featuredFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Featured.Feed(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
