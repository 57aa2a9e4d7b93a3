package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type logoResponse struct {
	LogoURL string `json:"logo_url"`
}

func (s *HTTPServer) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Settings.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *HTTPServer) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.svc.Settings.Update(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *HTTPServer) uploadLogo(w http.ResponseWriter, r *http.Request) {
	file, filename, err := s.formFile(w, r, "file")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer file.Close()

	url, err := s.svc.Settings.UploadLogo(r.Context(), file, filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logoResponse{LogoURL: url})
}
