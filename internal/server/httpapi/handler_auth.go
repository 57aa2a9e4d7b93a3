package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

type loginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        models.PublicUser `json:"user"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registration request", "username", req.Username)

	u, err := s.svc.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", u.UserName)
	writeJSON(w, http.StatusOK, registerResponse{
		Message: "User registered successfully",
		User:    u.Public(),
	})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, u, err := s.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        u.Public(),
	})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	username, _ := UsernameFrom(r.Context())
	writeJSON(w, http.StatusOK, models.PublicUser{UserName: username})
}
