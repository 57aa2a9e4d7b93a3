package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/lightbox/internal/common"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind"`
}

type messageBody struct {
	Message string `json:"message"`
}

var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{common.ErrInvalidToken, http.StatusForbidden, "forbidden"},
	{common.ErrTokenExpired, http.StatusForbidden, "forbidden"},
	{common.ErrorUnauthorized, http.StatusForbidden, "forbidden"},
	{common.ErrRegistrationClosed, http.StatusForbidden, "registration_closed"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{common.ErrorNotFound, http.StatusNotFound, "not_found"},
	{common.ErrUnsupportedType, http.StatusBadRequest, "unsupported_type"},
	{common.ErrorValidation, http.StatusBadRequest, "validation"},
	{common.ErrVersionConflict, http.StatusConflict, "conflict"},
	{common.ErrUsernameTaken, http.StatusConflict, "username_taken"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.kind
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "too_large"
	}

	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		detail = common.ErrorInternal.Error()
	}

	writeJSON(w, status, errorBody{Detail: detail, Kind: kind})
}

// decodeJSON reads the request body into v; malformed input is a validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}
