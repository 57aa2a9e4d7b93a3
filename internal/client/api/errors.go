package api

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lightbox/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx answer from the server, decoded from its
// {"detail","kind"} body.
type Error struct {
	Status int
	Kind   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

var kindErrors = map[string]error{
	"registration_closed": common.ErrRegistrationClosed,
	"invalid_credentials": common.ErrInvalidCredentials,
	"username_taken":      common.ErrUsernameTaken,
	"validation":          common.ErrorValidation,
	"forbidden":           common.ErrorUnauthorized,
	"not_found":           common.ErrorNotFound,
	"conflict":            common.ErrVersionConflict,
}

// Unwrap lets callers match the shared sentinels with errors.Is.
func (e *Error) Unwrap() error {
	return kindErrors[e.Kind]
}
