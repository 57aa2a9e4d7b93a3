package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// HashPassword returns a salted bcrypt digest of password. Passwords bcrypt
// cannot take are reported as common.ErrorValidation.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, MaxPasswordLength)
	}
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
