package models

import "time"

// User is the single site administrator. PasswordHash never leaves the server.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the view of a User that is safe to return to clients.
type PublicUser struct {
	UserName string `json:"username"`
}

// Public strips the password digest.
func (u *User) Public() PublicUser {
	return PublicUser{UserName: u.UserName}
}
