package user

import "time"

// Account is the identity of an acting user as supplied by the identity provider.
type Account struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	IsNew        bool      `json:"is_new"`
}
