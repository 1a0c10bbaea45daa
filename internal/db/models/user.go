package models

import (
	"time"
)

// User is an account record created on first login. ID is the subject
// identifier from the identity provider and scopes all task queries.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
