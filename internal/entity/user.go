package entity

import "github.com/google/uuid"

// User is the injected identity record. Credentials live with the external
// auth provider; this service only resolves usernames to ids and roles.
type User struct {
	Id       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	Role     string    `json:"role" db:"role"`
}
