package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the platform identity. The auth subsystem only ever reads users —
// lookups by ID for checkpoint validation and by email for login. Content
// ownership and profile editing live with the persistence collaborator.
type User struct {
	ID           string    `json:"id,omitempty"`    // Unique identifier for the user
	Email        string    `json:"email,omitempty"` // User's email address, unique
	PasswordHash string    `json:"-"`               // Hashed version of the user's password - never serialize
	Name         string    `json:"name,omitempty"`  // Display name
	IsActive     bool      `json:"is_active,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// AuthUser is the minimal identity attached to authenticated requests and
// returned by login. It never carries the password hash.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthUser returns the minimal identity view of a full user record.
func (u *User) AuthUser() AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
