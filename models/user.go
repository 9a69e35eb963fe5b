package models

import "time"

// User represents both sides of the marketplace. A user becomes a provider
// by publishing availability; any user can book another provider's slots.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	FullName     string    `bson:"fullName" json:"fullName"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Profession   string    `bson:"profession,omitempty" json:"profession,omitempty"`
	HourlyRate   float64   `bson:"hourlyRate" json:"hourlyRate"`
	Currency     string    `bson:"currency" json:"currency"` // ISO 4217, e.g. "USD"
	Timezone     string    `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/New_York"
	IsAvailable  bool      `bson:"isAvailable" json:"isAvailable"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RegistrationRequest is the payload for creating a new account.
type RegistrationRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Timezone string `json:"timezone"`
}

// AuthRequest is the login payload.
type AuthRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the signed token back to the client.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
