package domain

import "time"

// Auth providers recorded on a user account.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	OTP          *string    `json:"-" db:"otp"`
	OTPExpiresAt *time.Time `json:"-" db:"otp_expires_at"`
	AIName       *string    `json:"ai_name,omitempty" db:"ai_name"`
	AuthProvider string     `json:"-" db:"auth_provider"`
	CreatedAt    time.Time  `json:"created" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated" db:"updated_at"`
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=1,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type GoogleTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// TokenResponse is the body returned by both login endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public profile shape; never exposes credentials or OTP state.
type UserResponse struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	AIName   *string `json:"ai_name"`
}

type AINameUpdateRequest struct {
	AIName string `json:"ai_name" validate:"required"`
}

// ProfileStats aggregates a user's writing activity.
type ProfileStats struct {
	StoriesCreated  int    `json:"stories_created"`
	TotalWords      int    `json:"total_words"`
	MostCommonGenre string `json:"most_common_genre"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{Username: u.Username, Email: u.Email, AIName: u.AIName}
}
