package dto

type SignupRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email,max=320"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

type UserLogin struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// AuthResponse is the decoded session token.
type AuthResponse struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	SessionID string  `json:"session_id"`
	Iat       float64 `json:"iat"`
	Expiry    float64 `json:"expiry"`
}
