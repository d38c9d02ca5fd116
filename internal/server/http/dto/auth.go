package dto

// RegisterRequest describes registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerificationConfirmRequest carries the emailed verification code.
type VerificationConfirmRequest struct {
	Code string `json:"code"`
}
