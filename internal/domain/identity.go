package domain

// Identity is a registered email/credential pair. It is created at signup and
// never mutated afterwards.
type Identity struct {
	Email                string `json:"email" dynamodbav:"email"`
	Password             string `json:"-" dynamodbav:"password"`
	RequiresSecondFactor bool   `json:"requires2FA" dynamodbav:"requires_2fa"`
}

type SignupRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	RequiresSecondFactor bool   `json:"requires2FA"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VerifyTwoFactorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	LoginAttemptID string `json:"loginAttemptId" validate:"required,uuid"`
	TwoFACode      string `json:"2FACode" validate:"required,len=6,numeric"`
}
