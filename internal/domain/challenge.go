package domain

// Challenge is the pending second-factor challenge for one email.
// At most one exists per email; storing a new one replaces the old.
type Challenge struct {
	Email          string `json:"email" dynamodbav:"email"`
	LoginAttemptID string `json:"login_attempt_id" dynamodbav:"login_attempt_id"`
	Code           string `json:"code" dynamodbav:"code"`
	ExpiresAt      int64  `json:"-" dynamodbav:"expires_at,omitempty"` // TTL (Unix seconds), networked backends only
}

// Matches reports whether attemptID and code both equal the stored pair.
func (c *Challenge) Matches(attemptID, code string) bool {
	return c.LoginAttemptID == attemptID && c.Code == code
}
