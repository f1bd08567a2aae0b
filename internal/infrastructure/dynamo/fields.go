package dynamo

// DynamoDB attribute names used in key and condition expressions across all stores.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail          = "email"
	fieldToken          = "token"
	fieldLoginAttemptID = "login_attempt_id"
	fieldCode           = "code"
	fieldExpiresAt      = "expires_at"
)
