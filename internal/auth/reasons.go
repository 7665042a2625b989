package auth

// Reason is the machine-readable vocabulary of every 401 this service
// produces. Keep these stable; clients branch on them (token_expired
// means "try a refresh", the rest mean "re-login").
type Reason string

const (
	ReasonTokenMissing        Reason = "token_missing"
	ReasonTokenExpired        Reason = "token_expired"
	ReasonTokenInvalid        Reason = "token_invalid"
	ReasonRefreshTokenInvalid Reason = "refresh_token_invalid"
	ReasonLoginInvalid        Reason = "login_invalid"
)
