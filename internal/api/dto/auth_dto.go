package dto

// SendOTPRequest payload for requesting a login code.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest payload for exchanging a code for tokens.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// TokenResponse returns the access token; the refresh token travels only in
// the httpOnly cookie.
type TokenResponse struct {
	Token string `json:"token"`
}

// OKResponse acknowledges side-effect-only endpoints.
type OKResponse struct {
	OK bool `json:"ok"`
}
