package entity

// Challenge is a sent OTP as returned by the send endpoint.
type Challenge struct {
	SessionReference string
	// ExpiresIn is the server-side lifetime of the code in seconds.
	ExpiresIn int
}

// SendOTP is the request to deliver a code to a phone number.
type SendOTP struct {
	PhoneSuffix string
	CountryCode string
}

// Verification is the verify endpoint answer.
type Verification struct {
	StatusCode   StatusCode
	AccessToken  string
	RefreshToken string
}
