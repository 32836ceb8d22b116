package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	minDigits = 4
	maxDigits = 8
)

// OTP defines the contract for time-based one-time codes.
type OTP interface {
	// Secret creates a fresh base32 secret for an account name.
	Secret(accountName string) (string, error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// Window returns the start of the period containing at.
	Window(at time.Time) time.Time
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance.
//
// Digits outside 4..8 fall back to 6. A zero period uses 30 seconds. Skew is
// the number of adjacent periods accepted on each side and may be zero.
func NewTOTP(issuer string, period, skew uint, digits int) *TOTP {
	if digits < minDigits || digits > maxDigits {
		digits = int(otp.DigitsSix)
	}

	if period == 0 {
		period = 30
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: otp.Digits(digits),
	}
}

// Secret creates a secret for an account name.
func (o *TOTP) Secret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  20,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, o.opts())
	return rv && err == nil
}

// GenerateCode creates a code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Window returns the start of the period containing at.
func (o *TOTP) Window(at time.Time) time.Time {
	return at.Truncate(time.Duration(o.period) * time.Second)
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
