package entity

import "time"

// CodeDigits is the length of the codes the storefront accepts.
const CodeDigits = 5

// OTPSession is a code sent to a phone, waiting to be verified.
type OTPSession struct {
	Phone    string
	Secret   string
	IssuedAt time.Time
	Attempts int
}
