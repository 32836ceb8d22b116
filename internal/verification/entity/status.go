package entity

import "fmt"

// StatusCode is the verification result reported by the API.
type StatusCode int

const (
	StatusVerified       StatusCode = 200
	StatusInvalidCode    StatusCode = 401
	StatusCodeExpired    StatusCode = 410
	StatusSessionExpired StatusCode = 419
)

// Outcome is what the user is told after a verification attempt.
type Outcome int

const (
	// OutcomeNone means no attempt has completed yet.
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeInvalid
	OutcomeExpired
	OutcomeFailure
)

// Outcome maps the status to its user-facing outcome. Unknown statuses are
// failures.
func (c StatusCode) Outcome() Outcome {
	switch c {
	case StatusVerified:
		return OutcomeSuccess
	case StatusInvalidCode:
		return OutcomeInvalid
	case StatusCodeExpired, StatusSessionExpired:
		return OutcomeExpired
	default:
		return OutcomeFailure
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeExpired:
		return "expired"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

const (
	MsgVerified     = "Verification successful"
	MsgInvalidCode  = "Invalid OTP code, please try again"
	MsgExpired      = "OTP code has expired, please request a new one"
	MsgFailure      = "Verification failed, please try again"
	MsgCodeResent   = "A new OTP code has been sent"
	MsgResendFailed = "Failed to resend OTP code"
)

// Message returns the text shown for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return MsgVerified
	case OutcomeInvalid:
		return MsgInvalidCode
	case OutcomeExpired:
		return MsgExpired
	case OutcomeFailure:
		return MsgFailure
	default:
		return ""
	}
}

// IncompleteMessage is shown when verify is pressed before every slot is
// filled.
func IncompleteMessage(n int) string {
	return fmt.Sprintf("Please enter all %d digits", n)
}
