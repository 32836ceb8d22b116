package entity

// Phase is where the widget is in a verification attempt. It is independent
// of the countdown, which may expire in any phase except PhaseVerified.
type Phase int

const (
	// PhaseEntering accepts edits, verify and (once expired) resend.
	PhaseEntering Phase = iota
	// PhaseSubmitting waits for the verify call; edits are rejected.
	PhaseSubmitting
	// PhaseVerified is terminal; the widget dismisses itself shortly after.
	PhaseVerified
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "Submitting"
	case PhaseVerified:
		return "Verified"
	default:
		return "Entering"
	}
}
