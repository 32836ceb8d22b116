package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

var (
	// ErrInFlight is returned for a verify pressed while another is pending.
	ErrInFlight = errors.New("verification: verify already in flight")
	// ErrResendUnavailable is returned while the countdown runs or a resend
	// is pending.
	ErrResendUnavailable = errors.New("verification: resend unavailable")
	// ErrStale is returned when a resend replaced the session while the
	// verify call was in flight; its result is discarded.
	ErrStale = errors.New("verification: session replaced during verify")
	// ErrAlreadyVerified is returned by verify after success.
	ErrAlreadyVerified = errors.New("verification: already verified")
)

const (
	defaultCountdown    = 60 * time.Second
	defaultDismissDelay = 1500 * time.Millisecond
)

// Params identifies the phone number and the sent code a widget verifies.
type Params struct {
	PhoneSuffix      string
	CountryCode      string
	SessionReference string
	// OnSuccess runs once, after the success message has been shown for the
	// dismiss delay. It is called from a background goroutine.
	OnSuccess func(VerifyResult)
}

// VerifyResult is the outcome of a verify call that reached the API.
type VerifyResult struct {
	Outcome      entity.Outcome
	Message      string
	AccessToken  string
	RefreshToken string
	// Err is the transport error behind OutcomeFailure or OutcomeExpired, if any.
	Err error
}

// State is an immutable view of a widget for rendering.
type State struct {
	PhoneSuffix string
	CountryCode string
	Slots       []string
	Focus       int
	Remaining   time.Duration
	Expired     bool
	Phase       entity.Phase
	Outcome     entity.Outcome
	Message     string
	Verifying   bool
	Resending   bool
	CanVerify   bool
	CanResend   bool
}

// Widget is the OTP entry state machine: code editing, a countdown, verify
// and resend. It is safe for concurrent use; key events and API results may
// arrive on different goroutines.
type Widget struct {
	dep Dependency

	mu          sync.Mutex
	params      Params
	buf         *entity.CodeBuffer
	sessionRef  string
	generation  uint64
	countdown   time.Duration
	remaining   time.Duration
	expired     bool
	phase       entity.Phase
	outcome     entity.Outcome
	message     string
	dismissWait time.Duration
	dismissed   bool

	verifying atomic.Bool
	resending atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWidget opens a widget with a full countdown. An empty session reference
// starts the widget expired so only resend is accepted.
func NewWidget(dep Dependency, p Params) *Widget {
	countdown := dep.Config.GetSecond("verification.countdown_seconds")
	if countdown <= 0 {
		countdown = defaultCountdown
	}

	dismissWait := dep.Config.GetMilli("verification.success_dismiss_millis")
	if dismissWait <= 0 {
		dismissWait = defaultDismissDelay
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Widget{
		dep:         dep,
		params:      p,
		buf:         entity.NewCodeBuffer(entity.CodeLength),
		sessionRef:  p.SessionReference,
		countdown:   countdown,
		remaining:   countdown,
		phase:       entity.PhaseEntering,
		dismissWait: dismissWait,
		ctx:         ctx,
		cancel:      cancel,
	}

	if p.SessionReference == "" {
		w.expireLocked()
	}

	return w
}

// Done is closed once the widget is closed.
func (w *Widget) Done() <-chan struct{} {
	return w.ctx.Done()
}

// Close cancels a pending success dismissal.
func (w *Widget) Close() {
	w.cancel()
}

func (w *Widget) editableLocked() bool {
	return !w.expired && w.phase == entity.PhaseEntering
}

func (w *Widget) edit(fn func(b *entity.CodeBuffer) bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.editableLocked() {
		return false
	}

	if !fn(w.buf) {
		return false
	}

	w.outcome = entity.OutcomeNone
	w.message = ""

	return true
}

// Type stores digit r at slot i.
func (w *Widget) Type(i int, r rune) bool {
	return w.edit(func(b *entity.CodeBuffer) bool { return b.Type(i, r) })
}

// Backspace applies backspace at slot i.
func (w *Widget) Backspace(i int) bool {
	return w.edit(func(b *entity.CodeBuffer) bool { return b.Backspace(i) })
}

// Delete applies delete at slot i.
func (w *Widget) Delete(i int) bool {
	return w.edit(func(b *entity.CodeBuffer) bool { return b.Delete(i) })
}

// Paste replaces the code with the digits of s.
func (w *Widget) Paste(s string) bool {
	return w.edit(func(b *entity.CodeBuffer) bool {
		b.Paste(s)
		return true
	})
}

// SetFocus moves the cursor to slot i.
func (w *Widget) SetFocus(i int) bool {
	return w.edit(func(b *entity.CodeBuffer) bool {
		b.SetFocus(i)
		return true
	})
}

// Tick advances the countdown by one second and reports whether the state
// changed. Reaching zero expires the session and unlocks resend.
func (w *Widget) Tick() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expired || w.phase == entity.PhaseVerified {
		return false
	}

	w.remaining -= time.Second
	if w.remaining <= 0 {
		w.expireLocked()
		w.message = entity.MsgExpired
	}

	return true
}

func (w *Widget) expireLocked() {
	w.remaining = 0
	w.expired = true
	w.sessionRef = ""
}

// Verify submits the code when it is complete and the session is live.
//
// Local rejections return a goerror with the message to show and make no
// API call. Remote answers, including transport failures, come back as a
// VerifyResult with a nil error.
func (w *Widget) Verify(ctx context.Context) (*VerifyResult, error) {
	if !w.verifying.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer w.verifying.Store(false)

	ctx, span := w.startSpan(ctx, "Verify")
	defer span.End()

	w.mu.Lock()
	if w.phase == entity.PhaseVerified {
		w.mu.Unlock()
		return nil, ErrAlreadyVerified
	}

	if !w.buf.Complete() {
		w.message = entity.IncompleteMessage(w.buf.Len())
		w.mu.Unlock()
		return nil, goerror.NewIncomplete(entity.IncompleteMessage(w.buf.Len()))
	}

	if w.expired || w.sessionRef == "" {
		w.outcome = entity.OutcomeExpired
		w.message = entity.MsgExpired
		w.mu.Unlock()
		return nil, goerror.NewBusiness(entity.MsgExpired, goerror.CodeExpired)
	}

	code, ref, gen := w.buf.Code(), w.sessionRef, w.generation
	w.phase = entity.PhaseSubmitting
	w.mu.Unlock()

	resp, err := w.dep.RepoAPI.VerifyOTP(ctx, code, ref)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		slog.WarnContext(ctx, "discarding verify result for a replaced session")
		if w.phase == entity.PhaseSubmitting {
			w.phase = entity.PhaseEntering
		}
		return nil, ErrStale
	}

	result := w.classify(ctx, resp, err)
	span.SetAttributes(attribute.String("outcome", result.Outcome.String()))

	w.outcome = result.Outcome
	w.message = result.Message

	switch result.Outcome {
	case entity.OutcomeSuccess:
		w.phase = entity.PhaseVerified
		w.scheduleDismissLocked(*result)
	case entity.OutcomeExpired:
		w.phase = entity.PhaseEntering
		w.expireLocked()
	default:
		w.phase = entity.PhaseEntering
	}

	return result, nil
}

func (w *Widget) classify(ctx context.Context, resp *entity.Verification, err error) *VerifyResult {
	if err != nil {
		outcome := entity.OutcomeFailure
		switch {
		case goerror.CodeOf(err) == goerror.CodeExpired:
			outcome = entity.OutcomeExpired
		case goerror.CodeOf(err) == goerror.CodeUnauthorized:
			outcome = entity.OutcomeInvalid
		case strings.Contains(strings.ToLower(err.Error()), "expired"):
			outcome = entity.OutcomeExpired
		}

		slog.ErrorContext(ctx, "failed to verify otp", "outcome", outcome.String(), "error", err)
		return &VerifyResult{Outcome: outcome, Message: outcome.Message(), Err: err}
	}

	outcome := resp.StatusCode.Outcome()
	if outcome == entity.OutcomeFailure {
		slog.WarnContext(ctx, "unknown verify status code", "status_code", int(resp.StatusCode))
	}

	result := &VerifyResult{Outcome: outcome, Message: outcome.Message()}
	if outcome == entity.OutcomeSuccess {
		result.AccessToken = resp.AccessToken
		result.RefreshToken = resp.RefreshToken
	}

	return result
}

func (w *Widget) scheduleDismissLocked(result VerifyResult) {
	started := w.dep.Goroutine.Go(w.ctx, "verification.dismiss", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.dep.Clock.After(w.dismissWait):
		}

		w.dismiss(result)
		return nil
	})

	if !started {
		slog.Warn("dismissing verification without delay")
		go w.dismiss(result)
	}
}

func (w *Widget) dismiss(result VerifyResult) {
	w.mu.Lock()
	if w.dismissed {
		w.mu.Unlock()
		return
	}
	w.dismissed = true
	onSuccess := w.params.OnSuccess
	w.mu.Unlock()

	if onSuccess != nil {
		onSuccess(result)
	}
}

func (w *Widget) canResendLocked() bool {
	return w.expired && w.phase != entity.PhaseVerified && !w.resending.Load()
}

// Resend requests a new code. It is only available once the countdown has
// expired. On success the countdown restarts, the code is cleared and the
// session reference is replaced; on failure only the message changes.
func (w *Widget) Resend(ctx context.Context) error {
	ctx, span := w.startSpan(ctx, "Resend")
	defer span.End()

	w.mu.Lock()
	if !w.canResendLocked() || !w.resending.CompareAndSwap(false, true) {
		w.mu.Unlock()
		return ErrResendUnavailable
	}
	in := entity.SendOTP{PhoneSuffix: w.params.PhoneSuffix, CountryCode: w.params.CountryCode}
	w.mu.Unlock()

	defer w.resending.Store(false)

	ch, err := w.dep.RepoAPI.SendOTP(ctx, in)
	if err == nil && ch.SessionReference == "" {
		err = goerror.NewBusiness(entity.MsgResendFailed, goerror.CodeInternal)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		slog.ErrorContext(ctx, "failed to resend otp", "country_code", in.CountryCode, "error", err)
		span.RecordError(err)

		var gerr *goerror.Error
		if errors.As(err, &gerr) && gerr.Msg() != "" && gerr.Type() != goerror.TypeServer {
			w.message = gerr.Msg()
		} else {
			w.message = entity.MsgResendFailed
		}
		return err
	}

	w.generation++
	w.sessionRef = ch.SessionReference
	w.remaining = w.countdown
	w.expired = false
	w.buf.Clear()
	w.phase = entity.PhaseEntering
	w.outcome = entity.OutcomeNone
	w.message = entity.MsgCodeResent

	return nil
}

// Snapshot returns the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	verifying := w.verifying.Load()

	return State{
		PhoneSuffix: w.params.PhoneSuffix,
		CountryCode: w.params.CountryCode,
		Slots:       w.buf.Slots(),
		Focus:       w.buf.Focus(),
		Remaining:   w.remaining,
		Expired:     w.expired,
		Phase:       w.phase,
		Outcome:     w.outcome,
		Message:     w.message,
		Verifying:   verifying,
		Resending:   w.resending.Load(),
		CanVerify:   !verifying && w.editableLocked() && w.buf.Complete() && w.sessionRef != "",
		CanResend:   w.canResendLocked(),
	}
}

func (w *Widget) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return w.dep.Instrument.Tracer("verification.usecase").Start(ctx, name)
}
