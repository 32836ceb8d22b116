package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/goroutine"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type verifyCall struct {
	code string
	ref  string
}

type fakeAPI struct {
	mu          sync.Mutex
	verifyCalls []verifyCall
	sendCalls   []entity.SendOTP

	verifyResp *entity.Verification
	verifyErr  error
	sendResp   *entity.Challenge
	sendErr    error

	entered chan struct{}
	release chan struct{}
}

func (f *fakeAPI) SendOTP(_ context.Context, in entity.SendOTP) (*entity.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sendCalls = append(f.sendCalls, in)
	return f.sendResp, f.sendErr
}

func (f *fakeAPI) VerifyOTP(_ context.Context, code, ref string) (*entity.Verification, error) {
	f.mu.Lock()
	f.verifyCalls = append(f.verifyCalls, verifyCall{code: code, ref: ref})
	entered, release := f.entered, f.release
	resp, err := f.verifyResp, f.verifyErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}

	return resp, err
}

func (f *fakeAPI) verifies() []verifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]verifyCall(nil), f.verifyCalls...)
}

func (f *fakeAPI) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sendCalls)
}

type harness struct {
	api   *fakeAPI
	clock *clock.Fake
	mgr   *goroutine.Manager
	dep   Dependency
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("verification:\n  success_dismiss_millis: 500\n"))
	require.NoError(t, err)

	h := &harness{
		api:   &fakeAPI{},
		clock: clock.NewFake(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
		mgr:   goroutine.NewManager(4),
	}
	h.dep = Dependency{
		RepoAPI:    h.api,
		Config:     cfg,
		Clock:      h.clock,
		Goroutine:  h.mgr,
		Instrument: instrument.NewNoop(),
	}

	t.Cleanup(func() { assert.NoError(t, h.mgr.Wait()) })
	return h
}

func (h *harness) widget(t *testing.T, p Params) *Widget {
	t.Helper()

	if p.PhoneSuffix == "" {
		p.PhoneSuffix = "81234567"
		p.CountryCode = "62"
	}
	w := NewWidget(h.dep, p)
	t.Cleanup(w.Close)
	return w
}

func typeCode(w *Widget, code string) {
	for i, r := range code {
		w.Type(i, r)
	}
}

func TestWidget_VerifySuccessDismissesAfterDelay(t *testing.T) {
	h := newHarness(t)
	h.api.verifyResp = &entity.Verification{StatusCode: 200, AccessToken: "at", RefreshToken: "rt"}

	dismissed := make(chan VerifyResult, 2)
	w := h.widget(t, Params{SessionReference: "ref-1", OnSuccess: func(r VerifyResult) { dismissed <- r }})

	typeCode(w, "12345")
	require.True(t, w.Snapshot().CanVerify)

	res, err := w.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeSuccess, res.Outcome)
	assert.Equal(t, "at", res.AccessToken)
	assert.Equal(t, []verifyCall{{code: "12345", ref: "ref-1"}}, h.api.verifies())

	st := w.Snapshot()
	assert.Equal(t, entity.PhaseVerified, st.Phase)
	assert.Equal(t, entity.MsgVerified, st.Message)
	assert.False(t, w.Type(0, '9'), "verified widget rejects edits")
	assert.False(t, w.Tick(), "countdown stops once verified")

	require.Eventually(t, func() bool { return h.clock.Waiters() == 1 }, time.Second, time.Millisecond)
	select {
	case <-dismissed:
		t.Fatal("dismissed before the delay")
	default:
	}

	h.clock.Advance(500 * time.Millisecond)

	select {
	case r := <-dismissed:
		assert.Equal(t, "rt", r.RefreshToken)
	case <-time.After(time.Second):
		t.Fatal("success callback not invoked")
	}

	_, err = w.Verify(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestWidget_CloseCancelsDismiss(t *testing.T) {
	h := newHarness(t)
	h.api.verifyResp = &entity.Verification{StatusCode: 200}

	called := make(chan struct{}, 1)
	w := h.widget(t, Params{SessionReference: "ref-1", OnSuccess: func(VerifyResult) { called <- struct{}{} }})
	typeCode(w, "12345")

	_, err := w.Verify(context.Background())
	require.NoError(t, err)

	w.Close()
	<-w.Done()
	require.NoError(t, h.mgr.Wait())

	select {
	case <-called:
		t.Fatal("callback ran after close")
	default:
	}
}

func TestWidget_IncompleteCodeMakesNoCall(t *testing.T) {
	h := newHarness(t)
	w := h.widget(t, Params{SessionReference: "ref-1"})

	typeCode(w, "1234")
	assert.False(t, w.Snapshot().CanVerify)

	res, err := w.Verify(context.Background())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, "Please enter all 5 digits", goerror.MessageOf(err))
	assert.Equal(t, goerror.CodeInvalidInput, goerror.CodeOf(err))
	assert.Equal(t, "Please enter all 5 digits", w.Snapshot().Message)
	assert.Empty(t, h.api.verifies())

	assert.True(t, w.Type(4, '5'))
	assert.Empty(t, w.Snapshot().Message, "editing clears the message")
}

func TestWidget_BufferIgnoresConfiguredLength(t *testing.T) {
	h := newHarness(t)
	cfg, err := config.NewViperFromBytes("yaml", []byte("verification:\n  code_length: 8\n"))
	require.NoError(t, err)
	h.dep.Config = cfg

	w := h.widget(t, Params{SessionReference: "ref-1"})
	require.Equal(t, 8, cfg.GetInt("verification.code_length"))
	assert.Len(t, w.Snapshot().Slots, entity.CodeLength)

	w.Paste("12345678")
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, w.Snapshot().Slots)
}

func TestWidget_CountdownExpiresAndLocks(t *testing.T) {
	h := newHarness(t)
	w := h.widget(t, Params{SessionReference: "ref-1"})
	typeCode(w, "12345")

	assert.Equal(t, 60*time.Second, w.Snapshot().Remaining)
	assert.ErrorIs(t, w.Resend(context.Background()), ErrResendUnavailable)
	assert.Zero(t, h.api.sends())

	for range 59 {
		require.True(t, w.Tick())
	}
	st := w.Snapshot()
	assert.Equal(t, time.Second, st.Remaining)
	assert.False(t, st.Expired)

	require.True(t, w.Tick())
	st = w.Snapshot()
	assert.True(t, st.Expired)
	assert.Zero(t, st.Remaining)
	assert.True(t, st.CanResend)
	assert.False(t, st.CanVerify)
	assert.Equal(t, entity.MsgExpired, st.Message)
	assert.False(t, w.Tick())

	assert.False(t, w.Backspace(4), "expired widget rejects edits")
	assert.False(t, w.Paste("99999"))

	_, err := w.Verify(context.Background())
	assert.Equal(t, goerror.CodeExpired, goerror.CodeOf(err))
	assert.Empty(t, h.api.verifies())
}

func TestWidget_EmptySessionStartsExpired(t *testing.T) {
	h := newHarness(t)
	w := h.widget(t, Params{})

	st := w.Snapshot()
	assert.True(t, st.Expired)
	assert.True(t, st.CanResend)
	assert.False(t, w.Type(0, '1'))
}

func TestWidget_ResendAfterExpiry(t *testing.T) {
	h := newHarness(t)
	h.api.sendResp = &entity.Challenge{SessionReference: "ref-2", ExpiresIn: 60}
	h.api.verifyResp = &entity.Verification{StatusCode: 401}

	w := h.widget(t, Params{SessionReference: "ref-1"})
	typeCode(w, "12345")
	for range 60 {
		w.Tick()
	}

	require.NoError(t, w.Resend(context.Background()))

	st := w.Snapshot()
	assert.False(t, st.Expired)
	assert.Equal(t, 60*time.Second, st.Remaining)
	assert.Equal(t, []string{"", "", "", "", ""}, st.Slots)
	assert.Equal(t, 0, st.Focus)
	assert.Equal(t, entity.MsgCodeResent, st.Message)
	assert.False(t, st.CanResend)
	assert.Equal(t, 1, h.api.sends())

	typeCode(w, "54321")
	_, err := w.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ref-2", h.api.verifies()[0].ref)
}

func TestWidget_ResendFailureKeepsTimer(t *testing.T) {
	h := newHarness(t)
	h.api.sendErr = goerror.NewBusiness("Too many OTP requests", goerror.CodeTooManyRequest)

	w := h.widget(t, Params{SessionReference: "ref-1"})
	for range 60 {
		w.Tick()
	}

	err := w.Resend(context.Background())
	assert.Equal(t, goerror.CodeTooManyRequest, goerror.CodeOf(err))

	st := w.Snapshot()
	assert.True(t, st.Expired)
	assert.Zero(t, st.Remaining)
	assert.True(t, st.CanResend)
	assert.Equal(t, "Too many OTP requests", st.Message)

	h.api.sendErr = goerror.NewServer(errors.New("dial tcp: connection refused"))
	require.Error(t, w.Resend(context.Background()))
	assert.Equal(t, entity.MsgResendFailed, w.Snapshot().Message)
}

func TestWidget_ResendRejectsEmptyReference(t *testing.T) {
	h := newHarness(t)
	h.api.sendResp = &entity.Challenge{}

	w := h.widget(t, Params{})
	require.Error(t, w.Resend(context.Background()))
	assert.True(t, w.Snapshot().Expired)
}

func TestWidget_StatusOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		resp        *entity.Verification
		err         error
		want        entity.Outcome
		wantExpired bool
	}{
		{name: "invalid", resp: &entity.Verification{StatusCode: 401}, want: entity.OutcomeInvalid},
		{name: "code expired", resp: &entity.Verification{StatusCode: 410}, want: entity.OutcomeExpired, wantExpired: true},
		{name: "session expired", resp: &entity.Verification{StatusCode: 419}, want: entity.OutcomeExpired, wantExpired: true},
		{name: "unknown status", resp: &entity.Verification{StatusCode: 503}, want: entity.OutcomeFailure},
		{name: "transport mentions expired", err: errors.New("token Expired upstream"), want: entity.OutcomeExpired, wantExpired: true},
		{name: "transport failure", err: goerror.NewServer(errors.New("connection reset")), want: entity.OutcomeFailure},
		{name: "http gone", err: goerror.FromStatusCode(410, "", nil), want: entity.OutcomeExpired, wantExpired: true},
		{name: "http unauthorized", err: goerror.FromStatusCode(401, "", nil), want: entity.OutcomeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.api.verifyResp, h.api.verifyErr = tt.resp, tt.err

			w := h.widget(t, Params{SessionReference: "ref-1"})
			typeCode(w, "12345")

			res, err := w.Verify(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.want.Message(), res.Message)
			assert.Empty(t, res.AccessToken)

			st := w.Snapshot()
			assert.Equal(t, entity.PhaseEntering, st.Phase)
			assert.Equal(t, tt.want, st.Outcome)
			assert.Equal(t, tt.wantExpired, st.Expired)
			assert.Equal(t, tt.wantExpired, st.CanResend)
			assert.Equal(t, []string{"1", "2", "3", "4", "5"}, st.Slots, "the code is kept for correction")
		})
	}
}

func TestWidget_SingleVerifyInFlight(t *testing.T) {
	h := newHarness(t)
	h.api.verifyResp = &entity.Verification{StatusCode: 401}
	h.api.entered = make(chan struct{}, 1)
	h.api.release = make(chan struct{})

	w := h.widget(t, Params{SessionReference: "ref-1"})
	typeCode(w, "12345")

	done := make(chan error, 1)
	go func() {
		_, err := w.Verify(context.Background())
		done <- err
	}()
	<-h.api.entered

	st := w.Snapshot()
	assert.Equal(t, entity.PhaseSubmitting, st.Phase)
	assert.True(t, st.Verifying)
	assert.False(t, st.CanVerify)
	assert.False(t, w.Backspace(4), "submitting widget rejects edits")

	_, err := w.Verify(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(h.api.release)
	require.NoError(t, <-done)
	assert.Len(t, h.api.verifies(), 1)
	assert.False(t, w.Snapshot().Verifying)
}

func TestWidget_DiscardsResultOfReplacedSession(t *testing.T) {
	h := newHarness(t)
	h.api.verifyResp = &entity.Verification{StatusCode: 200, AccessToken: "at"}
	h.api.sendResp = &entity.Challenge{SessionReference: "ref-2"}
	h.api.entered = make(chan struct{}, 1)
	h.api.release = make(chan struct{})

	called := make(chan struct{}, 1)
	w := h.widget(t, Params{SessionReference: "ref-1", OnSuccess: func(VerifyResult) { called <- struct{}{} }})
	typeCode(w, "12345")
	for range 59 {
		w.Tick()
	}

	done := make(chan error, 1)
	go func() {
		_, err := w.Verify(context.Background())
		done <- err
	}()
	<-h.api.entered

	require.True(t, w.Tick())
	require.NoError(t, w.Resend(context.Background()))

	close(h.api.release)
	assert.ErrorIs(t, <-done, ErrStale)

	st := w.Snapshot()
	assert.Equal(t, entity.PhaseEntering, st.Phase)
	assert.Equal(t, entity.MsgCodeResent, st.Message)
	assert.Zero(t, h.clock.Waiters())
	select {
	case <-called:
		t.Fatal("stale success must not dismiss")
	default:
	}
}

func TestWidget_EditingOps(t *testing.T) {
	h := newHarness(t)
	w := h.widget(t, Params{SessionReference: "ref-1"})

	assert.True(t, w.Paste("12-34"))
	st := w.Snapshot()
	assert.Equal(t, []string{"1", "2", "3", "4", ""}, st.Slots)
	assert.Equal(t, 4, st.Focus)

	assert.True(t, w.Backspace(4))
	assert.Equal(t, []string{"1", "2", "3", "", ""}, w.Snapshot().Slots)

	assert.True(t, w.Delete(0))
	assert.Equal(t, []string{"2", "3", "", "", ""}, w.Snapshot().Slots)

	assert.True(t, w.SetFocus(1))
	assert.Equal(t, 1, w.Snapshot().Focus)

	assert.False(t, w.Type(1, 'x'))
}
