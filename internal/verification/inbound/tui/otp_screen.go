package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"github.com/shandysiswandi/myfarm/internal/verification/usecase"
	"go.uber.org/atomic"
)

var lastID atomic.Int64

func nextID() int64 { return lastID.Inc() }

type uc interface {
	NewWidget(p usecase.Params) *usecase.Widget
}

type (
	tickMsg      struct{ id int64 }
	verifiedMsg  struct{ err error }
	resentMsg    struct{ err error }
	pastedMsg    struct{ text string }
	dismissedMsg struct{ result usecase.VerifyResult }
)

// OTPScreen renders a verification widget and drives it from key events.
type OTPScreen struct {
	id         int64
	ctx        context.Context
	widget     *usecase.Widget
	styles     ui.Styles
	keys       keyMap
	spinner    spinner.Model
	dismissed  chan usecase.VerifyResult
	onVerified func(usecase.VerifyResult) tea.Cmd
	readClip   func() (string, error)
	width      int
}

// NewOTPScreen opens the OTP screen for a sent code. onVerified runs on the
// UI loop once the success message has been dismissed.
func NewOTPScreen(
	ctx context.Context,
	u uc,
	styles ui.Styles,
	p usecase.Params,
	onVerified func(usecase.VerifyResult) tea.Cmd,
) *OTPScreen {
	dismissed := make(chan usecase.VerifyResult, 1)
	p.OnSuccess = func(r usecase.VerifyResult) {
		select {
		case dismissed <- r:
		default:
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner

	return &OTPScreen{
		id:         nextID(),
		ctx:        ctx,
		widget:     u.NewWidget(p),
		styles:     styles,
		keys:       defaultKeyMap(),
		spinner:    sp,
		dismissed:  dismissed,
		onVerified: onVerified,
		readClip:   clipboard.ReadAll,
	}
}

// tick schedules the next countdown step. Ticks carry the screen id so a
// tick left over from a closed screen is dropped by the next one.
func (s *OTPScreen) tick() tea.Cmd {
	id := s.id
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{id: id} })
}

func (s *OTPScreen) waitDismiss() tea.Msg {
	select {
	case r := <-s.dismissed:
		return dismissedMsg{result: r}
	case <-s.widget.Done():
		return nil
	}
}

func (s *OTPScreen) Init() tea.Cmd {
	return tea.Batch(s.tick(), s.spinner.Tick, s.waitDismiss)
}

func (s *OTPScreen) Title() string { return "Verify OTP" }

func (s *OTPScreen) Help() string { return s.keys.help() }

func (s *OTPScreen) SetSize(width, _ int) { s.width = width }

// Close releases the widget.
func (s *OTPScreen) Close() { s.widget.Close() }

// Widget exposes the underlying state machine.
func (s *OTPScreen) Widget() *usecase.Widget { return s.widget }

func (s *OTPScreen) verify() tea.Msg {
	_, err := s.widget.Verify(s.ctx)
	return verifiedMsg{err: err}
}

func (s *OTPScreen) resend() tea.Msg {
	return resentMsg{err: s.widget.Resend(s.ctx)}
}

func (s *OTPScreen) paste() tea.Msg {
	text, err := s.readClip()
	if err != nil {
		slog.Warn("failed to read clipboard", "error", err)
		return nil
	}
	return pastedMsg{text: text}
}

func (s *OTPScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.id != s.id {
			return s, nil
		}
		s.widget.Tick()
		if s.widget.Snapshot().Phase == entity.PhaseVerified {
			return s, nil
		}
		return s, s.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case pastedMsg:
		s.widget.Paste(msg.text)
		return s, nil

	case verifiedMsg:
		return s, nil

	case resentMsg:
		if msg.err == nil {
			return s, screen.Notify(ui.ToastSuccess, entity.MsgCodeResent)
		}
		if errors.Is(msg.err, usecase.ErrResendUnavailable) {
			return s, screen.Notify(ui.ToastWarning, "You can resend once the countdown ends")
		}
		return s, nil

	case dismissedMsg:
		if s.onVerified == nil {
			return s, screen.Pop
		}
		return s, s.onVerified(msg.result)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	return s, nil
}

func (s *OTPScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	focus := s.widget.Snapshot().Focus

	switch {
	case key.Matches(msg, s.keys.Back):
		return screen.Pop
	case key.Matches(msg, s.keys.Verify):
		return s.verify
	case key.Matches(msg, s.keys.Resend):
		return s.resend
	case key.Matches(msg, s.keys.Paste):
		return s.paste
	case key.Matches(msg, s.keys.Backspace):
		s.widget.Backspace(focus)
	case key.Matches(msg, s.keys.Delete):
		s.widget.Delete(focus)
	case key.Matches(msg, s.keys.Left):
		s.widget.SetFocus(focus - 1)
	case key.Matches(msg, s.keys.Right):
		s.widget.SetFocus(focus + 1)
	case msg.Type == tea.KeyRunes:
		if msg.Paste {
			s.widget.Paste(string(msg.Runes))
			return nil
		}
		// Fast typing can arrive as one message with several runes.
		for _, r := range msg.Runes {
			s.widget.Type(s.widget.Snapshot().Focus, r)
		}
	}

	return nil
}

func maskPhone(countryCode, suffix string) string {
	visible := suffix
	if len(suffix) > 4 {
		visible = strings.Repeat("•", len(suffix)-4) + suffix[len(suffix)-4:]
	}
	return "+" + countryCode + " " + visible
}

func (s *OTPScreen) View() string {
	st := s.widget.Snapshot()

	var b strings.Builder
	b.WriteString(s.styles.Body.Render(fmt.Sprintf(
		"Enter the %d-digit code sent to %s", len(st.Slots), maskPhone(st.CountryCode, st.PhoneSuffix))))
	b.WriteString("\n\n")
	b.WriteString(s.renderCells(st))
	b.WriteString("\n\n")

	if st.Expired {
		b.WriteString(s.styles.Warning.Render("Code expired"))
	} else if st.Phase != entity.PhaseVerified {
		secs := int(st.Remaining / time.Second)
		b.WriteString(s.styles.Muted.Render(fmt.Sprintf("Code expires in %d:%02d", secs/60, secs%60)))
	}
	b.WriteString("\n")

	if st.Message != "" {
		b.WriteString(s.renderMessage(st))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	verify := "Verify"
	if st.Verifying {
		verify = s.spinner.View() + " Verifying"
	}
	resend := "Resend"
	if st.Resending {
		resend = s.spinner.View() + " Sending"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.styles.RenderButton(verify, st.CanVerify),
		"  ",
		s.styles.RenderButton(resend, st.CanResend),
	))

	return b.String()
}

func (s *OTPScreen) renderCells(st usecase.State) string {
	locked := st.Expired || st.Phase != entity.PhaseEntering

	cells := make([]string, 0, len(st.Slots))
	for i, v := range st.Slots {
		style := s.styles.Cell
		switch {
		case locked:
			style = s.styles.CellLocked
		case i == st.Focus:
			style = s.styles.CellFocused
		}
		if v == "" {
			v = " "
		}
		cells = append(cells, style.Render(v))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (s *OTPScreen) renderMessage(st usecase.State) string {
	switch st.Outcome {
	case entity.OutcomeSuccess:
		return s.styles.Success.Render(st.Message)
	case entity.OutcomeInvalid, entity.OutcomeFailure:
		return s.styles.Error.Render(st.Message)
	case entity.OutcomeExpired:
		return s.styles.Warning.Render(st.Message)
	}

	if st.Expired {
		return s.styles.Warning.Render(st.Message)
	}
	return s.styles.Info.Render(st.Message)
}
