package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/identity/usecase"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/screen"
	"github.com/shandysiswandi/myfarm/internal/pkg/ui"
)

type uc interface {
	SignIn(ctx context.Context, in usecase.SignInInput) (*usecase.SignInOutput, error)
	CompleteSignIn(ctx context.Context, in usecase.CompleteSignInInput) error
	RememberedCredentials(ctx context.Context) *entity.Credentials
	Profile(ctx context.Context) (*entity.Profile, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*entity.Profile, error)
}

// Verifier opens the OTP entry screen for a sent code. onVerified receives
// the issued tokens once the code is accepted.
type Verifier func(out *usecase.SignInOutput, onVerified func(accessToken, refreshToken string) tea.Cmd) screen.Screen

const (
	fieldCountry = iota
	fieldPhone
	fieldRemember
	signInFields
)

type signedInMsg struct {
	out *usecase.SignInOutput
	err error
}

// SignInScreen asks for the phone number and sends the OTP.
type SignInScreen struct {
	ctx      context.Context
	uc       uc
	styles   ui.Styles
	keys     keyMap
	verifier Verifier
	home     func() screen.Screen

	country  textinput.Model
	phone    textinput.Model
	remember bool
	focus    int
	busy     bool
	errs     map[string]string
	spinner  spinner.Model
}

func NewSignInScreen(ctx context.Context, u uc, styles ui.Styles, verifier Verifier, home func() screen.Screen) *SignInScreen {
	country := textinput.New()
	country.Prompt = "+"
	country.Placeholder = "62"
	country.CharLimit = 4
	country.Width = 6
	country.SetValue("62")

	phone := textinput.New()
	phone.Placeholder = "81234567890"
	phone.CharLimit = 14
	phone.Width = 16

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner

	s := &SignInScreen{
		ctx:      ctx,
		uc:       u,
		styles:   styles,
		keys:     defaultKeyMap(),
		verifier: verifier,
		home:     home,
		country:  country,
		phone:    phone,
		spinner:  sp,
	}

	if creds := u.RememberedCredentials(ctx); creds != nil {
		s.country.SetValue(creds.CountryCode)
		s.phone.SetValue(creds.PhoneSuffix)
		s.remember = true
	}

	s.setFocus(fieldPhone)
	return s
}

func (s *SignInScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.spinner.Tick)
}

func (s *SignInScreen) Title() string { return "Sign in" }

func (s *SignInScreen) Help() string {
	return joinHelp(s.keys.Next, s.keys.Toggle, s.keys.Submit, s.keys.Back)
}

func (s *SignInScreen) setFocus(i int) {
	s.focus = (i + signInFields) % signInFields
	s.country.Blur()
	s.phone.Blur()

	switch s.focus {
	case fieldCountry:
		s.country.Focus()
	case fieldPhone:
		s.phone.Focus()
	}
}

func (s *SignInScreen) submit() tea.Cmd {
	in := usecase.SignInInput{
		CountryCode: s.country.Value(),
		PhoneSuffix: s.phone.Value(),
		Remember:    s.remember,
	}

	return func() tea.Msg {
		out, err := s.uc.SignIn(s.ctx, in)
		return signedInMsg{out: out, err: err}
	}
}

func (s *SignInScreen) completeSignIn(out *usecase.SignInOutput) func(string, string) tea.Cmd {
	return func(accessToken, refreshToken string) tea.Cmd {
		return func() tea.Msg {
			err := s.uc.CompleteSignIn(s.ctx, usecase.CompleteSignInInput{
				CountryCode:  out.CountryCode,
				PhoneSuffix:  out.PhoneSuffix,
				Remember:     out.Remember,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
			})
			if err != nil {
				return screen.ToastMsg{Kind: ui.ToastError, Text: goerror.MessageOf(err)}
			}
			return screen.ResetMsg{Screen: s.home()}
		}
	}
}

func (s *SignInScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case signedInMsg:
		s.busy = false
		if msg.err != nil {
			s.errs = goerror.FieldsOf(msg.err)
			if len(s.errs) > 0 {
				return s, nil
			}
			return s, screen.Notify(ui.ToastError, goerror.MessageOf(msg.err))
		}
		s.errs = nil
		return s, screen.Push(s.verifier(msg.out, s.completeSignIn(msg.out)))

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}

		switch {
		case key.Matches(msg, s.keys.Back):
			return s, screen.Pop
		case key.Matches(msg, s.keys.Submit):
			s.busy = true
			return s, s.submit()
		case key.Matches(msg, s.keys.Next):
			s.setFocus(s.focus + 1)
			return s, nil
		case key.Matches(msg, s.keys.Prev):
			s.setFocus(s.focus - 1)
			return s, nil
		case s.focus == fieldRemember && key.Matches(msg, s.keys.Toggle):
			s.remember = !s.remember
			return s, nil
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldCountry:
		s.country, cmd = s.country.Update(msg)
	case fieldPhone:
		s.phone, cmd = s.phone.Update(msg)
	}

	return s, cmd
}

func (s *SignInScreen) View() string {
	var b strings.Builder

	b.WriteString(s.styles.Body.Render("Sign in with your phone number. We will send you a one-time code."))
	b.WriteString("\n\n")

	s.writeField(&b, "Country code", s.country.View(), "country_code")
	s.writeField(&b, "Phone number", s.phone.View(), "phone_suffix")

	box := "[ ]"
	if s.remember {
		box = "[x]"
	}
	label := s.styles.Label
	if s.focus == fieldRemember {
		label = s.styles.Info
	}
	b.WriteString(label.Render(box + " Remember me on this device"))
	b.WriteString("\n\n")

	send := "Send code"
	if s.busy {
		send = s.spinner.View() + " Sending"
	}
	b.WriteString(s.styles.RenderButton(send, !s.busy))

	return b.String()
}

func (s *SignInScreen) writeField(b *strings.Builder, label, input, field string) {
	b.WriteString(s.styles.Label.Render(label))
	b.WriteString("\n")
	b.WriteString(input)
	b.WriteString("\n")
	if msg, ok := s.errs[field]; ok {
		b.WriteString(s.styles.Error.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
