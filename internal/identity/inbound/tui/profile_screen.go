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

type profileField struct {
	name  string
	label string
	input textinput.Model
}

type (
	profileLoadedMsg struct {
		profile *entity.Profile
		err     error
	}
	profileSavedMsg struct {
		profile *entity.Profile
		err     error
	}
)

// ProfileScreen shows and edits the signed-in user's personal details.
type ProfileScreen struct {
	ctx     context.Context
	uc      uc
	styles  ui.Styles
	keys    keyMap
	spinner spinner.Model

	phone   string
	fields  []profileField
	focus   int
	loading bool
	saving  bool
	errs    map[string]string
}

func NewProfileScreen(ctx context.Context, u uc, styles ui.Styles) *ProfileScreen {
	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		return in
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner

	s := &ProfileScreen{
		ctx:     ctx,
		uc:      u,
		styles:  styles,
		keys:    defaultKeyMap(),
		spinner: sp,
		loading: true,
		fields: []profileField{
			{name: "full_name", label: "Full name", input: newInput("Siti Aminah", 100)},
			{name: "email", label: "Email", input: newInput("siti@example.com", 254)},
			{name: "birth_date", label: "Birth date", input: newInput("YYYY-MM-DD", 10)},
			{name: "gender", label: "Gender", input: newInput("male / female / other", 6)},
			{name: "address", label: "Address", input: newInput("Jl. Sawah No. 1", 255)},
			{name: "postal_code", label: "Postal code", input: newInput("12345", 5)},
		},
	}
	s.setFocus(0)

	return s
}

func (s *ProfileScreen) Init() tea.Cmd {
	return tea.Batch(s.load, textinput.Blink, s.spinner.Tick)
}

func (s *ProfileScreen) Title() string { return "Profile" }

func (s *ProfileScreen) Help() string {
	return joinHelp(s.keys.Next, s.keys.Save, s.keys.Back)
}

func (s *ProfileScreen) load() tea.Msg {
	p, err := s.uc.Profile(s.ctx)
	return profileLoadedMsg{profile: p, err: err}
}

func (s *ProfileScreen) value(name string) string {
	for _, f := range s.fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

func (s *ProfileScreen) save() tea.Cmd {
	in := usecase.ProfileUpdateInput{
		FullName:   s.value("full_name"),
		Email:      s.value("email"),
		BirthDate:  s.value("birth_date"),
		Gender:     s.value("gender"),
		Address:    s.value("address"),
		PostalCode: s.value("postal_code"),
	}

	return func() tea.Msg {
		p, err := s.uc.ProfileUpdate(s.ctx, in)
		return profileSavedMsg{profile: p, err: err}
	}
}

func (s *ProfileScreen) fill(p *entity.Profile) {
	s.phone = p.Phone
	values := map[string]string{
		"full_name":   p.FullName,
		"email":       p.Email,
		"birth_date":  p.BirthDate,
		"gender":      string(p.Gender),
		"address":     p.Address,
		"postal_code": p.PostalCode,
	}
	for i := range s.fields {
		s.fields[i].input.SetValue(values[s.fields[i].name])
	}
}

func (s *ProfileScreen) setFocus(i int) {
	n := len(s.fields)
	s.focus = (i + n) % n
	for j := range s.fields {
		if j == s.focus {
			s.fields[j].input.Focus()
			continue
		}
		s.fields[j].input.Blur()
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case profileLoadedMsg:
		s.loading = false
		if msg.err != nil {
			return s, screen.Notify(ui.ToastError, goerror.MessageOf(msg.err))
		}
		s.fill(msg.profile)
		return s, nil

	case profileSavedMsg:
		s.saving = false
		if msg.err != nil {
			s.errs = goerror.FieldsOf(msg.err)
			if len(s.errs) > 0 {
				return s, screen.Notify(ui.ToastWarning, "Please fix the highlighted fields")
			}
			return s, screen.Notify(ui.ToastError, goerror.MessageOf(msg.err))
		}
		s.errs = nil
		s.fill(msg.profile)
		return s, screen.Notify(ui.ToastSuccess, "Profile saved")

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Back):
			return s, screen.Pop
		case s.loading || s.saving:
			return s, nil
		case key.Matches(msg, s.keys.Save):
			s.saving = true
			return s, s.save()
		case key.Matches(msg, s.keys.Next), key.Matches(msg, s.keys.Submit):
			s.setFocus(s.focus + 1)
			return s, nil
		case key.Matches(msg, s.keys.Prev):
			s.setFocus(s.focus - 1)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus].input, cmd = s.fields[s.focus].input.Update(msg)
	return s, cmd
}

func (s *ProfileScreen) View() string {
	if s.loading {
		return s.spinner.View() + " Loading profile"
	}

	var b strings.Builder
	b.WriteString(s.styles.Muted.Render("Phone " + s.phone))
	b.WriteString("\n\n")

	for i, f := range s.fields {
		label := s.styles.Label
		if i == s.focus {
			label = s.styles.Info
		}
		b.WriteString(label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if msg, ok := s.errs[f.name]; ok {
			b.WriteString(s.styles.Error.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	save := "Save"
	if s.saving {
		save = s.spinner.View() + " Saving"
	}
	b.WriteString(s.styles.RenderButton(save, !s.saving))

	return b.String()
}
