package tui

import (
	"context"
	"strings"

	"nerves/internal/client"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel renders the sign-in form. Ctrl+R flips it into registration
// mode, which adds the optional username field. Registration never signs the
// user in; it only shows the confirmation prompt.
type loginModel struct {
	ctx context.Context
	api *client.Client

	registering bool
	inputs      []textinput.Model
	focus       int
	submitting  bool
	status      string
	errMsg      string
}

const (
	fieldEmail = iota
	fieldPassword
	fieldUsername
)

func newLoginModel(ctx context.Context, api *client.Client) loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	username := textinput.New()
	username.Placeholder = "username (optional)"
	username.CharLimit = 64
	username.Width = 40

	return loginModel{
		ctx:    ctx,
		api:    api,
		inputs: []textinput.Model{email, password, username},
	}
}

func (m loginModel) fieldCount() int {
	if m.registering {
		return 3
	}
	return 2
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case signUpResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		// Registration is done; hand back a blank sign-in form with only
		// the confirmation prompt.
		m.registering = false
		m.status = msg.message
		m.inputs[fieldEmail].SetValue("")
		m.inputs[fieldPassword].SetValue("")
		m.inputs[fieldUsername].SetValue("")
		m.setFocus(fieldEmail)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			m.registering = !m.registering
			m.errMsg = ""
			m.status = ""
			if !m.registering && m.focus >= m.fieldCount() {
				m.setFocus(0)
			}
			return m, nil
		case "tab":
			m.setFocus((m.focus + 1) % m.fieldCount())
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount())
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errMsg = "Email and password are required"
		return m, nil
	}

	m.errMsg = ""
	m.status = ""
	m.submitting = true

	if m.registering {
		username := strings.TrimSpace(m.inputs[fieldUsername].Value())
		return m, m.cmdSignUp(email, password, username)
	}
	return m, m.cmdSignIn(email, password)
}

func (m loginModel) cmdSignIn(email, password string) tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		_, err := api.SignIn(ctx, email, password)
		return signInResultMsg{err: err}
	}
}

func (m loginModel) cmdSignUp(email, password, username string) tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		message, err := api.SignUp(ctx, email, password, username)
		return signUpResultMsg{message: message, err: err}
	}
}

func (m *loginModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m loginModel) View() string {
	var b strings.Builder

	if m.registering {
		b.WriteString(titleStyle.Render("REGISTER"))
	} else {
		b.WriteString(titleStyle.Render("SIGN IN"))
	}
	b.WriteString("\n\n")

	b.WriteString("Email    [" + m.inputs[fieldEmail].View() + "]\n")
	b.WriteString("Password [" + m.inputs[fieldPassword].View() + "]\n")
	if m.registering {
		b.WriteString("Username [" + m.inputs[fieldUsername].View() + "]\n")
	}

	if m.submitting {
		b.WriteString("\n[Submitting...]\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter: submit │ tab: next field │ ctrl+r: toggle register │ ctrl+c: quit"))
	return b.String()
}
