package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"nerves/internal/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newTestLogin() loginModel {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := client.New(client.Config{BaseURL: "http://localhost"}, logger)

	return newLoginModel(context.Background(), api)
}

func TestLogin_SignUpSuccessClearsForm(t *testing.T) {
	m := newTestLogin()
	m.registering = true
	m.submitting = true
	m.inputs[fieldEmail].SetValue("kael@void.example")
	m.inputs[fieldPassword].SetValue("hunter2222")
	m.inputs[fieldUsername].SetValue("kael")
	m.setFocus(fieldUsername)

	m, _ = m.Update(signUpResultMsg{message: "Account registered, check your email to confirm"})

	assert.Empty(t, m.inputs[fieldEmail].Value())
	assert.Empty(t, m.inputs[fieldPassword].Value())
	assert.Empty(t, m.inputs[fieldUsername].Value())
	assert.Equal(t, fieldEmail, m.focus)
	assert.False(t, m.registering, "form returns to sign-in mode")
	assert.False(t, m.submitting)
	assert.Equal(t, "Account registered, check your email to confirm", m.status)
}

func TestLogin_SignUpFailureKeepsForm(t *testing.T) {
	m := newTestLogin()
	m.registering = true
	m.submitting = true
	m.inputs[fieldEmail].SetValue("kael@void.example")
	m.inputs[fieldPassword].SetValue("hunter2222")
	m.inputs[fieldUsername].SetValue("kael")

	m, _ = m.Update(signUpResultMsg{err: assert.AnError})

	// A rejected registration keeps the input so the user can correct it.
	assert.Equal(t, "kael@void.example", m.inputs[fieldEmail].Value())
	assert.Equal(t, "hunter2222", m.inputs[fieldPassword].Value())
	assert.Equal(t, "kael", m.inputs[fieldUsername].Value())
	assert.True(t, m.registering)
	assert.NotEmpty(t, m.errMsg)
}

func TestLogin_SubmitRequiresCredentials(t *testing.T) {
	m := newTestLogin()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required", m.errMsg)
}
