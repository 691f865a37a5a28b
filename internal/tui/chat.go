package tui

import (
	"context"
	"strings"

	"nerves/internal/client"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// chatModel is the assistant widget. The active feed query rides along as
// the tag so replies can lean on what the user is looking at.
type chatModel struct {
	ctx context.Context
	api *client.Client

	input   textinput.Model
	tag     string
	reply   string
	waiting bool
	spinner spinner.Model
	errMsg  string
}

func newChatModel(ctx context.Context, api *client.Client) chatModel {
	input := textinput.New()
	input.Placeholder = "ask the assistant"
	input.CharLimit = 512
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return chatModel{
		ctx:     ctx,
		api:     api,
		input:   input,
		spinner: s,
	}
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		m.waiting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.reply = msg.reply
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) submit() (chatModel, tea.Cmd) {
	if m.waiting {
		return m, nil
	}

	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" {
		m.errMsg = "Say something first"
		return m, nil
	}

	m.errMsg = ""
	m.waiting = true

	ctx, api, tag := m.ctx, m.api, m.tag
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := api.Chat(ctx, prompt, tag)
		return chatReplyMsg{reply: reply, err: err}
	})
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ASSISTANT") + "\n\n")
	b.WriteString("Prompt [" + m.input.View() + "]\n")

	if m.waiting {
		b.WriteString("\n" + m.spinner.View() + " Thinking...\n")
	}
	if m.reply != "" {
		b.WriteString("\n" + replyStyle.Render(m.reply) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter: send │ esc: back"))
	return b.String()
}
