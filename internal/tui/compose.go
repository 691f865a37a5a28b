package tui

import (
	"context"
	"strings"

	"nerves/internal/client"
	"nerves/internal/domain/entity"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// composeModel is the new-entry form. Title, content and at least one tag
// are required; the backend enforces the same rule.
type composeModel struct {
	ctx context.Context
	api *client.Client

	title      textinput.Model
	tags       textinput.Model
	content    textarea.Model
	focus      int
	submitting bool
	errMsg     string
}

func newComposeModel(ctx context.Context, api *client.Client) composeModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 256
	title.Width = 60
	title.Focus()

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated"
	tags.CharLimit = 256
	tags.Width = 60

	content := textarea.New()
	content.Placeholder = "what did you observe?"
	content.SetWidth(60)
	content.SetHeight(8)

	return composeModel{
		ctx:     ctx,
		api:     api,
		title:   title,
		tags:    tags,
		content: content,
	}
}

func (m composeModel) Update(msg tea.Msg) (composeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entrySavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.setFocus((m.focus + 1) % 3)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + 2) % 3)
			return m, nil
		case "ctrl+s":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.title, cmd = m.title.Update(msg)
	case 1:
		m.tags, cmd = m.tags.Update(msg)
	default:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m composeModel) submit() (composeModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	title := strings.TrimSpace(m.title.Value())
	content := strings.TrimSpace(m.content.Value())
	tags := entity.ParseTags(m.tags.Value())
	if title == "" || content == "" || len(tags) == 0 {
		m.errMsg = "Title, content and at least one tag are required"
		return m, nil
	}

	m.errMsg = ""
	m.submitting = true

	ctx, api := m.ctx, m.api
	return m, func() tea.Msg {
		_, err := api.CreateEntry(ctx, &client.CreateEntryInput{
			Title:    title,
			Content:  content,
			Tags:     tags,
			IsPublic: true,
		})
		return entrySavedMsg{err: err}
	}
}

func (m composeModel) reset() composeModel {
	m.title.SetValue("")
	m.tags.SetValue("")
	m.content.SetValue("")
	m.setFocus(0)
	m.submitting = false
	m.errMsg = ""
	return m
}

func (m *composeModel) setFocus(i int) {
	m.title.Blur()
	m.tags.Blur()
	m.content.Blur()
	m.focus = i
	switch i {
	case 0:
		m.title.Focus()
	case 1:
		m.tags.Focus()
	default:
		m.content.Focus()
	}
}

func (m composeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NEW ENTRY") + "\n\n")
	b.WriteString("Title [" + m.title.View() + "]\n")
	b.WriteString("Tags  [" + m.tags.View() + "]\n\n")
	b.WriteString(m.content.View() + "\n")

	if m.submitting {
		b.WriteString("\n[Publishing...]\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("ctrl+s: publish │ tab: next field │ esc: back"))
	return b.String()
}
