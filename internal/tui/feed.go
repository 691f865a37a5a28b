package tui

import (
	"context"
	"fmt"
	"strings"

	"nerves/internal/client"
	"nerves/internal/domain/entity"
	"nerves/internal/search"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// feedModel renders the entry feed. The visible set always comes from the
// search engine: keystrokes in the search box feed SetQuery (debounced),
// pressing t on a highlighted entry selects its first tag (immediate).
type feedModel struct {
	ctx    context.Context
	api    *client.Client
	engine *search.Engine

	searchInput textinput.Model
	searching   bool
	entries     []*entity.Entry
	idx         int
	loading     bool
	spinner     spinner.Model
	errMsg      string
}

func newFeedModel(ctx context.Context, api *client.Client, engine *search.Engine) feedModel {
	input := textinput.New()
	input.Placeholder = "search"
	input.CharLimit = 128
	input.Width = 40

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return feedModel{
		ctx:         ctx,
		api:         api,
		engine:      engine,
		searchInput: input,
		spinner:     s,
		loading:     true,
	}
}

func (m feedModel) current() (*entity.Entry, bool) {
	if len(m.entries) == 0 || m.idx < 0 || m.idx >= len(m.entries) {
		return nil, false
	}
	return m.entries[m.idx], true
}

func (m feedModel) cmdLoadFeed() tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		entries, err := api.Feed(ctx)
		return feedLoadedMsg{entries: entries, err: err}
	}
}

func (m feedModel) Update(msg tea.Msg) (feedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		// The engine recomputes with the active query and reports the
		// visible set back through resultsMsg.
		m.engine.SetEntries(msg.entries)
		return m, nil

	case resultsMsg:
		m.entries = msg.entries
		if m.idx >= len(m.entries) {
			m.idx = 0
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearching(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m feedModel) updateSearching(msg tea.KeyMsg) (feedModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Leaving search clears the query and restores the full feed
		// without waiting out the debounce.
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.engine.SetQuery("")
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.engine.SetQuery(m.searchInput.Value())
	return m, cmd
}

func (m feedModel) updateBrowsing(msg tea.KeyMsg) (feedModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
		return m, nil
	case key.Matches(msg, keys.down):
		if m.idx < len(m.entries)-1 {
			m.idx++
		}
		return m, nil
	case key.Matches(msg, keys.tag):
		if entry, ok := m.current(); ok && len(entry.Tags) > 0 {
			tag := entry.Tags[0]
			m.searchInput.SetValue(tag)
			m.engine.SelectTag(tag)
		}
		return m, nil
	case key.Matches(msg, keys.refresh):
		m.loading = true
		return m, tea.Batch(m.cmdLoadFeed(), m.spinner.Tick)
	}

	return m, nil
}

func (m feedModel) View() string {
	var b strings.Builder

	header := titleStyle.Render("THE VOID")
	if m.loading {
		header += "  " + m.spinner.View()
	}
	b.WriteString(header + "\n")

	b.WriteString("Search [" + m.searchInput.View() + "]\n\n")

	switch {
	case m.loading && len(m.entries) == 0:
		b.WriteString("Loading the feed...\n")
	case len(m.entries) == 0:
		b.WriteString("Nothing here. The void stares back.\n")
	default:
		for i, entry := range m.entries {
			cursor := "  "
			if i == m.idx {
				cursor = cursorStyle.Render("> ")
			}
			line := fmt.Sprintf("%s%s — %s", cursor, entry.Title, entry.AuthorUsername())
			if len(entry.Tags) > 0 {
				line += "  " + tagStyle.Render("#"+strings.Join(entry.Tags, " #"))
			}
			b.WriteString(line + "\n")
		}
	}

	if entry, ok := m.current(); ok {
		b.WriteString("\n" + strings.TrimSpace(entry.ContentText) + "\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("/: search │ t: filter by tag │ n: new entry │ c: assistant │ r: refresh │ l: sign out │ q: quit"))
	return b.String()
}
