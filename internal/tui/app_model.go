package tui

import (
	"context"
	"strings"

	"nerves/internal/client"
	"nerves/internal/domain/entity"
	"nerves/internal/search"
	"nerves/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenFeed screen = iota
	screenCompose
	screenChat
)

// appModel is the root model. Which view renders depends first on the
// session store's snapshot: loading shows the resolving indicator, signed out
// shows the login form, signed in shows the feed and its sub-screens.
type appModel struct {
	ctx       context.Context
	api       *client.Client
	sessionCh <-chan session.Snapshot
	resultsCh <-chan []*entity.Entry

	snapshot      session.Snapshot
	currentScreen screen
	spinner       spinner.Model

	login   loginModel
	feed    feedModel
	compose composeModel
	chat    chatModel
}

func newAppModel(
	ctx context.Context,
	api *client.Client,
	engine *search.Engine,
	sessionCh <-chan session.Snapshot,
	resultsCh <-chan []*entity.Entry,
) appModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return appModel{
		ctx:       ctx,
		api:       api,
		sessionCh: sessionCh,
		resultsCh: resultsCh,
		spinner:   s,
		login:     newLoginModel(ctx, api),
		feed:      newFeedModel(ctx, api, engine),
		compose:   newComposeModel(ctx, api),
		chat:      newChatModel(ctx, api),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForSession(),
		m.waitForResults(),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// waitForSession re-arms after every sessionMsg so snapshots keep flowing.
func (m appModel) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		return sessionMsg{snapshot: <-ch}
	}
}

func (m appModel) waitForResults() tea.Cmd {
	ch := m.resultsCh
	return func() tea.Msg {
		return resultsMsg{entries: <-ch}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		return m.updateSession(msg)

	case resultsMsg:
		var cmd tea.Cmd
		m.feed, cmd = m.feed.Update(msg)
		return m, tea.Batch(cmd, m.waitForResults())

	case feedLoadedMsg:
		var cmd tea.Cmd
		m.feed, cmd = m.feed.Update(msg)
		return m, cmd

	case signInResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case signUpResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case signOutDoneMsg:
		// The store snapshot drives the screen change; nothing to do.
		return m, nil

	case entrySavedMsg:
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		if msg.err == nil {
			m.currentScreen = screenFeed
			m.compose = m.compose.reset()
			return m, tea.Batch(cmd, m.feed.cmdLoadFeed())
		}
		return m, cmd

	case chatReplyMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		return m.updateSpinners(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.forward(msg)
}

func (m appModel) updateSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	prev := m.snapshot.Status
	m.snapshot = msg.snapshot

	cmds := []tea.Cmd{m.waitForSession()}

	switch m.snapshot.Status {
	case session.StatusAuthenticated:
		if prev != session.StatusAuthenticated {
			m.currentScreen = screenFeed
			m.feed.loading = true
			cmds = append(cmds, m.feed.cmdLoadFeed(), m.feed.spinner.Tick)
		}
	case session.StatusUnauthenticated:
		m.currentScreen = screenFeed
	}

	return m, tea.Batch(cmds...)
}

func (m appModel) updateSpinners(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.snapshot.Status == session.StatusLoading || m.snapshot.Status == session.StatusUninitialized {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.feed, cmd = m.feed.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.snapshot.Status != session.StatusAuthenticated {
		return m.forward(msg)
	}

	switch m.currentScreen {
	case screenCompose, screenChat:
		if msg.String() == "esc" {
			m.currentScreen = screenFeed
			return m, nil
		}
	case screenFeed:
		if !m.feed.searching {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "n":
				m.currentScreen = screenCompose
				m.compose = m.compose.reset()
				return m, textinput.Blink
			case "c":
				m.currentScreen = screenChat
				m.chat.tag = m.feed.engine.Query()
				return m, textinput.Blink
			case "l":
				return m, m.cmdSignOut()
			}
		}
	}

	return m.forward(msg)
}

func (m appModel) cmdSignOut() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return signOutDoneMsg{err: api.SignOut(ctx)}
	}
}

// forward routes a message to the model behind the visible screen.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.snapshot.Status != session.StatusAuthenticated {
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}

	switch m.currentScreen {
	case screenCompose:
		m.compose, cmd = m.compose.Update(msg)
	case screenChat:
		m.chat, cmd = m.chat.Update(msg)
	default:
		m.feed, cmd = m.feed.Update(msg)
	}

	return m, cmd
}

func (m appModel) View() string {
	switch m.snapshot.Status {
	case session.StatusUninitialized, session.StatusLoading:
		return m.spinner.View() + " Resolving session...\n\n" +
			helpStyle.Render("ctrl+c: quit")
	case session.StatusUnauthenticated:
		return m.login.View()
	}

	var body string
	switch m.currentScreen {
	case screenCompose:
		body = m.compose.View()
	case screenChat:
		body = m.chat.View()
	default:
		body = m.feed.View()
	}

	user := ""
	if identity := m.snapshot.Identity(); identity != nil {
		user = helpStyle.Render("signed in as "+identity.Username) + "\n\n"
	}

	return user + strings.TrimRight(body, "\n") + "\n"
}
