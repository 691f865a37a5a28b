// Package tui is the terminal front end. It owns no auth or filtering logic
// of its own: the session store decides what state the user is in, the search
// engine decides what the feed shows, and the models here only render and
// dispatch.
package tui

import (
	"context"

	"nerves/internal/client"
	"nerves/internal/domain/entity"
	"nerves/internal/search"
	"nerves/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// App wires the client, session store and search engine into a Bubble Tea
// program.
type App struct {
	api    *client.Client
	store  *session.Store
	engine *search.Engine
}

// New builds the App.
func New(api *client.Client, store *session.Store, engine *search.Engine) *App {
	return &App{api: api, store: store, engine: engine}
}

// Run attaches the store to the client, starts the program and blocks until
// the user quits. Store and engine updates arrive on channels that the root
// model drains; a full channel drops the stale update because a newer one is
// right behind it.
func (a *App) Run(ctx context.Context) error {
	sessionCh := make(chan session.Snapshot, 16)
	resultsCh := make(chan []*entity.Entry, 16)

	a.engine.Notify(func(entries []*entity.Entry) {
		select {
		case resultsCh <- entries:
		default:
		}
	})
	defer a.engine.Close()

	cancel := a.store.Subscribe(func(snap session.Snapshot) {
		select {
		case sessionCh <- snap:
		default:
		}
	})
	defer cancel()

	a.store.Attach(ctx, a.api)
	defer a.store.Detach()

	model := newAppModel(ctx, a.api, a.engine, sessionCh, resultsCh)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return errors.Wrap(err, "run tui")
	}

	return nil
}
