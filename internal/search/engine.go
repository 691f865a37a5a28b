// Package search implements the client-side filter over the entry feed.
//
// Filtering happens entirely in memory against the already-fetched feed.
// Free-text queries are debounced so a fast typist triggers one filter pass,
// not one per keystroke; tag selection applies immediately.
package search

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"nerves/internal/domain/entity"
)

// DefaultDebounce is the settle window for free-text queries.
const DefaultDebounce = 500 * time.Millisecond

// Filter matches entries against a free-text query. The query is compiled as
// a case-insensitive regular expression; a pattern that does not compile is
// matched as a literal substring instead, so user input can never error out.
type Filter struct {
	re *regexp.Regexp
}

// NewFilter compiles the query. An empty (or whitespace-only) query yields a
// nil filter, meaning "match everything".
func NewFilter(query string) *Filter {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	return &Filter{re: re}
}

// Match reports whether the entry matches on any searched field: author
// username, title, content text, or any tag.
func (f *Filter) Match(entry *entity.Entry) bool {
	if f == nil {
		return true
	}
	if f.re.MatchString(entry.AuthorUsername()) ||
		f.re.MatchString(entry.Title) ||
		f.re.MatchString(entry.ContentText) {
		return true
	}
	for _, tag := range entry.Tags {
		if f.re.MatchString(tag) {
			return true
		}
	}

	return false
}

// Apply returns the entries that match, preserving their input order. The
// returned slice is freshly allocated.
func (f *Filter) Apply(entries []*entity.Entry) []*entity.Entry {
	out := make([]*entity.Entry, 0, len(entries))
	for _, entry := range entries {
		if f.Match(entry) {
			out = append(out, entry)
		}
	}

	return out
}

// Engine owns the feed snapshot and the active query, and recomputes visible
// results as either changes. All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	entries  []*entity.Entry
	query    string
	results  []*entity.Entry
	debounce time.Duration
	timer    *time.Timer
	seq      uint64
	onChange func([]*entity.Entry)
	closed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce overrides the settle window; useful in tests.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// NewEngine returns an Engine with no entries and an empty query.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Notify registers fn to be called with the new result set after every
// recompute. Only one callback is held; passing nil clears it.
func (e *Engine) Notify(fn func([]*entity.Entry)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// SetEntries replaces the feed snapshot and recomputes immediately with the
// current query.
func (e *Engine) SetEntries(entries []*entity.Entry) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.entries = entries
	e.recomputeLocked()
	e.mu.Unlock()
}

// SetQuery updates the free-text query. Recomputation waits out the debounce
// window; a newer call supersedes any pending one. Clearing the query skips
// the wait and restores the full feed at once.
func (e *Engine) SetQuery(query string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.query = query
	e.seq++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		e.recomputeLocked()
		e.mu.Unlock()
		return
	}

	seq := e.seq
	e.timer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		// A later SetQuery, SelectTag or Close superseded this timer.
		if e.closed || e.seq != seq {
			e.mu.Unlock()
			return
		}
		e.timer = nil
		e.recomputeLocked()
		e.mu.Unlock()
	})
	e.mu.Unlock()
}

// SelectTag replaces the query with the tag and recomputes synchronously.
// Any pending debounced query is discarded.
func (e *Engine) SelectTag(tag string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.query = tag
	e.seq++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.recomputeLocked()
	e.mu.Unlock()
}

// Results returns the current visible set in feed order.
func (e *Engine) Results() []*entity.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*entity.Entry, len(e.results))
	copy(out, e.results)

	return out
}

// Query returns the active query text.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.query
}

// Close cancels any pending timer and makes further mutations no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.seq++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// recomputeLocked rebuilds results from entries and query, then fires the
// change callback. Caller holds e.mu; the callback runs under it too, so
// callbacks must not call back into the engine.
func (e *Engine) recomputeLocked() {
	e.results = NewFilter(e.query).Apply(e.entries)
	if e.onChange != nil {
		e.onChange(e.results)
	}
}
