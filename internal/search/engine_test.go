package search

import (
	"sync"
	"testing"
	"time"

	"nerves/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(username, title, content string, tags ...string) *entity.Entry {
	return &entity.Entry{
		ID:          uuid.New(),
		Title:       title,
		ContentText: content,
		Tags:        tags,
		Author:      &entity.Profile{Username: username},
	}
}

func feedFixture() []*entity.Entry {
	return []*entity.Entry{
		makeEntry("kael", "Signal in the static", "Decoded the numbers station burst.", "sigint", "radio"),
		makeEntry("mira", "Zen and the art of tradecraft", "Notes from the gardening drop site.", "fieldcraft"),
		makeEntry("kael", "Dead drop schedule", "Tuesday rotation confirmed.", "logistics"),
		makeEntry("ZenMaster", "Quiet week", "Nothing to report.", "misc"),
	}
}

func titles(entries []*entity.Entry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Title
	}

	return out
}

func TestFilter_EmptyQueryMatchesAll(t *testing.T) {
	feed := feedFixture()

	assert.Len(t, NewFilter("").Apply(feed), len(feed))
	assert.Len(t, NewFilter("   ").Apply(feed), len(feed))
}

func TestFilter_CaseInsensitiveAcrossFields(t *testing.T) {
	feed := feedFixture()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "title, mixed case",
			query: "zen",
			want:  []string{"Zen and the art of tradecraft", "Quiet week"},
		},
		{
			name:  "content",
			query: "gardening",
			want:  []string{"Zen and the art of tradecraft"},
		},
		{
			name:  "username",
			query: "KAEL",
			want:  []string{"Signal in the static", "Dead drop schedule"},
		},
		{
			name:  "tag",
			query: "sigint",
			want:  []string{"Signal in the static"},
		},
		{
			name:  "no match",
			query: "submarine",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFilter(tt.query).Apply(feed)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilter_RegexPatterns(t *testing.T) {
	feed := feedFixture()

	got := NewFilter("dead|quiet").Apply(feed)
	assert.Equal(t, []string{"Dead drop schedule", "Quiet week"}, titles(got))
}

func TestFilter_InvalidRegexFallsBackToLiteral(t *testing.T) {
	feed := []*entity.Entry{
		makeEntry("ops", "Bracket [test case", "raw", "misc"),
		makeEntry("ops", "Other", "raw", "misc"),
	}

	// "[test" does not compile as a regex; it must still match literally.
	got := NewFilter("[test").Apply(feed)
	require.Len(t, got, 1)
	assert.Equal(t, "Bracket [test case", got[0].Title)
}

func TestFilter_PreservesFeedOrder(t *testing.T) {
	feed := feedFixture()

	got := NewFilter("e").Apply(feed)
	assert.Equal(t, titles(feed), titles(got), "matches keep feed order")
}

func TestEngine_StartsWithFullFeed(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()
	feed := feedFixture()

	engine.SetEntries(feed)

	assert.Equal(t, titles(feed), titles(engine.Results()))
}

func TestEngine_DebouncedQuery(t *testing.T) {
	engine := NewEngine(WithDebounce(30 * time.Millisecond))
	defer engine.Close()
	engine.SetEntries(feedFixture())

	engine.SetQuery("zen")

	// Inside the settle window nothing has changed yet.
	assert.Len(t, engine.Results(), 4)

	assert.Eventually(t, func() bool {
		return len(engine.Results()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_RapidTypingCoalescesToLastQuery(t *testing.T) {
	engine := NewEngine(WithDebounce(30 * time.Millisecond))
	defer engine.Close()
	engine.SetEntries(feedFixture())

	var mu sync.Mutex
	var fires int
	engine.Notify(func([]*entity.Entry) {
		mu.Lock()
		fires++
		mu.Unlock()
	})

	engine.SetQuery("z")
	engine.SetQuery("ze")
	engine.SetQuery("zen")

	assert.Eventually(t, func() bool {
		return len(engine.Results()) == 2
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fires, "only the final query recomputes")
	assert.Equal(t, "zen", engine.Query())
}

func TestEngine_ClearingQueryAppliesImmediately(t *testing.T) {
	engine := NewEngine(WithDebounce(time.Hour))
	defer engine.Close()
	feed := feedFixture()
	engine.SetEntries(feed)
	engine.SelectTag("sigint")
	require.Len(t, engine.Results(), 1)

	engine.SetQuery("")

	assert.Equal(t, titles(feed), titles(engine.Results()), "no debounce wait to restore the feed")
}

func TestEngine_SelectTagIsSynchronous(t *testing.T) {
	engine := NewEngine(WithDebounce(time.Hour))
	defer engine.Close()
	engine.SetEntries(feedFixture())

	engine.SelectTag("fieldcraft")

	got := engine.Results()
	require.Len(t, got, 1)
	assert.Equal(t, "Zen and the art of tradecraft", got[0].Title)
	assert.Equal(t, "fieldcraft", engine.Query())
}

func TestEngine_SelectTagCancelsPendingQuery(t *testing.T) {
	engine := NewEngine(WithDebounce(30 * time.Millisecond))
	defer engine.Close()
	engine.SetEntries(feedFixture())

	engine.SetQuery("zen")
	engine.SelectTag("logistics")

	got := engine.Results()
	require.Len(t, got, 1)
	assert.Equal(t, "Dead drop schedule", got[0].Title)

	// The superseded timer must not fire and overwrite the tag results.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, "logistics", engine.Query())
	assert.Len(t, engine.Results(), 1)
}

func TestEngine_SetEntriesReappliesActiveQuery(t *testing.T) {
	engine := NewEngine(WithDebounce(time.Hour))
	defer engine.Close()
	engine.SetEntries(feedFixture())
	engine.SelectTag("sigint")
	require.Len(t, engine.Results(), 1)

	refreshed := append(feedFixture(), makeEntry("nova", "New intercept", "Fresh sigint capture.", "sigint"))
	engine.SetEntries(refreshed)

	assert.Equal(t, []string{"Signal in the static", "New intercept"}, titles(engine.Results()))
}

func TestEngine_CloseCancelsPendingTimer(t *testing.T) {
	engine := NewEngine(WithDebounce(20 * time.Millisecond))
	engine.SetEntries(feedFixture())

	var mu sync.Mutex
	var fires int
	engine.Notify(func([]*entity.Entry) {
		mu.Lock()
		fires++
		mu.Unlock()
	})

	engine.SetQuery("zen")
	engine.Close()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, fires, "closed engine must not recompute")

	// Mutations after Close are no-ops.
	engine.SetQuery("kael")
	engine.SelectTag("radio")
	engine.SetEntries(nil)
	assert.Len(t, engine.Results(), 4, "closed engine keeps its last results")
}
