package browse

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/posts"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeFetcher serves canned pages and records every request.
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[int][]posts.Post
	pageErr  map[int]error
	items    map[posts.ID]*posts.Post
	requests []int
	opened   []posts.ID
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   map[int][]posts.Post{},
		pageErr: map[int]error{},
		items:   map[posts.ID]*posts.Post{},
	}
}

func (f *fakeFetcher) ListPosts(_ context.Context, page int) ([]posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, page)
	if err := f.pageErr[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeFetcher) GetPost(_ context.Context, id posts.ID) (*posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, id)
	p, ok := f.items[id]
	if !ok {
		return nil, &posts.StatusError{Op: "fetch post", Code: 404}
	}
	return p, nil
}

func (f *fakeFetcher) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.requests...)
}

// makePage builds n posts whose ids are prefixed by the page number.
func makePage(page, n int) []posts.Post {
	out := make([]posts.Post, 0, n)
	for i := 0; i < n; i++ {
		id := posts.ID(fmt.Sprintf("%d-%d", page, i))
		out = append(out, posts.Post{
			ID:        id,
			Title:     fmt.Sprintf("Post %s", id),
			Body:      "hello world from the feed",
			Author:    posts.Author{ID: "u1", Name: "ana"},
			CreatedAt: testNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

func newTestModel(f Fetcher) Model {
	m := New(f,
		WithStyles(ui.NewStyles(ui.LightTheme())),
		WithClock(func() time.Time { return testNow }),
	)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// send applies msg and returns the new model and command.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update must return a Model")
	return nm, cmd
}

// exec runs cmd synchronously and returns the message it produced.
func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

// settle runs cmd and feeds its message back until no command remains.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = send(t, m, msg)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// mounted returns a model with page 1 loaded.
func mounted(t *testing.T, f *fakeFetcher) Model {
	t.Helper()
	m := newTestModel(f)
	m, cmd := send(t, m, mountMsg{})
	return settle(t, m, cmd)
}
