// Package browse provides the interactive TUI for reading the posts feed.
// The feed screen pages through previews; the post screen shows a single
// post. Leaving a post re-mounts the feed, so its cursor starts over at 1.
package browse

import (
	"context"
	"time"

	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/feed"
	"blogfeed/internal/posts"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Fetcher is the subset of the posts client the browser needs.
type Fetcher interface {
	ListPosts(ctx context.Context, page int) ([]posts.Post, error)
	GetPost(ctx context.Context, id posts.ID) (*posts.Post, error)
}

// Screen determines which view is active
type Screen int

const (
	FeedScreen Screen = iota
	PostScreen
)

// =============================================================================
// MESSAGES
// =============================================================================

type (
	// mountMsg (re)mounts the feed: fresh loader, fetch of page 1.
	mountMsg struct{}

	// pageLoadedMsg carries one ListPosts outcome. mount ties it to the feed
	// instance that issued it.
	pageLoadedMsg struct {
		mount int
		page  int
		posts []posts.Post
		err   error
	}

	// postLoadedMsg carries one GetPost outcome.
	postLoadedMsg struct {
		id   posts.ID
		post *posts.Post
		err  error
	}
)

// ConfigReloadedMsg restyles the running browser after a config change.
type ConfigReloadedMsg struct {
	Theme    string
	WordWrap int
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the feed browser.
type Model struct {
	fetcher Fetcher
	ctx     context.Context
	now     func() time.Time

	// Feed state. mount increments on every re-mount so results from an
	// unmounted feed are dropped.
	screen   Screen
	loader   *feed.Loader
	mount    int
	selected int

	// Post state
	postID      posts.ID
	post        *posts.Post
	postErr     string
	postPending int

	// UI components
	feedVP   viewport.Model
	postVP   viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	styles   ui.Styles
	renderer *glamour.TermRenderer
	wordWrap int

	width  int
	height int
	ready  bool
}

// Option configures a Model.
type Option func(*Model)

// WithStyles overrides the detected styles.
func WithStyles(s ui.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithWordWrap sets the post body wrap width.
func WithWordWrap(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.wordWrap = n
		}
	}
}

// WithClock replaces time.Now for relative dates.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithContext sets the context passed to every fetch.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// New creates the browser. Nothing is fetched until Init runs.
func New(f Fetcher, opts ...Option) Model {
	m := Model{
		fetcher:  f,
		ctx:      context.Background(),
		now:      time.Now,
		screen:   FeedScreen,
		loader:   feed.NewLoader(),
		feedVP:   viewport.New(80, 20),
		postVP:   viewport.New(80, 20),
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   ui.DefaultStyles(),
		wordWrap: 80,
	}
	for _, opt := range opts {
		opt(&m)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = m.styles.Spinner
	m.spinner = sp
	m.renderer = newRenderer(m.styles.Theme, m.wordWrap)
	return m
}

func newRenderer(theme ui.Theme, wrap int) *glamour.TermRenderer {
	style := glamour.WithStylePath("light")
	if theme.IsDark {
		style = glamour.WithStylePath("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil
	}
	return r
}

// Init starts the spinner and mounts the feed.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return mountMsg{} },
	)
}

// Screen reports the active screen.
func (m Model) Screen() Screen { return m.screen }

// Loader exposes the feed state.
func (m Model) Loader() *feed.Loader { return m.loader }

// Selected is the highlighted preview index.
func (m Model) Selected() int { return m.selected }

// fetchPage issues ListPosts for page on behalf of the current mount.
func (m Model) fetchPage(page int) tea.Cmd {
	f, ctx, mount := m.fetcher, m.ctx, m.mount
	return func() tea.Msg {
		items, err := f.ListPosts(ctx, page)
		return pageLoadedMsg{mount: mount, page: page, posts: items, err: err}
	}
}

// fetchPost issues GetPost for id.
func (m Model) fetchPost(id posts.ID) tea.Cmd {
	f, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		p, err := f.GetPost(ctx, id)
		return postLoadedMsg{id: id, post: p, err: err}
	}
}
