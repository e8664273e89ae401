package browse

import (
	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/feed"
	"blogfeed/internal/logging"
	"blogfeed/internal/posts"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update routes messages. Fetches run as commands; their results come back
// as pageLoadedMsg/postLoadedMsg in whatever order they finish.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case mountMsg:
		m.mountFeed()
		cmd := m.fetchPage(m.loader.Begin())
		m.refresh()
		return m, cmd

	case pageLoadedMsg:
		if msg.mount != m.mount {
			logging.UIDebug("dropping page %d result from unmounted feed", msg.page)
			return m, nil
		}
		if msg.err != nil {
			logging.UIWarn("page %d failed: %v", msg.page, msg.err)
		} else {
			logging.UIDebug("page %d loaded: %d posts (cursor at %d)", msg.page, len(msg.posts), m.loader.Page())
		}
		m.loader.Resolve(msg.page, msg.posts, msg.err)
		m.clampSelection()
		m.refresh()
		return m, nil

	case postLoadedMsg:
		if m.screen != PostScreen || msg.id != m.postID {
			return m, nil
		}
		if m.postPending > 0 {
			m.postPending--
		}
		if msg.err != nil {
			m.postErr = msg.err.Error()
			logging.UIWarn("post %s failed: %v", msg.id, msg.err)
		} else {
			m.postErr = ""
			m.post = msg.post
		}
		m.refresh()
		return m, nil

	case ConfigReloadedMsg:
		m.styles = ui.NewStyles(ui.ThemeFor(msg.Theme))
		m.spinner.Style = m.styles.Spinner
		if msg.WordWrap > 0 {
			m.wordWrap = msg.WordWrap
		}
		m.renderer = newRenderer(m.styles.Theme, m.wordWrap)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading() {
			m.refresh()
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil
	}

	if m.screen == PostScreen {
		if key.Matches(msg, m.keys.Back) {
			m.screen = FeedScreen
			m.post = nil
			m.postErr = ""
			m.postPending = 0
			m.postID = ""
			return m, func() tea.Msg { return mountMsg{} }
		}
		var cmd tea.Cmd
		m.postVP, cmd = m.postVP.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		page, moved := m.loader.Prev()
		if !moved {
			return m, nil
		}
		logging.UIDebug("cursor -> %d", page)
		m.selected = 0
		cmd := m.fetchPage(m.loader.Begin())
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Next):
		logging.UIDebug("cursor -> %d", m.loader.Next())
		m.selected = 0
		cmd := m.fetchPage(m.loader.Begin())
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.loader.Mode() == feed.ModeList && m.selected < len(m.loader.Posts())-1 {
			m.selected++
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.loader.Mode() != feed.ModeList || len(m.loader.Posts()) == 0 {
			return m, nil
		}
		return m.openPost(m.loader.Posts()[m.selected].ID)
	}

	var cmd tea.Cmd
	m.feedVP, cmd = m.feedVP.Update(msg)
	return m, cmd
}

// openPost unmounts the feed and starts loading a single post.
func (m Model) openPost(id posts.ID) (tea.Model, tea.Cmd) {
	logging.UI("opening post %s", id)
	m.screen = PostScreen
	m.postID = id
	m.post = nil
	m.postErr = ""
	m.postPending = 1
	m.mount++ // feed state is gone; late page results are dropped
	m.postVP.GotoTop()
	m.refresh()
	return m, m.fetchPost(id)
}

// mountFeed resets all feed state, as if the feed were created anew.
func (m *Model) mountFeed() {
	m.mount++
	m.loader = feed.NewLoader()
	m.selected = 0
	m.screen = FeedScreen
	m.feedVP.GotoTop()
}

func (m *Model) clampSelection() {
	n := len(m.loader.Posts())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) loading() bool {
	if m.screen == PostScreen {
		return m.postPending > 0
	}
	return m.loader.Loading()
}

func (m *Model) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width, m.height = width, height
	m.ready = true

	layout := ui.NewLayoutConfig(width, height)
	bodyHeight := layout.ContentHeight()
	if m.help.ShowAll {
		bodyHeight = max(bodyHeight-3, 1)
	}
	m.help.Width = width
	m.feedVP.Width = layout.ContentWidth()
	m.feedVP.Height = bodyHeight
	m.postVP.Width = layout.ContentWidth()
	m.postVP.Height = max(bodyHeight-postHeaderHeight, 1)
	m.refresh()
}
