package browse

import (
	"fmt"
	"strings"
	"time"

	"blogfeed/internal/feed"
	"blogfeed/internal/logging"
	"blogfeed/internal/posts"

	"github.com/charmbracelet/lipgloss"
)

// postHeaderHeight is the title, author and date block above the post body.
const postHeaderHeight = 4

// View renders the active screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.screen {
	case PostScreen:
		body = m.postView()
	default:
		body = m.feedVP.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.footerView(),
	)
}

func (m Model) headerView() string {
	title := m.styles.Header.Render("Posts")
	if m.screen == PostScreen {
		return title + "\n"
	}
	return title + "\n" + m.styles.PageNav(m.loader.Page())
}

func (m Model) footerView() string {
	return m.styles.RenderDivider(m.width) + "\n" + m.styles.Footer.Render(m.help.View(m.keys))
}

// postView shows exactly one of: loading, error, the post.
func (m Model) postView() string {
	switch {
	case m.postPending > 0:
		return m.styles.Loading(m.spinner.View())
	case m.postErr != "":
		return m.styles.ErrorMessage(m.postErr)
	case m.post == nil:
		return ""
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.post.Title),
		m.styles.AuthorBadge(m.post.Author),
		m.styles.PostedLine(m.post.CreatedAt, m.now()),
		"",
	)
	return header + "\n" + m.postVP.View()
}

// refresh re-renders viewport content from the current state.
func (m *Model) refresh() {
	spin := ""
	if m.loading() {
		spin = m.spinner.View()
	}
	width := m.feedVP.Width
	now := m.now()
	m.feedVP.SetContent(m.styles.FeedList(m.loader, m.selected, width, spin, now))
	m.scrollToSelected(width, now)

	if m.post != nil {
		m.postVP.SetContent(m.renderBody(m.post))
	} else {
		m.postVP.SetContent("")
	}
}

// scrollToSelected keeps the highlighted card inside the feed viewport.
func (m *Model) scrollToSelected(width int, now time.Time) {
	if m.loader.Mode() != feed.ModeList {
		m.feedVP.GotoTop()
		return
	}
	items := m.loader.Posts()
	if m.selected >= len(items) {
		return
	}
	top := 0
	for i := 0; i < m.selected; i++ {
		top += lipgloss.Height(m.styles.PostPreview(items[i], false, width, now))
	}
	height := lipgloss.Height(m.styles.PostPreview(items[m.selected], true, width, now))

	switch {
	case top < m.feedVP.YOffset:
		m.feedVP.SetYOffset(top)
	case top+height > m.feedVP.YOffset+m.feedVP.Height:
		m.feedVP.SetYOffset(top + height - m.feedVP.Height)
	}
}

func (m Model) renderBody(p *posts.Post) string {
	if m.renderer == nil {
		return wrapPlain(p.Body, m.wordWrap)
	}
	out, err := safeRenderMarkdown(m.renderer.Render, p.Body)
	if err != nil {
		logging.UIWarn("markdown render failed for post %s: %v", p.ID, err)
		return wrapPlain(p.Body, m.wordWrap)
	}
	return strings.TrimRight(out, "\n")
}

// safeRenderMarkdown guards against panics inside the markdown renderer.
func safeRenderMarkdown(render func(string) (string, error), content string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown render panic: %v", r)
		}
	}()
	return render(content)
}

func wrapPlain(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
