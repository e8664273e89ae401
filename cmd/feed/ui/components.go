package ui

import (
	"fmt"
	"strings"
	"time"

	"blogfeed/internal/feed"
	"blogfeed/internal/posts"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// LoadingText is shown while a fetch is outstanding.
const LoadingText = "Loading...."

// Loading renders the loading line, optionally led by a spinner frame.
func (s Styles) Loading(spinner string) string {
	if spinner == "" {
		return s.Muted.Render(LoadingText)
	}
	return spinner + " " + s.Muted.Render(LoadingText)
}

// ErrorMessage renders msg between two angry faces.
func (s Styles) ErrorMessage(msg string) string {
	return "😠 " + s.Error.Render(msg) + " 😠"
}

// RenderButton renders a clickable-looking label.
func (s Styles) RenderButton(label string) string {
	return s.Button.Render(label)
}

// AuthorBadge renders the author's name and avatar reference.
func (s Styles) AuthorBadge(a posts.Author) string {
	name := a.Name
	if name == "" {
		name = "anonymous"
	}
	badge := s.Author.Render("@" + name)
	if a.Avatar != "" {
		badge += " " + s.Avatar.Render("["+a.Avatar+"]")
	}
	return badge
}

// PostedLine renders "Posted M/D/YYYY (relative)". A zero time renders as
// "Posted -".
func (s Styles) PostedLine(created, now time.Time) string {
	if created.IsZero() {
		return s.Muted.Render("Posted -")
	}
	local := created.Local()
	return s.Muted.Render(fmt.Sprintf("Posted %d/%d/%d (%s)",
		int(local.Month()), local.Day(), local.Year(),
		humanize.RelTime(created, now, "ago", "from now")))
}

// PostPreview renders one card of the feed. width <= 0 leaves it unbounded.
func (s Styles) PostPreview(p posts.Post, selected bool, width int, now time.Time) string {
	lines := []string{
		s.AuthorBadge(p.Author),
		s.Title.Render(p.Title),
		s.Body.Render(feed.Snippet(p.Body)),
		s.PostedLine(p.CreatedAt, now),
	}
	style := s.Card
	if selected {
		style = s.SelectedCard
	}
	if width > 0 {
		// Border takes two columns
		style = style.Width(max(width-2, MinCardWidth))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// PageNav renders "[ Previous ]  N  [ Next ]".
func (s Styles) PageNav(page int) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.RenderButton("◀ Previous"),
		s.PageNumber.Render(fmt.Sprintf("%d", page)),
		s.RenderButton("Next ▶"),
	)
}

// FeedList renders the feed's current view from the loader: the loading
// line, the error message, or the preview list, never more than one.
func (s Styles) FeedList(l *feed.Loader, selected, width int, spinner string, now time.Time) string {
	switch l.Mode() {
	case feed.ModeLoading:
		return s.Loading(spinner)
	case feed.ModeError:
		return s.ErrorMessage(l.Err())
	}

	items := l.Posts()
	if len(items) == 0 {
		return s.Muted.Render("Nothing here yet.")
	}
	cards := make([]string, 0, len(items))
	for i, p := range items {
		cards = append(cards, s.PostPreview(p, i == selected, width, now))
	}
	return strings.Join(cards, "\n")
}
