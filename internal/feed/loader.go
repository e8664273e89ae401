// Package feed holds the pagination and loading state behind the post feed.
// It is pure state: callers perform the fetches and report results back
// through Begin/Resolve, which keeps every transition testable without a
// terminal or a network.
package feed

import (
	"strings"

	"blogfeed/internal/posts"
)

// NoMorePosts is the message shown when a page comes back empty.
var NoMorePosts = posts.ErrNoMorePosts.Error()

// Phase is the loader's position in Idle -> Fetching -> Loaded|Failed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	names := []string{"idle", "fetching", "loaded", "failed"}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// Mode selects which of the three mutually exclusive views is shown.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeList
)

func (m Mode) String() string {
	names := []string{"loading", "error", "list"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}

// Loader owns the page cursor and the outcome of the most recent response.
//
// Requests are never cancelled or ordered: Resolve applies whatever arrives,
// so a slow response for an older page can overwrite a newer one.
// Outstanding counts issued-but-unresolved requests and drives ModeLoading.
type Loader struct {
	page        int
	posts       []posts.Post
	err         string
	outstanding int
	phase       Phase
}

// NewLoader returns a loader at page 1 with nothing fetched yet.
func NewLoader() *Loader {
	return &Loader{page: 1, phase: PhaseIdle}
}

// Page is the current cursor.
func (l *Loader) Page() int { return l.page }

// Next advances the cursor and returns it.
func (l *Loader) Next() int {
	l.page++
	return l.page
}

// Prev moves the cursor back one page. At page 1 it does nothing and
// reports false.
func (l *Loader) Prev() (int, bool) {
	if l.page <= 1 {
		return l.page, false
	}
	l.page--
	return l.page, true
}

// Begin records a fetch for the current cursor and returns the page to fetch.
func (l *Loader) Begin() int {
	l.outstanding++
	l.phase = PhaseFetching
	return l.page
}

// Resolve applies the outcome of a fetch issued for page.
//
//   - err != nil: the error message is shown, the previous list is kept.
//   - empty items: NoMorePosts is shown and the list is cleared.
//   - otherwise: items replace the list and the error is cleared.
func (l *Loader) Resolve(page int, items []posts.Post, err error) {
	if l.outstanding > 0 {
		l.outstanding--
	}

	switch {
	case err != nil:
		l.err = err.Error()
		l.phase = PhaseFailed
	case len(items) == 0:
		l.err = NoMorePosts
		l.posts = nil
		l.phase = PhaseLoaded
	default:
		l.err = ""
		l.posts = items
		l.phase = PhaseLoaded
	}

	if l.outstanding > 0 {
		l.phase = PhaseFetching
	}
}

// Mode picks the view: loading wins while anything is outstanding, then
// error, then the list.
func (l *Loader) Mode() Mode {
	switch {
	case l.outstanding > 0:
		return ModeLoading
	case l.err != "":
		return ModeError
	default:
		return ModeList
	}
}

// Loading reports whether any fetch is outstanding.
func (l *Loader) Loading() bool { return l.outstanding > 0 }

// Outstanding is the number of unresolved fetches.
func (l *Loader) Outstanding() int { return l.outstanding }

// Err is the message to show, or "".
func (l *Loader) Err() string { return l.err }

// Posts is the current list. Callers must not modify it.
func (l *Loader) Posts() []posts.Post { return l.posts }

// Phase reports the state machine position.
func (l *Loader) Phase() Phase { return l.phase }

// SnippetWords is how many words of the body a preview shows.
const SnippetWords = 15

// Snippet returns the first SnippetWords words of body followed by "...".
// Words are separated by single spaces only; newlines and repeated spaces
// are kept as they appear in the body.
func Snippet(body string) string {
	words := strings.Split(body, " ")
	if len(words) > SnippetWords {
		words = words[:SnippetWords]
	}
	return strings.Join(words, " ") + "..."
}
