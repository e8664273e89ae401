package feed

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"blogfeed/internal/posts"
)

func samplePosts(n int) []posts.Post {
	out := make([]posts.Post, n)
	for i := range out {
		out[i] = posts.Post{ID: posts.ID(fmt.Sprint(i + 1)), Title: fmt.Sprintf("post %d", i+1)}
	}
	return out
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.Page() != 1 {
		t.Fatalf("page = %d, want 1", l.Page())
	}
	if l.Phase() != PhaseIdle {
		t.Fatalf("phase = %s, want idle", l.Phase())
	}
	if l.Mode() != ModeList || l.Loading() {
		t.Fatalf("idle loader should show an empty list")
	}
}

func TestPrevNeverBelowOne(t *testing.T) {
	l := NewLoader()
	if p, moved := l.Prev(); moved || p != 1 {
		t.Fatalf("Prev at 1 = (%d, %v), want (1, false)", p, moved)
	}

	for want := 2; want <= 5; want++ {
		if got := l.Next(); got != want {
			t.Fatalf("Next = %d, want %d", got, want)
		}
	}
	for want := 4; want >= 1; want-- {
		if got, moved := l.Prev(); !moved || got != want {
			t.Fatalf("Prev = (%d, %v), want (%d, true)", got, moved, want)
		}
	}
	for i := 0; i < 3; i++ {
		if p, moved := l.Prev(); moved || p != 1 {
			t.Fatalf("Prev at floor = (%d, %v)", p, moved)
		}
	}
}

func TestResolveSuccess(t *testing.T) {
	l := NewLoader()
	page := l.Begin()
	if l.Mode() != ModeLoading || l.Phase() != PhaseFetching {
		t.Fatalf("after Begin: mode=%s phase=%s", l.Mode(), l.Phase())
	}

	l.Resolve(page, samplePosts(7), nil)

	if got := len(l.Posts()); got != 7 {
		t.Errorf("posts = %d, want 7", got)
	}
	if l.Err() != "" {
		t.Errorf("err = %q, want empty", l.Err())
	}
	if l.Mode() != ModeList || l.Phase() != PhaseLoaded || l.Loading() {
		t.Errorf("mode=%s phase=%s loading=%v", l.Mode(), l.Phase(), l.Loading())
	}
}

func TestResolveEmptyPage(t *testing.T) {
	l := NewLoader()
	l.Resolve(l.Begin(), samplePosts(3), nil)

	l.Next()
	l.Resolve(l.Begin(), []posts.Post{}, nil)

	if l.Err() != "No more posts :(" {
		t.Errorf("err = %q", l.Err())
	}
	if len(l.Posts()) != 0 {
		t.Errorf("posts = %d, want 0", len(l.Posts()))
	}
	if l.Mode() != ModeError {
		t.Errorf("mode = %s, want error", l.Mode())
	}

	// Navigation still works after an empty page
	if p, moved := l.Prev(); !moved || p != 1 {
		t.Fatalf("Prev = (%d, %v), want (1, true)", p, moved)
	}
	l.Resolve(l.Begin(), samplePosts(2), nil)
	if l.Mode() != ModeList || l.Err() != "" {
		t.Errorf("after paging back: mode=%s err=%q", l.Mode(), l.Err())
	}
}

func TestResolveFailureKeepsList(t *testing.T) {
	l := NewLoader()
	l.Resolve(l.Begin(), samplePosts(4), nil)

	l.Next()
	l.Resolve(l.Begin(), nil, errors.New("failed to fetch posts"))

	if l.Err() != "failed to fetch posts" {
		t.Errorf("err = %q", l.Err())
	}
	if l.Loading() {
		t.Error("loading should be false after failure")
	}
	if l.Mode() != ModeError || l.Phase() != PhaseFailed {
		t.Errorf("mode=%s phase=%s", l.Mode(), l.Phase())
	}
	if len(l.Posts()) != 4 {
		t.Errorf("previous list should be kept, got %d", len(l.Posts()))
	}
}

func TestLoadingWhileAnyOutstanding(t *testing.T) {
	l := NewLoader()
	p1 := l.Begin()
	l.Next()
	p2 := l.Begin()

	if l.Outstanding() != 2 {
		t.Fatalf("outstanding = %d", l.Outstanding())
	}

	l.Resolve(p2, samplePosts(1), nil)
	if l.Mode() != ModeLoading || l.Phase() != PhaseFetching {
		t.Fatalf("one request still out: mode=%s phase=%s", l.Mode(), l.Phase())
	}

	l.Resolve(p1, samplePosts(10), nil)
	if l.Mode() != ModeList {
		t.Fatalf("mode = %s, want list", l.Mode())
	}
}

func TestLastArrivalWins(t *testing.T) {
	l := NewLoader()
	older := l.Begin()
	l.Next()
	newer := l.Begin()

	l.Resolve(newer, samplePosts(2), nil)
	l.Resolve(older, samplePosts(9), nil)

	if got := len(l.Posts()); got != 9 {
		t.Fatalf("posts = %d, want the late page-1 response (9)", got)
	}
	if l.Page() != 2 {
		t.Fatalf("cursor = %d, must not follow the response", l.Page())
	}
}

func TestViewsAreExclusive(t *testing.T) {
	l := NewLoader()
	steps := []func(){
		func() { l.Begin() },
		func() { l.Resolve(1, samplePosts(1), nil) },
		func() { l.Begin() },
		func() { l.Resolve(1, nil, errors.New("x")) },
		func() { l.Begin() },
		func() { l.Resolve(1, nil, nil) },
	}
	for i, step := range steps {
		step()
		loading := l.Loading()
		showErr := !loading && l.Err() != ""
		showList := !loading && l.Err() == ""
		n := 0
		for _, b := range []bool{loading, showErr, showList} {
			if b {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("step %d: %d views visible", i, n)
		}
		if (l.Mode() == ModeLoading) != loading {
			t.Fatalf("step %d: Mode %s disagrees with loading=%v", i, l.Mode(), loading)
		}
	}
}

func TestResolveWithoutBeginDoesNotUnderflow(t *testing.T) {
	l := NewLoader()
	l.Resolve(1, samplePosts(1), nil)
	if l.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", l.Outstanding())
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("word ", 20)
	got := Snippet(long)
	if want := strings.TrimSpace(strings.Repeat("word ", 15)) + "..."; got != want {
		t.Errorf("Snippet(long) = %q, want %q", got, want)
	}
	if got := Snippet("short body"); got != "short body..." {
		t.Errorf("Snippet(short) = %q", got)
	}
	if got := Snippet(""); got != "..." {
		t.Errorf("Snippet(empty) = %q", got)
	}
}

func TestSnippet_SingleSpaceSeparator(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"newline joins words", "a\nb c", "a\nb c..."},
		{"double space counts an empty word", "a  b", "a  b..."},
		{
			"empty words count toward the limit",
			"1 2 3 4 5 6 7  8 9 10 11 12 13 14 15",
			"1 2 3 4 5 6 7  8 9 10 11 12 13 14...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.body); got != tt.want {
				t.Errorf("Snippet(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestPhaseAndModeStrings(t *testing.T) {
	if PhaseFailed.String() != "failed" || Phase(99).String() != "unknown" {
		t.Error("Phase.String")
	}
	if ModeError.String() != "error" || Mode(99).String() != "unknown" {
		t.Error("Mode.String")
	}
}
