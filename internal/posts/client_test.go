package posts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// idle keep-alive connections from httptest servers
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, 2*time.Second,
		WithHTTPClient(srv.Client()),
		WithRequestIDFunc(func() string { return "req-1" }),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestListPosts_QueryAndDecode(t *testing.T) {
	created := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Errorf("path = %q, want /posts", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("page") != "3" || q.Get("sort") != "-created_at" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if got := r.Header.Get(RequestIDHeader); got != "req-1" {
			t.Errorf("request id = %q", got)
		}
		_, _ = io.WriteString(w, `{"data":[{"id":7,"title":"hello","body":"a b c",
			"user":{"id":"u1","name":"Ada","avatar":"ada.png"},
			"created_at":"2024-03-09T12:00:00Z"}]}`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv).ListPosts(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	want := []Post{{
		ID:        "7",
		Title:     "hello",
		Body:      "a b c",
		Author:    Author{ID: "u1", Name: "Ada", Avatar: "ada.png"},
		CreatedAt: created,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListPosts mismatch (-want +got):\n%s", diff)
	}
}

func TestListPosts_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv).ListPosts(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListPosts_MissingDataIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv).ListPosts(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no posts, got %d", len(got))
	}
}

func TestListPosts_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).ListPosts(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "failed to fetch posts" {
		t.Errorf("message = %q", err.Error())
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Errorf("expected StatusError 502, got %#v", err)
	}
}

func TestListPosts_InvalidPage(t *testing.T) {
	c, err := NewClient("http://example.invalid", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListPosts(context.Background(), 0); err == nil {
		t.Fatal("expected error for page 0")
	}
}

func TestListPosts_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data": "nope"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv).ListPosts(context.Background(), 1); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestListPosts_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListPosts(context.Background(), 1); err == nil {
		t.Fatal("expected timeout error")
	}
	c.http.CloseIdleConnections()
}

func TestGetPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts/42":
			_, _ = io.WriteString(w, `{"data":{"id":"42","title":"t","body":"b","user":{"id":1,"name":"Bo"},"created_at":"2024-01-01T00:00:00Z"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	p, err := c.GetPost(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if p.ID != "42" || p.Author.Name != "Bo" || p.Author.ID != "1" {
		t.Errorf("unexpected post %+v", p)
	}

	_, err = c.GetPost(context.Background(), "9")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err.Error() != "failed to fetch post" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCreatePost(t *testing.T) {
	var got NewPost
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":1}}`)
	}))
	defer srv.Close()

	in := NewPost{Title: "Title", Body: "Body text"}
	if err := newTestClient(t, srv).CreatePost(context.Background(), in); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePost_RequiresTitle(t *testing.T) {
	c, err := NewClient("http://example.invalid", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.CreatePost(context.Background(), NewPost{Body: "x"}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://host", "http://", "::bad"} {
		if _, err := NewClient(raw, 0); err == nil {
			t.Errorf("NewClient(%q) expected error", raw)
		}
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("http://localhost:8000/api/", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.BaseURL(); got != "http://localhost:8000/api" {
		t.Errorf("BaseURL = %q", got)
	}
}
