package posts

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoMorePosts is reported by callers when a page comes back empty.
// Its message is shown verbatim to the user.
var ErrNoMorePosts = errors.New("No more posts :(") //nolint:staticcheck // user-facing text

// StatusError is returned when the service answers with a non-2xx status.
// Error() stays short because the UI displays it as-is; the code is kept for
// logs and for callers that want to branch on it.
type StatusError struct {
	Op   string // "fetch posts", "fetch post", "create post"
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to %s", e.Op)
}

// Detail includes the HTTP status, for logs.
func (e *StatusError) Detail() string {
	return fmt.Sprintf("failed to %s: %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
