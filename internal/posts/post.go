// Package posts is the client for the remote posts service.
// It owns the wire model (Post, Author, NewPost) and the HTTP calls that
// list, fetch, and create posts.
package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID identifies a post or an author. The service has been seen to emit
// identifiers both as JSON numbers and as strings, so both decode here.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Author is the user embedded in every post.
type Author struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Post is produced by the service and never modified client-side.
type Post struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    Author    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost is the creation payload.
type NewPost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// listResponse is the envelope returned by GET /posts.
type listResponse struct {
	Data []Post `json:"data"`
}

// itemResponse is the envelope returned by GET /posts/{id}.
type itemResponse struct {
	Data Post `json:"data"`
}
