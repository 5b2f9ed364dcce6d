package api

import (
	"github.com/joestump/joe-bookmarks/internal/bookmark"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// BookmarkRequest documents the body accepted by POST and PATCH
// /bookmarks. Handlers decode into bookmark.Payload, which keeps track of
// which fields were sent.
type BookmarkRequest struct {
	Title       string `json:"title" example:"Go"`
	URL         string `json:"url" example:"https://go.dev"`
	Rating      int    `json:"rating" example:"5"`
	Description string `json:"description,omitempty" example:"The Go programming language"`
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// ErrorMessage carries a human-readable failure.
type ErrorMessage struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every 4xx/5xx body except 401.
type ErrorResponse struct {
	Error ErrorMessage `json:"error"`
}

// UnauthorizedResponse is the 401 body.
type UnauthorizedResponse struct {
	Error string `json:"error" example:"Unauthorized request"`
}

// toBookmarkResponse sanitizes b for output.
func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	s := bookmark.Sanitize(*b)
	return BookmarkResponse{
		ID:          s.ID,
		Title:       s.Title,
		URL:         s.URL,
		Description: s.Description,
		Rating:      s.Rating,
	}
}
