// Package bookmark validates incoming bookmark payloads and sanitizes
// bookmark text on its way back to clients.
package bookmark

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/joestump/joe-bookmarks/internal/store"
)

// urlRe accepts an optional scheme followed by //, then a host that either
// contains a dot or is localhost (with optional port), then anything without
// whitespace.
var urlRe = regexp.MustCompile(`^(?:\w+:)?//([^\s.]+\.\S{2}|localhost[:?\d]*)\S*$`)

// Payload is the request body for creating or updating a bookmark. Every
// field is kept raw: a field of the wrong JSON type is a validation failure,
// not a decode failure, and falsy values of any type count as absent.
type Payload struct {
	Title       json.RawMessage `json:"title"`
	URL         json.RawMessage `json:"url"`
	Rating      json.RawMessage `json:"rating"`
	Description json.RawMessage `json:"description"`
}

// IsURL reports whether s has the shape of an absolute or scheme-relative URL.
func IsURL(s string) bool {
	return urlRe.MatchString(s)
}

// Validate checks a create payload. Only the first violated rule is
// reported, in this order: title, url and rating present; url shape;
// rating range. A title that is neither a string, a number nor true counts
// as missing; such a url is not a valid URL.
func Validate(p Payload) (store.BookmarkFields, error) {
	if !truthy(p.Title) {
		return store.BookmarkFields{}, missing("title")
	}
	if !truthy(p.URL) {
		return store.BookmarkFields{}, missing("url")
	}
	if !truthy(p.Rating) {
		return store.BookmarkFields{}, missing("rating")
	}
	title, ok := text(p.Title)
	if !ok {
		return store.BookmarkFields{}, missing("title")
	}
	url, ok := text(p.URL)
	if !ok || !IsURL(url) {
		return store.BookmarkFields{}, &ValidationError{Kind: KindInvalidURL, Field: "url"}
	}
	rating, ok := parseRating(p.Rating)
	if !ok {
		return store.BookmarkFields{}, &ValidationError{Kind: KindInvalidRating, Field: "rating"}
	}

	f := store.BookmarkFields{Title: title, URL: url, Rating: rating}
	if truthy(p.Description) {
		f.Description, _ = text(p.Description)
	}
	return f, nil
}

// ValidateUpdate checks a partial update. At least one of the four fields
// must be present and truthy; only those fields end up in the patch.
// A supplied url or rating must still satisfy the create rules.
func ValidateUpdate(p Payload) (store.BookmarkPatch, error) {
	var patch store.BookmarkPatch
	if truthy(p.Title) {
		if title, ok := text(p.Title); ok {
			patch.Title = &title
		}
	}
	if truthy(p.URL) {
		url, ok := text(p.URL)
		if !ok || !IsURL(url) {
			return store.BookmarkPatch{}, &ValidationError{Kind: KindInvalidURL, Field: "url"}
		}
		patch.URL = &url
	}
	if truthy(p.Rating) {
		rating, ok := parseRating(p.Rating)
		if !ok {
			return store.BookmarkPatch{}, &ValidationError{Kind: KindInvalidRating, Field: "rating"}
		}
		patch.Rating = &rating
	}
	if truthy(p.Description) {
		if desc, ok := text(p.Description); ok {
			patch.Description = &desc
		}
	}

	if patch.IsEmpty() {
		return store.BookmarkPatch{}, &ValidationError{Kind: KindEmptyUpdate}
	}
	return patch, nil
}

func missing(field string) error {
	return &ValidationError{Kind: KindMissingField, Field: field}
}

// text returns a raw JSON scalar as stored text: strings unquoted, numbers
// and true as written. Objects and arrays have no text form.
func text(raw json.RawMessage) (string, bool) {
	v := bytes.TrimSpace(raw)
	switch {
	case len(v) == 0:
		return "", false
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	case isNumber(v), string(v) == "true":
		return string(v), true
	default:
		return "", false
	}
}

// truthy reports whether a raw JSON value counts as supplied: absent, null,
// false, zero and the empty string do not.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}
	if isNumber(v) {
		f, err := strconv.ParseFloat(string(v), 64)
		return err != nil || f != 0
	}
	return true
}

// parseRating accepts a JSON number with an integral value in [0, 5].
// Strings are rejected even when they spell a number.
func parseRating(raw json.RawMessage) (int, bool) {
	v := bytes.TrimSpace(raw)
	if !isNumber(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > 5 {
		return 0, false
	}
	return int(f), true
}

func isNumber(v []byte) bool {
	return len(v) > 0 && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9'))
}
