package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-bookmarks/internal/metrics"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	URL         string `db:"url"`
	Description string `db:"description"`
	Rating      int    `db:"rating"`
}

// BookmarkFields holds the columns written when a bookmark is created.
type BookmarkFields struct {
	Title       string
	URL         string
	Rating      int
	Description string
}

// BookmarkPatch holds a partial update. Nil fields are left unchanged.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Rating      *int
	Description *string
}

// IsEmpty reports whether the patch would change nothing.
func (p BookmarkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Rating == nil && p.Description == nil
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
// Every method issues exactly one statement.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// observe records the latency of a single store call.
func observe(op string, start time.Time) {
	metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ListAll returns every bookmark ordered by id. The result is never nil.
func (s *BookmarkStore) ListAll(ctx context.Context) ([]*Bookmark, error) {
	defer observe("list", time.Now())

	bookmarks := []*Bookmark{}
	err := s.db.SelectContext(ctx, &bookmarks, `
		SELECT id, title, url, description, rating FROM bookmarks ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// GetByID returns the bookmark matching id, or ErrNotFound.
func (s *BookmarkStore) GetByID(ctx context.Context, id int64) (*Bookmark, error) {
	defer observe("get", time.Now())

	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.db.Rebind(`
		SELECT id, title, url, description, rating FROM bookmarks WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bookmark %d: %w", id, err)
	}
	return &b, nil
}

// Insert creates a bookmark and returns it with its assigned id.
func (s *BookmarkStore) Insert(ctx context.Context, f BookmarkFields) (*Bookmark, error) {
	defer observe("insert", time.Now())

	const insert = `INSERT INTO bookmarks (title, url, description, rating) VALUES (?, ?, ?, ?)`
	b := &Bookmark{Title: f.Title, URL: f.URL, Description: f.Description, Rating: f.Rating}

	// lib/pq does not implement LastInsertId.
	if s.db.DriverName() == "postgres" {
		err := s.db.QueryRowxContext(ctx, s.db.Rebind(insert+` RETURNING id`),
			f.Title, f.URL, f.Description, f.Rating).Scan(&b.ID)
		if err != nil {
			return nil, fmt.Errorf("insert bookmark: %w", err)
		}
		return b, nil
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(insert), f.Title, f.URL, f.Description, f.Rating)
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: read id: %w", err)
	}
	b.ID = id
	return b, nil
}

// DeleteByID removes the bookmark and returns the number of rows deleted (0 or 1).
func (s *BookmarkStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	defer observe("delete", time.Now())

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete bookmark %d: rows affected: %w", id, err)
	}
	return n, nil
}

// Update writes the non-nil fields of p and returns the number of rows
// affected. An empty patch touches nothing and returns 0.
func (s *BookmarkStore) Update(ctx context.Context, id int64, p BookmarkPatch) (int64, error) {
	if p.IsEmpty() {
		return 0, nil
	}
	defer observe("update", time.Now())

	var (
		sets []string
		args []any
	)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *p.URL)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *p.Rating)
	}
	args = append(args, id)

	query := `UPDATE bookmarks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("update bookmark %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update bookmark %d: rows affected: %w", id, err)
	}
	return n, nil
}

// Count returns the number of stored bookmarks.
func (s *BookmarkStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookmarks`); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return n, nil
}
