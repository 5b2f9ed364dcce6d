package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// BookmarkStoreIface exposes all bookmark data operations.
// No handler MAY query the DB directly; all access goes through this interface.
type BookmarkStoreIface interface {
	ListAll(ctx context.Context) ([]*Bookmark, error)
	GetByID(ctx context.Context, id int64) (*Bookmark, error)
	Insert(ctx context.Context, f BookmarkFields) (*Bookmark, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, id int64, p BookmarkPatch) (int64, error)
}

var _ BookmarkStoreIface = (*BookmarkStore)(nil)
