package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, createBookmarksDDL()); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}
	return nil
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}

// createBookmarksDDL returns the CREATE TABLE statement for the current
// dialect. The id column accepts explicit values so fixtures can seed
// known ids.
func createBookmarksDDL() string {
	switch dialect {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS bookmarks (
    id          INTEGER PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    rating      INTEGER NOT NULL CHECK (rating >= 0 AND rating <= 5)
)`
	case "mysql":
		// MySQL does not allow a literal DEFAULT on TEXT columns.
		return `CREATE TABLE IF NOT EXISTS bookmarks (
    id          BIGINT AUTO_INCREMENT PRIMARY KEY,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL,
    rating      INT NOT NULL CHECK (rating >= 0 AND rating <= 5)
)`
	default: // sqlite3
		return `CREATE TABLE IF NOT EXISTS bookmarks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    rating      INTEGER NOT NULL CHECK (rating >= 0 AND rating <= 5)
)`
	}
}
