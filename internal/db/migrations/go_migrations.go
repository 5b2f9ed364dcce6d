// Package migrations contains dialect-aware Go database migrations. The
// bookmarks table needs a different auto-increment primary key on each
// supported database, so it cannot be a single SQL file.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
