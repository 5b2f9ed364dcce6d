package db

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Drivers lists the values accepted for BOOKMARKS_DB_DRIVER.
var Drivers = []string{"sqlite3", "mysql", "postgres"}

// sqliteBusyTimeout is applied to every pooled connection so a write that
// meets a held lock waits instead of failing the request with SQLITE_BUSY.
const sqliteBusyTimeout = "_pragma=busy_timeout(5000)"

// New opens the bookmark database and pings it, so serve and migrate fail
// at startup rather than on the first request. sqlite3 is served by the
// CGO-free modernc driver, registered as "sqlite".
func New(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite3":
		db, err := sqlx.Connect("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite bookmark db: %w", err)
		}
		// WAL is stored in the file, so one connection is enough.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
		return db, nil
	case "mysql", "postgres":
		db, err := sqlx.Connect(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s bookmark db: %w", driver, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB driver %q: must be one of %v", driver, Drivers)
	}
}

// sqliteDSN adds the busy timeout unless the DSN already sets one.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteBusyTimeout
}
