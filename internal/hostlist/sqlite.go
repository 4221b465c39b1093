package hostlist

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"hostgrip/internal/domain"
)

// SQLiteSource reads hosts from an inventory database with a
// hosts(site, name) table, in insertion order.
type SQLiteSource struct {
	path string
}

func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

func (s *SQLiteSource) String() string { return SQLitePrefix + s.path }

func (s *SQLiteSource) Load(ctx context.Context) ([]domain.HostEntry, error) {
	// sql.Open would silently create an empty database
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoHosts, "inventory %s does not exist", s.path)
		}
		return nil, errors.Wrapf(err, "stat inventory %s", s.path)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT site, name FROM hosts ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrapf(err, "query hosts from %s", s.path)
	}
	defer rows.Close()

	var hosts []domain.HostEntry
	for rows.Next() {
		var h domain.HostEntry
		if err := rows.Scan(&h.Site, &h.Name); err != nil {
			return nil, errors.Wrap(err, "scan host row")
		}
		hosts = append(hosts, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate host rows")
	}
	return hosts, nil
}
