// Package hostlist supplies the ordered list of monitored hosts the quick
// search runs against.
package hostlist

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"hostgrip/internal/domain"
)

// ErrNoHosts reports that no host list is available to search
var ErrNoHosts = errors.New("no hosts to search for")

// SQLitePrefix marks a host list location as an SQLite inventory database
const SQLitePrefix = "sqlite://"

// Source loads hosts from some backing store, preserving their order
type Source interface {
	Load(ctx context.Context) ([]domain.HostEntry, error)
	String() string
}

// Open picks the source for a configured location: an SQLite DSN, or a
// JSON, YAML or TOML file chosen by extension. A leading ~/ in the path is
// the user's home directory.
func Open(location string) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, errors.Wrap(ErrNoHosts, "no host list configured")
	case strings.HasPrefix(location, SQLitePrefix):
		path, err := expandHome(strings.TrimPrefix(location, SQLitePrefix))
		if err != nil {
			return nil, err
		}
		return NewSQLiteSource(path), nil
	default:
		path, err := expandHome(location)
		if err != nil {
			return nil, err
		}
		return NewFileSource(path)
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, "expand %s", path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Static is a fixed in-memory host list
type Static []domain.HostEntry

func (s Static) Load(context.Context) ([]domain.HostEntry, error) {
	out := make([]domain.HostEntry, len(s))
	copy(out, s)
	return out, nil
}

func (s Static) String() string { return "static" }

// ParseHostFlag parses "site:name". A value without a colon is a host on
// the empty (local) site.
func ParseHostFlag(v string) (domain.HostEntry, error) {
	site, name, found := strings.Cut(v, ":")
	if !found {
		site, name = "", v
	}
	if name == "" {
		return domain.HostEntry{}, errors.Errorf("invalid host %q: expected site:name", v)
	}
	return domain.HostEntry{Site: site, Name: name}, nil
}
