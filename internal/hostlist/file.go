package hostlist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hostgrip/internal/domain"
)

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

// FileSource reads a host list file. JSON and YAML files hold either
// [site, name] pairs or {site, name} mappings; TOML files hold [[hosts]]
// tables.
type FileSource struct {
	path   string
	format format
}

// NewFileSource returns a source for path, rejecting unknown extensions
func NewFileSource(path string) (*FileSource, error) {
	var f format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f = formatJSON
	case ".yaml", ".yml":
		f = formatYAML
	case ".toml":
		f = formatTOML
	default:
		return nil, errors.Errorf("unsupported host list format %q", path)
	}
	return &FileSource{path: path, format: f}, nil
}

func (s *FileSource) String() string { return s.path }

func (s *FileSource) Load(ctx context.Context) ([]domain.HostEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoHosts, "host list %s does not exist", s.path)
		}
		return nil, errors.Wrapf(err, "read host list %s", s.path)
	}

	var entries []entry
	switch s.format {
	case formatJSON:
		err = json.Unmarshal(data, &entries)
	case formatYAML:
		err = yaml.Unmarshal(data, &entries)
	case formatTOML:
		var doc struct {
			Hosts []entry `toml:"hosts"`
		}
		err = toml.Unmarshal(data, &doc)
		entries = doc.Hosts
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse host list %s", s.path)
	}

	hosts := make([]domain.HostEntry, 0, len(entries))
	for i, e := range entries {
		if err := e.validate(); err != nil {
			return nil, errors.Wrapf(err, "host list %s, entry %d", s.path, i)
		}
		hosts = append(hosts, domain.HostEntry{Site: e.Site, Name: e.Name})
	}
	return hosts, nil
}

// entry is one host in a file, in pair or mapping form
type entry struct {
	Site string `json:"site" yaml:"site" toml:"site"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		return e.fromPair(pair)
	}
	type plain entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.Wrap(err, "host entry must be [site, name] or {site, name}")
	}
	*e = entry(p)
	return e.validate()
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		return e.fromPair(pair)
	}
	type plain entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return errors.Wrapf(err, "line %d: host entry must be [site, name] or {site, name}", node.Line)
	}
	*e = entry(p)
	return e.validate()
}

func (e *entry) fromPair(pair []string) error {
	if len(pair) != 2 {
		return errors.Errorf("host pair must have 2 elements, got %d", len(pair))
	}
	e.Site, e.Name = pair[0], pair[1]
	return e.validate()
}

func (e *entry) validate() error {
	if e.Name == "" {
		return errors.New("host entry without name")
	}
	return nil
}
