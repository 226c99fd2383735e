package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the settings file used when no path is configured
const DefaultFileName = "settings.yaml"

// Store reads and writes the settings file. Every load reads the whole file
// and every save replaces it.
type Store struct {
	fs   billy.Filesystem
	name string
	path string
}

// NewStore creates a store for the named file inside the given filesystem
func NewStore(filesystem billy.Filesystem, name string) *Store {
	return &Store{
		fs:   filesystem,
		name: name,
		path: filesystem.Join(filesystem.Root(), name),
	}
}

// NewFileStore creates a store backed by the OS filesystem
func NewFileStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}

	store := NewStore(osfs.New(filepath.Dir(path)), filepath.Base(path))
	store.path = path
	return store
}

// Path returns the location of the settings file
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the settings file
func (s *Store) Load() (*Record, error) {
	data, err := util.ReadFile(s.fs, s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	return decodeRecord(s.path, data)
}

// Save serializes the record and replaces the settings file. The data is
// written to a temporary file first and renamed over the target, so a
// failed save leaves the previous file intact.
func (s *Store) Save(record *Record) error {
	data, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := s.fs.TempFile("", "."+s.name+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.name); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}

// Token returns the credential stored in the settings file
func (s *Store) Token() (string, error) {
	record, err := s.Load()
	if err != nil {
		return "", err
	}

	if record.Token == "" {
		return "", fmt.Errorf("%s: %w", s.path, ErrTokenMissing)
	}
	return record.Token, nil
}

// Exists reports whether the settings file is present
func (s *Store) Exists() (bool, error) {
	_, err := s.fs.Stat(s.name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

type repositoryFields struct {
	URL      string   `yaml:"url"`
	Branches []string `yaml:"branches"`
}

func decodeRecord(path string, data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Path: path, Reason: "invalid YAML", Cause: err}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &MalformedError{Path: path, Reason: "file is empty"}
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, &MalformedError{Path: path, Reason: "top level must be a mapping"}
	}

	record := &Record{}
	seen := make(map[string]bool, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		value := resolveAlias(root.Content[i+1])

		if key.Kind != yaml.ScalarNode {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("line %d: keys must be scalars", key.Line)}
		}
		name := key.Value
		if seen[name] {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("line %d: duplicate key %q", key.Line, name)}
		}
		seen[name] = true

		if name == TokenKey {
			if value.Kind != yaml.ScalarNode {
				return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("line %d: token must be a string", value.Line)}
			}
			if value.Tag != "!!null" {
				record.Token = value.Value
			}
			continue
		}

		if value.Kind != yaml.MappingNode {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("line %d: repository %q must be a mapping", value.Line, name)}
		}

		var fields repositoryFields
		if err := value.Decode(&fields); err != nil {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("repository %q", name), Cause: err}
		}

		record.Repositories = append(record.Repositories, Repository{
			Name:     name,
			URL:      fields.URL,
			Branches: fields.Branches,
		})
	}

	return record, nil
}

func encodeRecord(record *Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, stringNode(TokenKey), stringNode(record.Token))

	for _, repo := range record.Repositories {
		if repo.Name == TokenKey {
			return nil, fmt.Errorf("%w: %q", ErrReservedName, repo.Name)
		}

		branches := &yaml.Node{Kind: yaml.SequenceNode}
		for _, branch := range repo.Branches {
			branches.Content = append(branches.Content, stringNode(branch))
		}

		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content,
			stringNode("url"), stringNode(repo.URL),
			stringNode("branches"), branches,
		)

		root.Content = append(root.Content, stringNode(repo.Name), entry)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
