package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultFilePermissions is the mode of a committed configuration file.
const DefaultFilePermissions = 0o644

var (
	// ErrSectionNotFound is returned when writing to a section that does not
	// exist.
	ErrSectionNotFound = errors.New("section not found")

	// ErrNoPath is returned by Commit on a store that was not loaded from a
	// file.
	ErrNoPath = errors.New("configuration has no file path")
)

// Store is a YAML-backed sectioned configuration. It is safe for concurrent
// use.
type Store struct {
	mu       sync.Mutex
	path     string
	sections map[string]map[string]any
	dirty    bool
}

// Load reads the configuration at path. A missing file yields an empty
// store that Commit will create.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return &Store{path: path, sections: map[string]map[string]any{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

// Parse reads a configuration document that is not backed by a file.
func Parse(data []byte) (*Store, error) {
	sections := map[string]map[string]any{}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	for name, sec := range sections {
		if sec == nil {
			sections[name] = map[string]any{}
		}
	}
	return &Store{sections: sections}, nil
}

// Path returns the file the store commits to.
func (s *Store) Path() string {
	return s.path
}

// Sections returns the section names in sorted order.
func (s *Store) Sections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasSection reports whether section exists.
func (s *Store) HasSection(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sections[section]
	return ok
}

// AddSection creates an empty section if it does not exist yet.
func (s *Store) AddSection(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[section]; !ok {
		s.sections[section] = map[string]any{}
		s.dirty = true
	}
}

// GetOption returns a scalar option as a string. Lists are not options.
func (s *Store) GetOption(section, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.sections[section][key]
	if !ok || v == nil {
		return "", false
	}
	if _, isList := v.([]any); isList {
		return "", false
	}
	return scalarString(v), true
}

// GetInt returns an integer option, or def if the option is missing or not
// a number.
func (s *Store) GetInt(section, key string, def int) int {
	v, ok := s.GetOption(section, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetList returns a list option. A scalar option reads as a one-element
// list.
func (s *Store) GetList(section, key string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.sections[section][key]
	if !ok || v == nil {
		return nil, false
	}
	items, isList := v.([]any)
	if !isList {
		return []string{scalarString(v)}, true
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = scalarString(item)
	}
	return out, true
}

// SetOption sets a scalar option in an existing section. The change is
// kept in memory until Commit.
func (s *Store) SetOption(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[section]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	sec[key] = value
	s.dirty = true
	return nil
}

// Commit writes pending changes to the configuration file.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if s.path == "" {
		return ErrNoPath
	}

	data, err := yaml.Marshal(s.sections)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	s.dirty = false
	return nil
}

// decodeSection decodes one section into out using its yaml tags.
func (s *Store) decodeSection(section string, out any) error {
	s.mu.Lock()
	sec, ok := s.sections[section]
	var data []byte
	var err error
	if ok {
		data, err = yaml.Marshal(sec)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("marshal section %q: %w", section, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode section %q: %w", section, err)
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
