package replopscfg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/fsutil"
)

// Store loads and saves the configuration document at Path. It keeps the
// last loaded or saved Configuration; a single caller owns a Store.
type Store struct {
	Path string

	mu  sync.Mutex
	cfg *model.Configuration
}

// NewStore returns a store for the document at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads, decodes and validates the document. A missing document yields
// Default() without writing anything to disk.
func (s *Store) Load() (*model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.cfg = Default()
		return s.cfg, nil
	}
	if err != nil {
		return nil, &model.ConfigurationError{Path: s.Path, Msg: "cannot read configuration", Err: err}
	}
	doc, err := Decode(s.Path, data)
	if err != nil {
		return nil, err
	}
	s.cfg = doc.ToModel()
	return s.cfg, nil
}

// Decode parses and validates a configuration document.
func Decode(path string, data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		ce := &model.ConfigurationError{Path: path, Msg: "cannot decode configuration", Err: err}
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			ce.Field = te.Field
			ce.Msg = fmt.Sprintf("expected %s, got %s", te.Type, te.Value)
			ce.Err = nil
		}
		return nil, ce
	}
	if err := doc.Validate(path); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save validates cfg and atomically replaces the document.
func (s *Store) Save(cfg *model.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg == nil {
		return &model.ConfigurationError{Path: s.Path, Msg: "configuration is nil"}
	}
	doc := FromModel(cfg)
	if err := doc.Validate(s.Path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &model.ConfigurationError{Path: s.Path, Msg: "cannot encode configuration", Err: err}
	}
	data = append(data, '\n')
	if err := fsutil.WriteFileAtomic(s.Path, data, 0644); err != nil {
		return &model.ConfigurationError{Path: s.Path, Msg: "cannot write configuration", Err: err}
	}
	s.cfg = cfg
	return nil
}

// Current returns the configuration last loaded or saved, or nil.
func (s *Store) Current() *model.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Exists reports whether the document is present on disk.
func (s *Store) Exists() (bool, error) {
	return fsutil.Exists(s.Path)
}

// ResolveTemplatePath resolves a template path relative to the directory of
// the configuration document.
func (s *Store) ResolveTemplatePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(s.Path), p)
}
