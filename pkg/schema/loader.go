package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store keeps the documents parsed from a directory tree, keyed by schema id.
// It is safe for concurrent readers when treated as immutable after
// construction.
type Store struct {
	documents map[string]Document
}

// LoadFile reads and parses a single schema document from disk.
func LoadFile(path string) (Document, error) {
	src := SourceFromFile(path)
	data, err := os.ReadFile(src.Location())
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	return Parse(src, data)
}

// LoadFS walks fsys and parses every JSON/YAML schema file. Documents without
// an id take the file name without extension. Duplicate ids are rejected.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{documents: make(map[string]Document)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := Parse(SourceFromFS(path), data)
		if err != nil {
			return err
		}
		if doc.Schema.ID == "" {
			doc.Schema.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if existing, exists := store.documents[doc.Schema.ID]; exists {
			return fmt.Errorf("schema: duplicate schema %q (files %s and %s)", doc.Schema.ID, existing.Location(), path)
		}
		store.documents[doc.Schema.ID] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Document returns the parsed document registered under id.
func (s *Store) Document(id string) (Document, bool) {
	if s == nil {
		return Document{}, false
	}
	doc, ok := s.documents[strings.TrimSpace(id)]
	return doc, ok
}

// IDs returns the registered schema ids, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any documents.
func (s *Store) Empty() bool {
	return s == nil || len(s.documents) == 0
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
