// Package settings persists the activation state of installed packages
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

// FileName is the settings document stored in the user config directory
const FileName = "modSettings.json"

const activeModsKey = "activeMods"

// Listener receives activation changes. The catalog implements it.
type Listener interface {
	SetActivationSubtree(tree Tree)
	NotifyChanged(id types.PackageIdentifier)
}

// Store holds the activation tree in memory and writes it through to disk
type Store struct {
	path     string
	logger   logger.Logger
	listener Listener

	mu    sync.RWMutex
	tree  Tree
	extra map[string]json.RawMessage
}

// NewStore creates a store for <configDir>/modSettings.json
func NewStore(configDir string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		path:   filepath.Join(configDir, FileName),
		logger: log,
		tree:   Tree{},
		extra:  map[string]json.RawMessage{},
	}
}

// SetListener registers the component that mirrors activation state
func (s *Store) SetListener(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings document. A missing or malformed document yields
// an empty tree; only the malformed case is logged.
func (s *Store) Load() Tree {
	tree, extra, err := readDocument(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Ignoring unreadable settings file",
				logger.WithField("path", s.path),
				logger.WithError(err))
		}
		tree, extra = Tree{}, map[string]json.RawMessage{}
	}

	s.mu.Lock()
	s.tree = tree
	s.extra = extra
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.SetActivationSubtree(tree.Clone())
	}
	return tree.Clone()
}

// Tree returns a copy of the current activation tree
func (s *Store) Tree() Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Clone()
}

// IsActive reports the persisted activation flag of a package
func (s *Store) IsActive(id types.PackageIdentifier) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.IsActive(id)
}

// Enable switches a package on or off. The in-memory tree is replaced and
// pushed to the listener before the flush; a flush error is returned but the
// in-memory state is kept.
func (s *Store) Enable(id types.PackageIdentifier, on bool) error {
	return s.Set(id, FieldActive, on)
}

// Set writes any field of a package node and flushes the document
func (s *Store) Set(id types.PackageIdentifier, field Field, value bool) error {
	if id.IsZero() {
		return fmt.Errorf("empty package identifier")
	}

	s.mu.Lock()
	s.tree = Write(s.tree, id, field, value)
	snapshot := s.tree.Clone()
	extra := s.extra
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.SetActivationSubtree(snapshot)
		listener.NotifyChanged(id)
	}

	if err := writeDocument(s.path, snapshot, extra); err != nil {
		s.logger.Error("Failed to flush settings",
			logger.WithField("path", s.path),
			logger.WithError(err))
		return err
	}

	s.logger.WithPackage(id.String()).Debug("Settings flushed",
		logger.WithField("field", field.String()),
		logger.WithField("value", value))
	return nil
}

func readDocument(path string) (Tree, map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	tree := Tree{}
	if raw, ok := doc[activeModsKey]; ok {
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", activeModsKey, err)
		}
		delete(doc, activeModsKey)
	}
	if tree == nil {
		tree = Tree{}
	}

	return normalize(tree), doc, nil
}

// normalize lowercases keys so lookups by identifier always hit
func normalize(tree Tree) Tree {
	out := make(Tree, len(tree))
	for k, v := range tree {
		if v == nil {
			continue
		}
		n := *v
		n.Mods = normalize(v.Mods)
		if len(n.Mods) == 0 {
			n.Mods = nil
		}
		key := string(types.ParseIdentifier(k))
		if key == "" {
			// not a package name; kept verbatim so the flush writes it back
			key = k
		}
		out[key] = &n
	}
	return out
}

// Marshal renders the settings document with two-space indentation
func Marshal(tree Tree, extra map[string]json.RawMessage) ([]byte, error) {
	doc := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		doc[k] = v
	}
	if tree == nil {
		tree = Tree{}
	}
	doc[activeModsKey] = tree

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return append(data, '\n'), nil
}

func writeDocument(path string, tree Tree, extra map[string]json.RawMessage) error {
	data, err := Marshal(tree, extra)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, data, 0o644)
}
