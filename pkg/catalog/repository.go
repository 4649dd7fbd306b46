package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modkeeper/modkeeper/pkg/types"
)

// repositoryList is the list form of a repository file:
//
//	mods:
//	  - name: hota
//	    version: 1.7.1
type repositoryList struct {
	Mods []types.RepositoryEntry `json:"mods" yaml:"mods"`
}

// LoadRepositoryFile reads a repository manifest from disk. Two layouts are
// accepted: a "mods" list of entries, or a map from package name to entry.
// JSON files are decoded as JSON, everything else as YAML.
func LoadRepositoryFile(path string) ([]types.RepositoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository file: %w", err)
	}

	entries, err := ParseRepository(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseRepository decodes repository file content
func ParseRepository(data []byte, isJSON bool) ([]types.RepositoryEntry, error) {
	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}

	var list repositoryList
	if err := unmarshal(data, &list); err == nil && len(list.Mods) > 0 {
		return normalizeEntries(list.Mods)
	}

	var byName map[string]types.RepositoryEntry
	if err := unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]types.RepositoryEntry, 0, len(byName))
	for _, name := range names {
		entry := byName[name]
		if entry.Name == "" {
			entry.Name = name
		}
		entries = append(entries, entry)
	}
	return normalizeEntries(entries)
}

func normalizeEntries(entries []types.RepositoryEntry) ([]types.RepositoryEntry, error) {
	for i := range entries {
		id := types.ParseIdentifier(entries[i].Name)
		if id.IsZero() {
			return nil, fmt.Errorf("repository entry %d has no name", i)
		}
		entries[i].Name = id.String()
	}
	return entries, nil
}
