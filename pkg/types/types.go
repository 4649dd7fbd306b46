// Package types provides core types shared by the modkeeper packages
package types

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidIdentifier is returned for names that can not serve as a
// package directory name
var ErrInvalidIdentifier = errors.New("invalid package identifier")

// PackageIdentifier names a package or a nested sub-package as a dot-delimited
// path of lowercase segments, e.g. "parent.child".
type PackageIdentifier string

// ParseIdentifier normalizes a user supplied package name.
// Identifiers are lowercased so that all comparisons are case-insensitive.
// Names that fail CheckIdentifier yield the zero identifier.
func ParseIdentifier(name string) PackageIdentifier {
	id, err := CheckIdentifier(name)
	if err != nil {
		return ""
	}
	return id
}

// CheckIdentifier normalizes name and rejects path separators and empty
// segments, so every segment is usable as a single directory name.
func CheckIdentifier(name string) (PackageIdentifier, error) {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "", nil
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return "", ErrInvalidIdentifier
	}
	for _, segment := range strings.Split(name, ".") {
		if strings.TrimSpace(segment) == "" {
			return "", ErrInvalidIdentifier
		}
	}
	return PackageIdentifier(strings.ToLower(name)), nil
}

// String implements fmt.Stringer
func (id PackageIdentifier) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty
func (id PackageIdentifier) IsZero() bool {
	return id == ""
}

// Segments splits the identifier into its path segments
func (id PackageIdentifier) Segments() []string {
	if id == "" {
		return nil
	}
	return strings.Split(string(id), ".")
}

// Top returns the top-level package of the identifier
func (id PackageIdentifier) Top() PackageIdentifier {
	if i := strings.IndexByte(string(id), '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// Parent returns the enclosing package, or "" for a top-level package
func (id PackageIdentifier) Parent() PackageIdentifier {
	if i := strings.LastIndexByte(string(id), '.'); i >= 0 {
		return id[:i]
	}
	return ""
}

// Child returns the identifier of a nested sub-package
func (id PackageIdentifier) Child(name string) PackageIdentifier {
	child := ParseIdentifier(name)
	if id == "" {
		return child
	}
	return id + "." + child
}

// IsSubmod reports whether the identifier points below a top-level package
func (id PackageIdentifier) IsSubmod() bool {
	return strings.Contains(string(id), ".")
}

// Equal compares two identifiers case-insensitively
func (id PackageIdentifier) Equal(other PackageIdentifier) bool {
	return strings.EqualFold(string(id), string(other))
}

// IdentifierSet is an ordered set of package identifiers
type IdentifierSet []PackageIdentifier

// NewIdentifierSet builds a set from raw names, dropping duplicates and blanks
func NewIdentifierSet(names ...string) IdentifierSet {
	set := make(IdentifierSet, 0, len(names))
	seen := make(map[PackageIdentifier]bool, len(names))
	for _, name := range names {
		id := ParseIdentifier(name)
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	return set
}

// Contains reports whether id is in the set
func (s IdentifierSet) Contains(id PackageIdentifier) bool {
	for _, entry := range s {
		if entry.Equal(id) {
			return true
		}
	}
	return false
}

// Strings returns the set as plain strings
func (s IdentifierSet) Strings() []string {
	out := make([]string, len(s))
	for i, id := range s {
		out[i] = string(id)
	}
	return out
}

// SortIdentifiers sorts identifiers in place and returns them
func SortIdentifiers(ids []PackageIdentifier) []PackageIdentifier {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ModType is the closed set of package categories declared in mod.json
type ModType int

const (
	ModTypeOther ModType = iota
	ModTypeAI
	ModTypeArtifacts
	ModTypeCreatures
	ModTypeExpansion
	ModTypeGraphical
	ModTypeHeroes
	ModTypeInterface
	ModTypeMaps
	ModTypeMechanics
	ModTypeMusic
	ModTypeObjects
	ModTypeSkills
	ModTypeSounds
	ModTypeSpells
	ModTypeTemplates
	ModTypeTest
	ModTypeTown
	ModTypeTranslation
	ModTypeUtility
)

var modTypeNames = map[ModType]string{
	ModTypeOther:       "other",
	ModTypeAI:          "ai",
	ModTypeArtifacts:   "artifacts",
	ModTypeCreatures:   "creatures",
	ModTypeExpansion:   "expansion",
	ModTypeGraphical:   "graphical",
	ModTypeHeroes:      "heroes",
	ModTypeInterface:   "interface",
	ModTypeMaps:        "maps",
	ModTypeMechanics:   "mechanics",
	ModTypeMusic:       "music",
	ModTypeObjects:     "objects",
	ModTypeSkills:      "skills",
	ModTypeSounds:      "sounds",
	ModTypeSpells:      "spells",
	ModTypeTemplates:   "templates",
	ModTypeTest:        "test",
	ModTypeTown:        "town",
	ModTypeTranslation: "translation",
	ModTypeUtility:     "utility",
}

var modTypesByName = func() map[string]ModType {
	byName := make(map[string]ModType, len(modTypeNames))
	for t, name := range modTypeNames {
		byName[name] = t
	}
	return byName
}()

// ParseModType maps a mod.json "modType" value onto the enum.
// Unknown values fall back to ModTypeOther.
func ParseModType(name string) ModType {
	if t, ok := modTypesByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return ModTypeOther
}

// String implements fmt.Stringer
func (t ModType) String() string {
	if name, ok := modTypeNames[t]; ok {
		return name
	}
	return modTypeNames[ModTypeOther]
}

// Compatibility describes the application version window a package supports
type Compatibility struct {
	Min string `json:"min,omitempty" yaml:"min,omitempty"`
	Max string `json:"max,omitempty" yaml:"max,omitempty"`
}

// Manifest is the parsed content of a package's mod.json
type Manifest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Version       string        `json:"version,omitempty"`
	Author        string        `json:"author,omitempty"`
	Contact       string        `json:"contact,omitempty"`
	LicenseName   string        `json:"licenseName,omitempty"`
	ModType       string        `json:"modType,omitempty"`
	Depends       []string      `json:"depends,omitempty"`
	Conflicts     []string      `json:"conflicts,omitempty"`
	KeepDisabled  bool          `json:"keepDisabled,omitempty"`
	Compatibility Compatibility `json:"compatibility,omitempty"`
}

// Type returns the manifest's package category
func (m *Manifest) Type() ModType {
	return ParseModType(m.ModType)
}

// LocalPackage is the metadata of a package found on disk
type LocalPackage struct {
	ID             PackageIdentifier
	Manifest       Manifest
	Dir            string
	LocalSizeBytes int64
	StoredLocally  bool
	Submods        []LocalPackage
}

// RepositoryEntry is a package announced by a repository manifest
type RepositoryEntry struct {
	Name          string        `json:"name" yaml:"name"`
	Version       string        `json:"version,omitempty" yaml:"version,omitempty"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	ModType       string        `json:"modType,omitempty" yaml:"modType,omitempty"`
	Download      string        `json:"download,omitempty" yaml:"download,omitempty"`
	DownloadSize  float64       `json:"downloadSize,omitempty" yaml:"downloadSize,omitempty"`
	Depends       []string      `json:"depends,omitempty" yaml:"depends,omitempty"`
	Conflicts     []string      `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Compatibility Compatibility `json:"compatibility,omitempty" yaml:"compatibility,omitempty"`
}

// Descriptor is the merged catalog view of a single package
type Descriptor struct {
	Name            PackageIdentifier
	DisplayName     string
	Description     string
	Author          string
	Version         string
	Type            ModType
	IsSubmod        bool
	IsInstalled     bool
	IsAvailable     bool
	IsCompatible    bool
	IsEnabled       bool
	KeepDisabled    bool
	Dependencies    IdentifierSet
	Conflicts       IdentifierSet
	LocalSizeBytes  int64
	IsStoredLocally bool
}

// IsDisabled reports whether the package is installed but switched off
func (d Descriptor) IsDisabled() bool {
	return d.IsInstalled && !d.IsEnabled
}

// Status returns a short human readable state
func (d Descriptor) Status() string {
	switch {
	case d.IsEnabled:
		return "enabled"
	case d.IsInstalled:
		return "disabled"
	case d.IsAvailable:
		return "available"
	default:
		return "unknown"
	}
}
