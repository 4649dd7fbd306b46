// Package catalog merges installed packages and repository listings into
// the descriptor view used for lifecycle decisions.
package catalog

import (
	"sync"

	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/manifest"
	"github.com/modkeeper/modkeeper/pkg/settings"
	"github.com/modkeeper/modkeeper/pkg/types"
)

// ChangeFunc is called after the activation state of a package changed
type ChangeFunc func(id types.PackageIdentifier)

// Catalog is the local implementation of interfaces.Catalog. It also
// listens to the settings store for activation changes.
type Catalog struct {
	appVersion string
	logger     logger.Logger

	mu          sync.RWMutex
	local       map[types.PackageIdentifier]types.LocalPackage
	repository  map[types.PackageIdentifier]types.RepositoryEntry
	tree        settings.Tree
	descriptors map[types.PackageIdentifier]types.Descriptor
	subscribers []ChangeFunc
}

// New creates an empty catalog evaluating compatibility against appVersion
func New(appVersion string, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.Discard()
	}
	return &Catalog{
		appVersion:  appVersion,
		logger:      log,
		local:       map[types.PackageIdentifier]types.LocalPackage{},
		repository:  map[types.PackageIdentifier]types.RepositoryEntry{},
		tree:        settings.Tree{},
		descriptors: map[types.PackageIdentifier]types.Descriptor{},
	}
}

// Subscribe registers fn to be told about activation changes
func (c *Catalog) Subscribe(fn ChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Descriptor returns the merged view of id. Unknown packages yield a
// descriptor with every flag false.
func (c *Catalog) Descriptor(id types.PackageIdentifier) types.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.descriptors[id]
	if !ok {
		return types.Descriptor{Name: id, IsSubmod: id.IsSubmod()}
	}
	d.IsEnabled = d.IsInstalled && c.tree.IsActive(id)
	return d
}

// HasPackage reports whether id is known locally or from a repository
func (c *Catalog) HasPackage(id types.PackageIdentifier) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.descriptors[id]
	return ok
}

// PackageNames returns every known identifier in sorted order
func (c *Catalog) PackageNames() []types.PackageIdentifier {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]types.PackageIdentifier, 0, len(c.descriptors))
	for id := range c.descriptors {
		names = append(names, id)
	}
	return types.SortIdentifiers(names)
}

// SetActivationSubtree replaces the activation tree descriptors are derived from
func (c *Catalog) SetActivationSubtree(tree settings.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tree == nil {
		tree = settings.Tree{}
	}
	c.tree = tree
}

// NotifyChanged forwards an activation change to subscribers
func (c *Catalog) NotifyChanged(id types.PackageIdentifier) {
	c.mu.RLock()
	subscribers := append([]ChangeFunc(nil), c.subscribers...)
	c.mu.RUnlock()

	c.logger.Debug("Activation changed", logger.WithField("package", id.String()))
	for _, fn := range subscribers {
		fn(id)
	}
}

// SetLocalPackages replaces the installed set and rebuilds descriptors
func (c *Catalog) SetLocalPackages(pkgs map[types.PackageIdentifier]types.LocalPackage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.local = make(map[types.PackageIdentifier]types.LocalPackage, len(pkgs))
	for id, pkg := range pkgs {
		c.local[id] = pkg
	}
	c.rebuildLocked()
}

// AddRepositoryManifest registers a package announced by a repository.
// A later entry with the same name replaces the earlier one.
func (c *Catalog) AddRepositoryManifest(entry types.RepositoryEntry) {
	id := types.ParseIdentifier(entry.Name)
	if id.IsZero() {
		c.logger.Warn("Ignoring repository entry without a name")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry.Name = id.String()
	c.repository[id] = entry
	c.rebuildLocked()
}

// ResetRepositories forgets all repository entries
func (c *Catalog) ResetRepositories() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repository = map[types.PackageIdentifier]types.RepositoryEntry{}
	c.rebuildLocked()
}

// ReloadRepositories rebuilds the merged view from the current local and
// repository data
func (c *Catalog) ReloadRepositories() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuildLocked()
}

func (c *Catalog) rebuildLocked() {
	records := make(map[types.PackageIdentifier]*record)

	// Registration: every package and submod gets a record before any
	// names are resolved.
	for _, pkg := range c.local {
		registerLocal(records, pkg)
	}
	for id, entry := range c.repository {
		if rec, ok := records[id]; ok {
			rec.available = true
			continue
		}
		records[id] = &record{
			id:        id,
			available: true,
			manifest: types.Manifest{
				Name:        entry.Name,
				Version:     entry.Version,
				Description: entry.Description,
				ModType:     entry.ModType,
			},
			size:      int64(entry.DownloadSize * 1024 * 1024),
			depends:   entry.Depends,
			conflicts: entry.Conflicts,
			compat:    entry.Compatibility,
		}
	}

	// Resolution
	res := newResolver(records)
	descriptors := make(map[types.PackageIdentifier]types.Descriptor, len(records))
	for id, rec := range records {
		descriptors[id] = types.Descriptor{
			Name:            id,
			DisplayName:     rec.manifest.Name,
			Description:     rec.manifest.Description,
			Author:          rec.manifest.Author,
			Version:         rec.manifest.Version,
			Type:            rec.manifest.Type(),
			IsSubmod:        id.IsSubmod(),
			IsInstalled:     rec.installed,
			IsAvailable:     rec.available,
			IsCompatible:    manifest.Compatible(rec.compat, c.appVersion),
			KeepDisabled:    rec.keepDisabled,
			Dependencies:    res.resolveAll(id, rec.depends),
			Conflicts:       res.resolveAll(id, rec.conflicts),
			LocalSizeBytes:  rec.size,
			IsStoredLocally: rec.local,
		}
	}
	c.descriptors = descriptors
}

func registerLocal(records map[types.PackageIdentifier]*record, pkg types.LocalPackage) {
	records[pkg.ID] = &record{
		id:           pkg.ID,
		manifest:     pkg.Manifest,
		installed:    true,
		local:        pkg.StoredLocally,
		size:         pkg.LocalSizeBytes,
		depends:      pkg.Manifest.Depends,
		conflicts:    pkg.Manifest.Conflicts,
		compat:       pkg.Manifest.Compatibility,
		keepDisabled: pkg.Manifest.KeepDisabled,
	}
	for _, sub := range pkg.Submods {
		registerLocal(records, sub)
	}
}
