package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/modkeeper/modkeeper/internal/worker"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/manifest"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

// submodDirNames are the folders searched for nested packages, in order
var submodDirNames = []string{"mods", "Mods"}

// Index is the on-disk resource index. It knows every installed package,
// where it lives and how large it is. It is rebuilt wholesale by Rescan.
type Index struct {
	packagesDir string
	systemDirs  []string
	workers     int
	logger      logger.Logger

	mu       sync.RWMutex
	packages map[types.PackageIdentifier]types.LocalPackage
	dirs     map[types.PackageIdentifier]string
}

// NewIndex creates an index over the writable packagesDir and any number of
// read-only system package directories. Packages in packagesDir shadow
// system packages of the same name.
func NewIndex(packagesDir string, systemDirs []string, workers int, log logger.Logger) *Index {
	if log == nil {
		log = logger.Discard()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Index{
		packagesDir: packagesDir,
		systemDirs:  systemDirs,
		workers:     workers,
		logger:      log,
		packages:    map[types.PackageIdentifier]types.LocalPackage{},
		dirs:        map[types.PackageIdentifier]string{},
	}
}

// PackagesDir returns the writable packages directory
func (i *Index) PackagesDir() string {
	return i.packagesDir
}

// Rescan walks all package directories and replaces the index contents
func (i *Index) Rescan(ctx context.Context) (map[types.PackageIdentifier]types.LocalPackage, error) {
	type candidate struct {
		id    types.PackageIdentifier
		dir   string
		local bool
	}

	var candidates []candidate
	seen := map[types.PackageIdentifier]bool{}

	roots := append([]string{i.packagesDir}, i.systemDirs...)
	for n, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read packages directory %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			id := types.ParseIdentifier(entry.Name())
			if seen[id] {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			if _, ok := utils.FindChildFold(dir, manifest.FileName); !ok {
				continue
			}
			seen[id] = true
			candidates = append(candidates, candidate{id: id, dir: dir, local: n == 0})
		}
	}

	results := make([]types.LocalPackage, len(candidates))
	loaded := make([]bool, len(candidates))

	group, gctx := worker.NewSafeGroup(ctx, i.logger)
	group.SetLimit(i.workers)
	for n, c := range candidates {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pkg, err := i.loadPackage(c.id, c.dir, c.local)
			if err != nil {
				i.logger.WithPackage(c.id.String()).Warn("Skipping package with unreadable manifest",
					logger.WithField("dir", c.dir),
					logger.WithError(err))
				return nil
			}
			results[n] = pkg
			loaded[n] = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	packages := make(map[types.PackageIdentifier]types.LocalPackage, len(results))
	dirs := make(map[types.PackageIdentifier]string, len(results))
	for n, pkg := range results {
		if !loaded[n] {
			continue
		}
		packages[pkg.ID] = pkg
		registerDirs(dirs, pkg)
	}

	i.mu.Lock()
	i.packages = packages
	i.dirs = dirs
	i.mu.Unlock()

	i.logger.Debug("Package index rebuilt", logger.WithField("packages", len(packages)))
	return clonePackages(packages), nil
}

func registerDirs(dirs map[types.PackageIdentifier]string, pkg types.LocalPackage) {
	dirs[pkg.ID] = pkg.Dir
	for _, sub := range pkg.Submods {
		registerDirs(dirs, sub)
	}
}

func (i *Index) loadPackage(id types.PackageIdentifier, dir string, local bool) (types.LocalPackage, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return types.LocalPackage{}, err
	}

	size, err := utils.GetDirectorySize(dir)
	if err != nil {
		return types.LocalPackage{}, fmt.Errorf("failed to compute size of %s: %w", dir, err)
	}

	pkg := types.LocalPackage{
		ID:             id,
		Manifest:       m,
		Dir:            dir,
		LocalSizeBytes: size,
		StoredLocally:  local,
	}

	for _, name := range submodDirNames {
		subRoot := filepath.Join(dir, name)
		entries, err := os.ReadDir(subRoot)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			subDir := filepath.Join(subRoot, entry.Name())
			if _, ok := utils.FindChildFold(subDir, manifest.FileName); !ok {
				continue
			}
			sub, err := i.loadPackage(id.Child(entry.Name()), subDir, local)
			if err != nil {
				i.logger.WithPackage(id.Child(entry.Name()).String()).Warn("Skipping submod",
					logger.WithError(err))
				continue
			}
			pkg.Submods = append(pkg.Submods, sub)
		}
		// "mods" and "Mods" are the same folder on case-insensitive filesystems
		break
	}

	sort.Slice(pkg.Submods, func(a, b int) bool { return pkg.Submods[a].ID < pkg.Submods[b].ID })
	return pkg, nil
}

// Packages returns the top-level packages found by the last rescan
func (i *Index) Packages() map[types.PackageIdentifier]types.LocalPackage {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return clonePackages(i.packages)
}

// Has reports whether a package (or submod) was found on disk
func (i *Index) Has(id types.PackageIdentifier) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.dirs[id]
	return ok
}

// ResolveDir returns the on-disk directory of a package. Identifiers are
// lowercase while directories keep their original casing, so the lookup is
// case-insensitive; when the index has no record the packages directory is
// searched directly.
func (i *Index) ResolveDir(id types.PackageIdentifier) (string, bool) {
	i.mu.RLock()
	dir, ok := i.dirs[id]
	i.mu.RUnlock()
	if ok {
		return dir, true
	}
	if id.IsSubmod() {
		return "", false
	}
	return utils.FindChildFold(i.packagesDir, id.String())
}

func clonePackages(in map[types.PackageIdentifier]types.LocalPackage) map[types.PackageIdentifier]types.LocalPackage {
	out := make(map[types.PackageIdentifier]types.LocalPackage, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
