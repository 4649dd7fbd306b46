package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modkeeper/modkeeper/internal/worker"
	"github.com/modkeeper/modkeeper/pkg/interfaces"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

// DefaultPollInterval is how often a running extraction is polled
const DefaultPollInterval = 50 * time.Millisecond

const stagingSuffix = ".partial"

// User-facing failure messages
const (
	MsgArchiveMissing   = "Mod archive is missing"
	MsgAlreadyPresent   = "Mod with such name is already installed"
	MsgArchiveInvalid   = "Mod archive is invalid or corrupted"
	MsgExtractFailed    = "Failed to extract mod data"
	MsgRenameFailed     = "Failed to move extracted mod data"
	MsgDataNotFound     = "Data with this mod was not found"
	MsgProtectedPrefix  = "Mod is located in protected directory, please remove it manually:\n"
	MsgRescanFailed     = "Failed to rescan installed mods"
	msgCancelledInstall = "Installation was cancelled"
)

// Installer extracts archives into the packages directory and removes
// installed packages. Every successful mutation is followed by a rescan of
// the index and a reload of the catalog.
type Installer struct {
	index   interfaces.PackageIndex
	catalog interfaces.Catalog
	guard   Guard
	logger  logger.Logger

	// PollInterval is the extraction polling period
	PollInterval time.Duration
	// Progress is called on every poll tick; totals are unknown so both
	// counters are zero
	Progress interfaces.ProgressFunc
	// Yield is called on every poll tick so an embedding event loop can run
	Yield func()
	// Exclude filters junk entries out of archives
	Exclude *utils.ExclusionMatcher
}

// NewInstaller creates an installer writing into index.PackagesDir()
func NewInstaller(index interfaces.PackageIndex, catalog interfaces.Catalog, guard Guard, log logger.Logger) *Installer {
	if log == nil {
		log = logger.Discard()
	}
	exclude, err := utils.NewExclusionMatcher(utils.DefaultArchiveExclusions())
	if err != nil {
		log.Warn("Invalid archive exclusion patterns", logger.WithError(err))
	}
	return &Installer{
		index:        index,
		catalog:      catalog,
		guard:        guard,
		logger:       log,
		PollInterval: DefaultPollInterval,
		Exclude:      exclude,
	}
}

// Guard returns the removal guard in use
func (in *Installer) Guard() Guard {
	return in.guard
}

// Install extracts archivePath and registers it as package id. The context
// is only consulted before extraction starts; a running extraction is
// always awaited.
func (in *Installer) Install(ctx context.Context, id types.PackageIdentifier, archivePath string) error {
	log := in.logger.WithPackage(id.String())
	dest := in.index.PackagesDir()

	if !utils.FileExists(archivePath) {
		return types.WrapLifecycleError(types.KindArchive, id, MsgArchiveMissing, ErrArchiveMissing)
	}
	if _, ok := in.index.ResolveDir(id); ok || in.index.Has(id) {
		return types.NewLifecycleError(types.KindValidation, id, MsgAlreadyPresent)
	}

	layout, err := Inspect(archivePath)
	if err != nil {
		log.Warn("Failed to detect package root", logger.WithField("archive", archivePath), logger.WithError(err))
		return types.WrapLifecycleError(types.KindArchive, id, MsgArchiveInvalid, err)
	}

	topLevel := filepath.Join(dest, filepath.FromSlash(layout.TopLevel()))
	// Extracting over an existing folder would merge into another package
	if utils.Exists(topLevel) {
		return types.NewLifecycleError(types.KindValidation, id, MsgAlreadyPresent)
	}

	if err := ctx.Err(); err != nil {
		return types.WrapLifecycleError(types.KindArchive, id, msgCancelledInstall, err)
	}
	if err := utils.EnsureDirectory(dest); err != nil {
		return types.WrapLifecycleError(types.KindFilesystem, id, MsgExtractFailed, err)
	}

	files := layout.PackageFiles()
	if in.Exclude != nil {
		files = in.Exclude.FilterPaths(files)
	}
	log.Info("Extracting package",
		logger.WithField("archive", archivePath),
		logger.WithField("root", layout.Root),
		logger.WithField("files", len(files)),
		logger.WithField("skipped", len(layout.Files)-len(files)))

	future := worker.Async(in.logger, func() error {
		return Extract(archivePath, dest, files, in.Exclude)
	})
	in.await(id, future)

	if err := future.Wait(); err != nil {
		if rmErr := in.guard.RemoveAll(topLevel); rmErr != nil {
			log.Warn("Failed to clean up partial extraction", logger.WithField("path", topLevel), logger.WithError(rmErr))
		}
		log.Error("Extraction failed", logger.WithError(err))
		return types.WrapLifecycleError(types.KindArchive, id, MsgExtractFailed, err)
	}

	extracted := filepath.Join(dest, filepath.FromSlash(layout.Root))
	canonical := filepath.Join(dest, id.String())

	// "foo/foo/mod.json": the enclosing folder already has the target name
	if layout.Nested() && strings.EqualFold(layout.TopLevel(), id.String()) {
		staging := topLevel + stagingSuffix
		if err := os.Rename(topLevel, staging); err != nil {
			if rmErr := in.guard.RemoveAll(topLevel); rmErr != nil {
				log.Warn("Failed to clean up extracted data", logger.WithField("path", topLevel), logger.WithError(rmErr))
			}
			return types.WrapLifecycleError(types.KindFilesystem, id, MsgRenameFailed, err)
		}
		extracted = filepath.Join(staging, filepath.FromSlash(layout.Root[len(layout.TopLevel())+1:]))
		topLevel = staging
	}
	if extracted != canonical {
		if err := os.Rename(extracted, canonical); err != nil {
			if rmErr := in.guard.RemoveAll(topLevel); rmErr != nil {
				log.Warn("Failed to clean up extracted data", logger.WithField("path", topLevel), logger.WithError(rmErr))
			}
			return types.WrapLifecycleError(types.KindFilesystem, id, MsgRenameFailed, err)
		}
	}

	if layout.Nested() && topLevel != canonical {
		if err := in.guard.RemoveAll(topLevel); err != nil {
			log.Warn("Failed to remove enclosing archive folder", logger.WithField("path", topLevel), logger.WithError(err))
		}
	}

	if err := in.Refresh(context.WithoutCancel(ctx)); err != nil {
		return types.WrapLifecycleError(types.KindFilesystem, id, MsgRescanFailed, err)
	}

	log.Success("Package installed", logger.WithField("dir", canonical))
	return nil
}

// await polls the extraction until it completes
func (in *Installer) await(id types.PackageIdentifier, future *worker.Future) {
	interval := in.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-future.Done():
			return
		case <-ticker.C:
			if in.Progress != nil {
				in.Progress(id, 0, 0)
			}
			if in.Yield != nil {
				in.Yield()
			}
		}
	}
}

// Uninstall removes the on-disk directory of package id
func (in *Installer) Uninstall(ctx context.Context, id types.PackageIdentifier) error {
	log := in.logger.WithPackage(id.String())

	dir, ok := in.index.ResolveDir(id)
	if !ok || !utils.DirectoryExists(dir) {
		return types.NewLifecycleError(types.KindFilesystem, id, MsgDataNotFound)
	}

	if err := in.guard.RemoveAll(dir); err != nil {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			abs = dir
		}
		if errors.Is(err, ErrProtectedLocation) {
			log.Warn("Refusing to remove protected directory", logger.WithField("dir", abs))
			return types.WrapLifecycleError(types.KindFilesystem, id, MsgProtectedPrefix+abs, err)
		}
		return types.WrapLifecycleError(types.KindFilesystem, id, fmt.Sprintf("Failed to remove %s", abs), err)
	}

	if err := in.Refresh(context.WithoutCancel(ctx)); err != nil {
		return types.WrapLifecycleError(types.KindFilesystem, id, MsgRescanFailed, err)
	}

	log.Success("Package uninstalled", logger.WithField("dir", dir))
	return nil
}

// Refresh rescans the index and pushes the result into the catalog
func (in *Installer) Refresh(ctx context.Context) error {
	pkgs, err := in.index.Rescan(ctx)
	if err != nil {
		return err
	}
	in.catalog.SetLocalPackages(pkgs)
	in.catalog.ReloadRepositories()
	return nil
}
