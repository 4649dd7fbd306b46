package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/modkeeper/modkeeper/pkg/archive"
	"github.com/modkeeper/modkeeper/pkg/catalog"
	mkcontext "github.com/modkeeper/modkeeper/pkg/context"
	"github.com/modkeeper/modkeeper/pkg/interfaces"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/messages"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/validation"
)

// MsgSettingsNotSaved is queued when the activation state could not be flushed
const MsgSettingsNotSaved = "Failed to save mod settings"

// MsgInvalidName is queued for names that contain path separators or empty segments
const MsgInvalidName = "Mod name is not valid"

// Engine orchestrates package lifecycle transitions. Operations are
// serialised; a refresh triggered from another goroutine never overlaps a
// running operation.
type Engine struct {
	catalog   interfaces.Catalog
	index     interfaces.PackageIndex
	settings  interfaces.SettingsStore
	notifier  interfaces.LifecycleNotifier
	queue     *messages.Queue
	validator *validation.Validator
	installer *archive.Installer
	logger    logger.Logger

	mu sync.Mutex
}

// New creates an engine over deps. Missing optional dependencies (queue,
// notifier) get defaults.
func New(deps interfaces.LifecycleDependencies, guard archive.Guard, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	if deps.Queue == nil {
		deps.Queue = messages.NewQueue(0)
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}

	return &Engine{
		catalog:   deps.Catalog,
		index:     deps.Index,
		settings:  deps.Settings,
		notifier:  deps.Notifier,
		queue:     deps.Queue,
		validator: validation.NewValidator(deps.Catalog, deps.Queue),
		installer: archive.NewInstaller(deps.Index, deps.Catalog, guard, log),
		logger:    log,
	}
}

// Installer exposes the archive installer for progress and yield hooks
func (e *Engine) Installer() *archive.Installer {
	return e.installer
}

// Init loads the activation state and scans installed packages
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.SetListener(e.catalog)
	e.settings.Load()
	return e.installer.Refresh(ctx)
}

// Refresh rescans installed packages
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = mkcontext.ForOperation(ctx, "refresh")
	if err := e.installer.Refresh(ctx); err != nil {
		logger.WithContext(ctx, e.logger).Error("Refresh failed", logger.WithError(err))
		return err
	}
	return nil
}

// Install installs package name from a local archive
func (e *Engine) Install(ctx context.Context, name, archivePath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.parseName(name)
	if err != nil {
		return err
	}
	ctx = mkcontext.ForOperation(ctx, "install")
	log := logger.WithContext(ctx, e.logger).WithPackage(id.String())

	if err := e.validator.CanInstall(id); err != nil {
		log.Warn("Install rejected", logger.WithError(err))
		return err
	}

	if err := e.installer.Install(ctx, id, archivePath); err != nil {
		e.record(err)
		e.notifier.NotifyFailure(id, err)
		log.Error("Install failed", logger.WithError(err))
		return err
	}

	e.notifier.NotifyInstalled(id)
	log.Info("Install completed")
	return nil
}

// Uninstall removes package name. Enabled packages may be uninstalled.
func (e *Engine) Uninstall(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.parseName(name)
	if err != nil {
		return err
	}
	ctx = mkcontext.ForOperation(ctx, "uninstall")
	log := logger.WithContext(ctx, e.logger).WithPackage(id.String())

	if err := e.validator.CanUninstall(id); err != nil {
		log.Warn("Uninstall rejected", logger.WithError(err))
		return err
	}

	if err := e.installer.Uninstall(ctx, id); err != nil {
		e.record(err)
		e.notifier.NotifyFailure(id, err)
		log.Error("Uninstall failed", logger.WithError(err))
		return err
	}

	e.notifier.NotifyUninstalled(id)
	log.Info("Uninstall completed")
	return nil
}

// Enable switches package name on
func (e *Engine) Enable(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.parseName(name)
	if err != nil {
		return err
	}
	ctx = mkcontext.ForOperation(ctx, "enable")

	if err := e.validator.CanEnable(id); err != nil {
		logger.WithContext(ctx, e.logger).WithPackage(id.String()).Warn("Enable rejected", logger.WithError(err))
		return err
	}
	return e.setActive(ctx, id, true)
}

// Disable switches package name off
func (e *Engine) Disable(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.parseName(name)
	if err != nil {
		return err
	}
	ctx = mkcontext.ForOperation(ctx, "disable")

	if err := e.validator.CanDisable(id); err != nil {
		logger.WithContext(ctx, e.logger).WithPackage(id.String()).Warn("Disable rejected", logger.WithError(err))
		return err
	}
	return e.setActive(ctx, id, false)
}

// setActive writes the activation flag. The in-memory tree is updated even
// when the flush fails.
func (e *Engine) setActive(ctx context.Context, id types.PackageIdentifier, on bool) error {
	log := logger.WithContext(ctx, e.logger).WithPackage(id.String())

	if err := e.settings.Enable(id, on); err != nil {
		lerr := types.WrapLifecycleError(types.KindFilesystem, id, MsgSettingsNotSaved, err)
		e.record(lerr)
		log.Error("Activation state not persisted", logger.WithError(err))
		return lerr
	}

	log.Info("Activation state changed", logger.WithField("active", on))
	return nil
}

// DrainErrors returns and clears all queued messages
func (e *Engine) DrainErrors() []string {
	return e.queue.Drain()
}

// Descriptor returns the catalog view of package name
func (e *Engine) Descriptor(name string) types.Descriptor {
	return e.catalog.Descriptor(types.ParseIdentifier(name))
}

// Packages returns descriptors of every known package, sorted by name
func (e *Engine) Packages() []types.Descriptor {
	names := e.catalog.PackageNames()
	out := make([]types.Descriptor, 0, len(names))
	for _, id := range names {
		out = append(out, e.catalog.Descriptor(id))
	}
	return out
}

// LoadRepositories registers repository entries with the catalog
func (e *Engine) LoadRepositories(entries []types.RepositoryEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range entries {
		e.catalog.AddRepositoryManifest(entry)
	}
	e.catalog.ReloadRepositories()
}

// LoadRepositoryFiles reads repository manifests and registers their entries.
// Unreadable files are skipped and reported in the returned error.
func (e *Engine) LoadRepositoryFiles(paths []string) error {
	var errs []error
	for _, path := range paths {
		entries, err := catalog.LoadRepositoryFile(path)
		if err != nil {
			e.logger.Warn("Skipping repository file", logger.WithField("path", path), logger.WithError(err))
			errs = append(errs, err)
			continue
		}
		e.LoadRepositories(entries)
	}
	return errors.Join(errs...)
}

// ResetRepositories forgets all repository entries
func (e *Engine) ResetRepositories() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog.ResetRepositories()
}

// Sideload announces a local archive as an available package so that it
// can be installed without a repository listing it.
func (e *Engine) Sideload(name, archivePath string) error {
	id, err := e.parseName(name)
	if err != nil {
		return err
	}

	layout, err := archive.Inspect(archivePath)
	if err != nil {
		lerr := types.WrapLifecycleError(types.KindArchive, id, archive.MsgArchiveInvalid, err)
		if errors.Is(err, archive.ErrArchiveMissing) {
			lerr = types.WrapLifecycleError(types.KindArchive, id, archive.MsgArchiveMissing, err)
		}
		e.record(lerr)
		return lerr
	}

	entry := types.RepositoryEntry{Name: id.String(), Download: archivePath}
	if m, err := archive.ReadManifest(archivePath, layout); err == nil {
		entry.Version = m.Version
		entry.Description = m.Description
		entry.ModType = m.ModType
		entry.Depends = m.Depends
		entry.Conflicts = m.Conflicts
		entry.Compatibility = m.Compatibility
	} else {
		e.logger.WithPackage(id.String()).Warn("Archive manifest unreadable", logger.WithError(err))
	}

	e.LoadRepositories([]types.RepositoryEntry{entry})
	return nil
}

// parseName normalizes a user supplied name, queueing a rejection when it
// can not be used as an identifier
func (e *Engine) parseName(name string) (types.PackageIdentifier, error) {
	id, err := types.CheckIdentifier(name)
	if err != nil {
		lerr := types.WrapLifecycleError(types.KindValidation, types.PackageIdentifier(strings.TrimSpace(name)), MsgInvalidName, err)
		e.record(lerr)
		return "", lerr
	}
	return id, nil
}

func (e *Engine) record(err error) {
	var lerr *types.LifecycleError
	if errors.As(err, &lerr) {
		e.queue.AddError(lerr)
		return
	}
	e.queue.Add("", err.Error())
}

type nopNotifier struct{}

func (nopNotifier) NotifyInstalled(types.PackageIdentifier)      {}
func (nopNotifier) NotifyUninstalled(types.PackageIdentifier)    {}
func (nopNotifier) NotifyFailure(types.PackageIdentifier, error) {}
