// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"context"

	"github.com/modkeeper/modkeeper/pkg/messages"
	"github.com/modkeeper/modkeeper/pkg/settings"
	"github.com/modkeeper/modkeeper/pkg/types"
)

//go:generate mockgen -destination=../mocks/mocks.go -package=mocks github.com/modkeeper/modkeeper/pkg/interfaces Catalog,PackageIndex,LifecycleNotifier

// Catalog is the merged view of local and repository packages
type Catalog interface {
	Descriptor(id types.PackageIdentifier) types.Descriptor
	HasPackage(id types.PackageIdentifier) bool
	PackageNames() []types.PackageIdentifier
	SetActivationSubtree(tree settings.Tree)
	NotifyChanged(id types.PackageIdentifier)
	SetLocalPackages(pkgs map[types.PackageIdentifier]types.LocalPackage)
	AddRepositoryManifest(entry types.RepositoryEntry)
	ResetRepositories()
	ReloadRepositories()
}

// PackageIndex is the on-disk resource index of installed packages
type PackageIndex interface {
	Rescan(ctx context.Context) (map[types.PackageIdentifier]types.LocalPackage, error)
	ResolveDir(id types.PackageIdentifier) (string, bool)
	Has(id types.PackageIdentifier) bool
	PackagesDir() string
}

// SettingsStore persists activation state
type SettingsStore interface {
	Load() settings.Tree
	Tree() settings.Tree
	IsActive(id types.PackageIdentifier) bool
	Enable(id types.PackageIdentifier, on bool) error
	SetListener(l settings.Listener)
}

// LifecycleNotifier reports completed or failed operations to the user
type LifecycleNotifier interface {
	NotifyInstalled(id types.PackageIdentifier)
	NotifyUninstalled(id types.PackageIdentifier)
	NotifyFailure(id types.PackageIdentifier, err error)
}

// ProgressFunc receives extraction progress; total is 0 when unknown
type ProgressFunc func(id types.PackageIdentifier, done, total int64)

// LifecycleDependencies holds the collaborators of the lifecycle engine
type LifecycleDependencies struct {
	Catalog  Catalog
	Index    PackageIndex
	Settings SettingsStore
	Notifier LifecycleNotifier
	Queue    *messages.Queue
}
