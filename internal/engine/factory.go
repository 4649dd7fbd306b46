package engine

import (
	"github.com/modkeeper/modkeeper/pkg/archive"
	"github.com/modkeeper/modkeeper/pkg/catalog"
	"github.com/modkeeper/modkeeper/pkg/config"
	"github.com/modkeeper/modkeeper/pkg/interfaces"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/messages"
	"github.com/modkeeper/modkeeper/pkg/notifier"
	"github.com/modkeeper/modkeeper/pkg/settings"
)

// DependencyFactory creates default implementations of the engine's
// collaborators from configuration.
type DependencyFactory struct {
	config *config.Config
	logger logger.Logger
}

// NewDependencyFactory creates a new dependency factory
func NewDependencyFactory(cfg *config.Config, log logger.Logger) *DependencyFactory {
	if log == nil {
		log = logger.Discard()
	}
	return &DependencyFactory{config: cfg, logger: log}
}

// CreateDefaults creates all default dependencies
func (f *DependencyFactory) CreateDefaults() interfaces.LifecycleDependencies {
	deps := interfaces.LifecycleDependencies{
		Catalog:  catalog.New(f.config.AppVersion, f.logger),
		Index:    catalog.NewIndex(f.config.PackagesPath(), f.config.SystemDirs, f.config.SizeWorkers, f.logger),
		Settings: settings.NewStore(f.config.ConfigDir, f.logger),
		Queue:    messages.NewQueue(f.config.MessageQueueSize),
	}

	if f.config.NotificationsEnabled() {
		deps.Notifier = f.createNotifier()
	}

	return deps
}

// CreateWithOverrides creates dependencies with specific overrides.
// Non-nil overrides replace the defaults.
func (f *DependencyFactory) CreateWithOverrides(overrides interfaces.LifecycleDependencies) interfaces.LifecycleDependencies {
	deps := f.CreateDefaults()

	if overrides.Catalog != nil {
		deps.Catalog = overrides.Catalog
	}
	if overrides.Index != nil {
		deps.Index = overrides.Index
	}
	if overrides.Settings != nil {
		deps.Settings = overrides.Settings
	}
	if overrides.Notifier != nil {
		deps.Notifier = overrides.Notifier
	}
	if overrides.Queue != nil {
		deps.Queue = overrides.Queue
	}

	return deps
}

// Guard returns the removal guard for the configured layout
func (f *DependencyFactory) Guard() archive.Guard {
	return archive.Guard{
		PackagesDirName: f.config.PackagesDir,
		AppDirName:      f.config.AppName,
		Sandboxed:       f.config.Sandboxed,
	}
}

// NewEngine builds an engine from the default dependencies
func (f *DependencyFactory) NewEngine() *Engine {
	return f.NewEngineWith(f.CreateDefaults())
}

// NewEngineWith builds an engine from deps and applies the configured
// poll interval.
func (f *DependencyFactory) NewEngineWith(deps interfaces.LifecycleDependencies) *Engine {
	e := New(deps, f.Guard(), f.logger)
	if d := f.config.PollDuration(); d > 0 {
		e.Installer().PollInterval = d
	}
	return e
}

func (f *DependencyFactory) createNotifier() interfaces.LifecycleNotifier {
	n := f.config.Notifications
	return notifier.New(notifier.Config{
		Enabled:      true,
		SuccessSound: n.SuccessSound,
		FailureSound: n.FailureSound,
	}, f.logger)
}
