// Package validation checks dependency and conflict preconditions before a
// package changes state
package validation

import (
	"fmt"

	"github.com/modkeeper/modkeeper/pkg/interfaces"
	"github.com/modkeeper/modkeeper/pkg/messages"
	"github.com/modkeeper/modkeeper/pkg/types"
)

// User-facing rejection messages
const (
	MsgInstallSubmod     = "Can not install submod"
	MsgAlreadyInstalled  = "Mod is already installed"
	MsgNotAvailable      = "Mod is not available"
	MsgUninstallSubmod   = "Can not uninstall submod"
	MsgNotInstalled      = "Mod is not installed"
	MsgAlreadyEnabled    = "Mod is already enabled"
	MsgMustBeInstalled   = "Mod must be installed first"
	MsgNotCompatible     = "Mod is not compatible, please update the application and check out the latest mod revisions"
	MsgAlreadyDisabled   = "Mod is already disabled"
	msgDependencyMissing = "Required mod %s is missing"
	msgDependencyOff     = "Required mod %s is not enabled"
	msgConflict          = "This mod conflicts with %s"
	msgNeededBy          = "This mod is needed to run %s"
)

// Validator evaluates lifecycle preconditions against a catalog. Every
// rejection is also recorded in the message queue.
type Validator struct {
	catalog interfaces.Catalog
	queue   *messages.Queue
}

// NewValidator creates a validator. A nil queue gets a default one.
func NewValidator(catalog interfaces.Catalog, queue *messages.Queue) *Validator {
	if queue == nil {
		queue = messages.NewQueue(0)
	}
	return &Validator{
		catalog: catalog,
		queue:   queue,
	}
}

// Queue returns the queue rejections are recorded in
func (v *Validator) Queue() *messages.Queue {
	return v.queue
}

// CanInstall checks that id names an available top-level package that is
// not installed yet
func (v *Validator) CanInstall(id types.PackageIdentifier) error {
	d := v.catalog.Descriptor(id)

	switch {
	case d.IsSubmod:
		return v.reject(id, MsgInstallSubmod)
	case d.IsInstalled:
		return v.reject(id, MsgAlreadyInstalled)
	case !d.IsAvailable:
		return v.reject(id, MsgNotAvailable)
	}
	return nil
}

// CanUninstall checks that id names an installed top-level package
func (v *Validator) CanUninstall(id types.PackageIdentifier) error {
	d := v.catalog.Descriptor(id)

	switch {
	case d.IsSubmod:
		return v.reject(id, MsgUninstallSubmod)
	case !d.IsInstalled:
		return v.reject(id, MsgNotInstalled)
	}
	return nil
}

// CanEnable checks that id is installed, compatible, has every direct
// dependency enabled and conflicts with no enabled package. Dependencies
// are not followed transitively.
func (v *Validator) CanEnable(id types.PackageIdentifier) error {
	d := v.catalog.Descriptor(id)

	switch {
	case d.IsEnabled:
		return v.reject(id, MsgAlreadyEnabled)
	case !d.IsInstalled:
		return v.reject(id, MsgMustBeInstalled)
	case !d.IsCompatible:
		return v.reject(id, MsgNotCompatible)
	}

	for _, dep := range d.Dependencies {
		// a repository-only dependency is known, so it reports as not enabled
		if !v.catalog.HasPackage(dep) {
			return v.reject(id, fmt.Sprintf(msgDependencyMissing, dep))
		}
		if !v.catalog.Descriptor(dep).IsEnabled {
			return v.reject(id, fmt.Sprintf(msgDependencyOff, dep))
		}
	}

	for _, name := range v.catalog.PackageNames() {
		if name == id {
			continue
		}
		other := v.catalog.Descriptor(name)
		if other.IsEnabled && other.Conflicts.Contains(id) {
			return v.reject(id, fmt.Sprintf(msgConflict, name))
		}
	}

	for _, conflict := range d.Conflicts {
		if !v.catalog.HasPackage(conflict) {
			continue
		}
		if v.catalog.Descriptor(conflict).IsEnabled {
			return v.reject(id, fmt.Sprintf(msgConflict, conflict))
		}
	}
	return nil
}

// CanDisable checks that id is enabled and no enabled package depends on it
func (v *Validator) CanDisable(id types.PackageIdentifier) error {
	d := v.catalog.Descriptor(id)

	switch {
	case d.IsDisabled():
		return v.reject(id, MsgAlreadyDisabled)
	case !d.IsInstalled:
		return v.reject(id, MsgMustBeInstalled)
	}

	for _, name := range v.catalog.PackageNames() {
		if name == id {
			continue
		}
		other := v.catalog.Descriptor(name)
		if other.IsEnabled && other.Dependencies.Contains(id) {
			return v.reject(id, fmt.Sprintf(msgNeededBy, name))
		}
	}
	return nil
}

func (v *Validator) reject(id types.PackageIdentifier, message string) *types.LifecycleError {
	err := types.NewLifecycleError(types.KindValidation, id, message)
	v.queue.AddError(err)
	return err
}
