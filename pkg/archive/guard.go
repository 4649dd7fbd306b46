package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modkeeper/modkeeper/pkg/utils"
)

// ErrProtectedLocation is returned when a removal target fails the path checks
var ErrProtectedLocation = errors.New("refusing to remove directory outside the packages directory")

// Guard vets recursive deletions. A directory may only be removed when it
// sits directly inside the packages directory, which itself sits inside
// the application directory.
type Guard struct {
	// PackagesDirName is the name of the packages root, e.g. "Mods"
	PackagesDirName string
	// AppDirName is the application's data directory name
	AppDirName string
	// Sandboxed skips the application directory checks on platforms
	// where the data directory lives in an isolated container
	Sandboxed bool
}

// Check validates path without touching the filesystem
func (g Guard) Check(path string) error {
	if g.PackagesDirName == "" {
		return fmt.Errorf("%w: no packages directory configured", ErrProtectedLocation)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtectedLocation, err)
	}

	parent := filepath.Dir(abs)
	if !strings.EqualFold(filepath.Base(parent), g.PackagesDirName) {
		return fmt.Errorf("%w: %s", ErrProtectedLocation, abs)
	}

	if !g.Sandboxed {
		if g.AppDirName == "" {
			return fmt.Errorf("%w: no application directory configured", ErrProtectedLocation)
		}
		grandparent := filepath.Dir(parent)
		if !strings.EqualFold(filepath.Base(grandparent), g.AppDirName) {
			return fmt.Errorf("%w: %s", ErrProtectedLocation, abs)
		}
		if !utils.ContainsFold(abs, g.AppDirName) {
			return fmt.Errorf("%w: %s", ErrProtectedLocation, abs)
		}
	}

	if !utils.ContainsFold(abs, g.PackagesDirName) {
		return fmt.Errorf("%w: %s", ErrProtectedLocation, abs)
	}
	return nil
}

// RemoveAll deletes path recursively after Check passes
func (g Guard) RemoveAll(path string) error {
	if err := g.Check(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}
