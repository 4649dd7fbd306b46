// Package archive installs packages from zip archives and removes them again
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/modkeeper/modkeeper/pkg/manifest"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

var (
	// ErrArchiveMissing is returned when the archive file does not exist
	ErrArchiveMissing = errors.New("archive does not exist")
	// ErrNoPackageRoot is returned when no mod.json is found at depth 0 or 1
	ErrNoPackageRoot = errors.New("no package root found in archive")
	// ErrUnsafePath is returned for entries that would land outside the destination
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// maxRootDepth is the deepest folder level searched for the marker file
const maxRootDepth = 1

// Layout is the inspected content of an archive
type Layout struct {
	Files []string
	Root  string
}

// TopLevel returns the first path segment of the detected root. It differs
// from Root when the package is nested one folder deep.
func (l Layout) TopLevel() string {
	top, _, _ := strings.Cut(l.Root, "/")
	return top
}

// Nested reports whether the package root is inside an enclosing folder
func (l Layout) Nested() bool {
	return l.TopLevel() != l.Root
}

// PackageFiles returns the entries below the top-level folder of the root.
// Anything beside it is left in the archive so extraction never touches
// folders of other packages.
func (l Layout) PackageFiles() []string {
	top := l.TopLevel()
	files := make([]string, 0, len(l.Files))
	for _, name := range l.Files {
		first, _, _ := strings.Cut(strings.ReplaceAll(name, "\\", "/"), "/")
		if first == top {
			files = append(files, name)
		}
	}
	return files
}

// Inspect lists an archive and detects its package root
func Inspect(archivePath string) (Layout, error) {
	files, err := ListFiles(archivePath)
	if err != nil {
		return Layout{}, err
	}
	root, err := DetectRoot(files)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Files: files, Root: root}, nil
}

// openZip opens an archive. Non-local entry names are reported by the
// reader but are left to Extract, which refuses them.
func openZip(archivePath string) (*zip.ReadCloser, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil && errors.Is(err, zip.ErrInsecurePath) && reader != nil {
		return reader, nil
	}
	return reader, err
}

// ReadManifest parses the mod.json at the detected root without extracting
func ReadManifest(archivePath string, layout Layout) (types.Manifest, error) {
	reader, err := openZip(archivePath)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	for _, f := range reader.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		dir, file := path.Split(name)
		if strings.TrimSuffix(dir, "/") != layout.Root || !strings.EqualFold(file, manifest.FileName) {
			continue
		}
		if f.UncompressedSize64 > manifest.MaxFileSize {
			return types.Manifest{}, fmt.Errorf("%s: manifest exceeds %d bytes", f.Name, manifest.MaxFileSize)
		}
		rc, err := f.Open()
		if err != nil {
			return types.Manifest{}, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return types.Manifest{}, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return manifest.Parse(data, f.Name)
	}
	return types.Manifest{}, ErrNoPackageRoot
}

// ListFiles returns the names of all entries in a zip archive, in archive order
func ListFiles(archivePath string) ([]string, error) {
	reader, err := openZip(archivePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveMissing, archivePath)
		}
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	files := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		files = append(files, f.Name)
	}
	return files, nil
}

// DetectRoot finds the folder holding mod.json. Every entry is checked at
// depth 0 before any entry is checked at depth 1, so "a/b/mod.json" never
// shadows "c/mod.json" regardless of archive order.
func DetectRoot(files []string) (string, error) {
	for level := 0; level <= maxRootDepth; level++ {
		for _, name := range files {
			segments := strings.Split(strings.ReplaceAll(name, "\\", "/"), "/")
			if len(segments) != level+2 {
				continue
			}
			if !strings.EqualFold(segments[level+1], manifest.FileName) {
				continue
			}
			root := strings.Join(segments[:level+1], "/")
			if root == "" || strings.HasPrefix(root, "/") {
				continue
			}
			return root, nil
		}
	}
	return "", ErrNoPackageRoot
}

// Extract writes the listed entries of archivePath below dest. Entries
// matched by exclude are skipped; entries escaping dest abort extraction.
func Extract(archivePath, dest string, files []string, exclude *utils.ExclusionMatcher) error {
	reader, err := openZip(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	wanted := make(map[string]bool, len(files))
	for _, name := range files {
		wanted[name] = true
	}

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve destination: %w", err)
	}

	for _, f := range reader.File {
		if !wanted[f.Name] {
			continue
		}
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if exclude != nil && exclude.IsExcluded(strings.TrimSuffix(name, "/")) {
			continue
		}

		target, err := safeJoin(destAbs, name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", name, err)
			}
			continue
		}
		if f.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: symlink %s", ErrUnsafePath, name)
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func safeJoin(destAbs, name string) (string, error) {
	if path.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}
	}

	target := filepath.Join(destAbs, filepath.FromSlash(path.Clean(name)))
	if target != destAbs && !strings.HasPrefix(target, destAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return dst.Close()
}
