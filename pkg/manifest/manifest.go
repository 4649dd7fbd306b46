// Package manifest reads and validates package mod.json files.
//
// mod.json files in the wild are JSON with comments and trailing commas, so
// they are compiled as CUE (a superset of JSON) and unified with an embedded
// schema before being decoded.
package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/Masterminds/semver/v3"

	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

// FileName is the marker file that identifies a package root
const FileName = "mod.json"

// MaxFileSize bounds how much of a manifest is read
const MaxFileSize = 1 << 20

//go:embed schema.cue
var manifestSchema string

// Load reads and parses the manifest inside a package directory. The file
// name is matched case-insensitively.
func Load(dir string) (types.Manifest, error) {
	path, ok := utils.FindChildFold(dir, FileName)
	if !ok {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse validates data against the manifest schema and decodes it
func Parse(data []byte, filename string) (types.Manifest, error) {
	if len(data) > MaxFileSize {
		return types.Manifest{}, fmt.Errorf("%s: manifest exceeds %d bytes", filename, MaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(manifestSchema)
	if schemaValue.Err() != nil {
		return types.Manifest{}, fmt.Errorf("internal error: failed to compile manifest schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return types.Manifest{}, fmt.Errorf("%s: %w", filename, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Manifest"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return types.Manifest{}, fmt.Errorf("%s: %w", filename, err)
	}

	// Round-trip through JSON so unknown content sections are dropped
	raw, err := unified.MarshalJSON()
	if err != nil {
		return types.Manifest{}, fmt.Errorf("%s: %w", filename, err)
	}

	var m types.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return types.Manifest{}, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Compatible reports whether appVersion lies inside the compatibility window.
// Empty or unparseable bounds do not restrict; an empty or unparseable
// application version is treated as compatible with everything.
func Compatible(c types.Compatibility, appVersion string) bool {
	app, err := semver.NewVersion(strings.TrimSpace(appVersion))
	if err != nil {
		return true
	}

	if c.Min != "" {
		if lower, err := semver.NewVersion(c.Min); err == nil && app.LessThan(lower) {
			return false
		}
	}
	if c.Max != "" {
		if upper, err := semver.NewVersion(c.Max); err == nil && app.GreaterThan(upper) {
			return false
		}
	}
	return true
}
