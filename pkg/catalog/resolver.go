package catalog

import (
	"github.com/modkeeper/modkeeper/pkg/types"
)

// record is an unresolved catalog entry: names in depends and conflicts are
// still raw strings from mod.json or a repository file.
type record struct {
	id           types.PackageIdentifier
	manifest     types.Manifest
	installed    bool
	available    bool
	local        bool
	size         int64
	depends      []string
	conflicts    []string
	compat       types.Compatibility
	keepDisabled bool
}

// resolver turns raw dependency names into identifiers once every package
// is known. Registration and resolution are separate passes so that order
// of discovery never matters.
type resolver struct {
	known map[types.PackageIdentifier]bool
}

func newResolver(records map[types.PackageIdentifier]*record) *resolver {
	known := make(map[types.PackageIdentifier]bool, len(records))
	for id := range records {
		known[id] = true
	}
	return &resolver{known: known}
}

// resolve maps a name referenced by owner. Absolute names win; a submod may
// also refer to a sibling by its short name.
func (r *resolver) resolve(owner types.PackageIdentifier, name string) types.PackageIdentifier {
	id := types.ParseIdentifier(name)
	if id.IsZero() || r.known[id] {
		return id
	}
	if owner.IsSubmod() {
		if sibling := owner.Parent().Child(id.String()); r.known[sibling] {
			return sibling
		}
	}
	return id
}

func (r *resolver) resolveAll(owner types.PackageIdentifier, names []string) types.IdentifierSet {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		resolved = append(resolved, r.resolve(owner, name).String())
	}
	return types.NewIdentifierSet(resolved...)
}
