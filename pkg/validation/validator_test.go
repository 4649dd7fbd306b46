package validation_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/modkeeper/modkeeper/pkg/messages"
	"github.com/modkeeper/modkeeper/pkg/mocks"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/validation"
)

// newCatalog programs a mock catalog that answers from a fixed descriptor set
func newCatalog(t *testing.T, descriptors ...types.Descriptor) *mocks.MockCatalog {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)

	byName := map[types.PackageIdentifier]types.Descriptor{}
	var names []types.PackageIdentifier
	for _, d := range descriptors {
		byName[d.Name] = d
		names = append(names, d.Name)
	}

	catalog.EXPECT().Descriptor(gomock.Any()).DoAndReturn(func(id types.PackageIdentifier) types.Descriptor {
		if d, ok := byName[id]; ok {
			return d
		}
		return types.Descriptor{Name: id}
	}).AnyTimes()
	catalog.EXPECT().HasPackage(gomock.Any()).DoAndReturn(func(id types.PackageIdentifier) bool {
		_, ok := byName[id]
		return ok
	}).AnyTimes()
	catalog.EXPECT().PackageNames().Return(types.SortIdentifiers(names)).AnyTimes()
	return catalog
}

func installed(name string, enabled bool) types.Descriptor {
	return types.Descriptor{
		Name:         types.PackageIdentifier(name),
		IsInstalled:  true,
		IsEnabled:    enabled,
		IsCompatible: true,
		IsSubmod:     types.PackageIdentifier(name).IsSubmod(),
	}
}

func expectRejection(t *testing.T, err error, message string) {
	t.Helper()
	if message == "" {
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		return
	}
	var lerr *types.LifecycleError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LifecycleError %q, got %v", message, err)
	}
	if lerr.Kind != types.KindValidation {
		t.Errorf("expected validation kind, got %s", lerr.Kind)
	}
	if lerr.Message != message {
		t.Errorf("expected %q, got %q", message, lerr.Message)
	}
}

func TestCanInstall(t *testing.T) {
	available := types.Descriptor{Name: "foo", IsAvailable: true}
	tests := []struct {
		name string
		pkg  types.Descriptor
		want string
	}{
		{"available", available, ""},
		{"submod", types.Descriptor{Name: "foo.bar", IsSubmod: true, IsAvailable: true}, validation.MsgInstallSubmod},
		{"already installed", installed("foo", false), validation.MsgAlreadyInstalled},
		{"not available", types.Descriptor{Name: "foo"}, validation.MsgNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator(newCatalog(t, tt.pkg), nil)
			expectRejection(t, v.CanInstall(tt.pkg.Name), tt.want)
		})
	}
}

func TestCanUninstall(t *testing.T) {
	tests := []struct {
		name string
		pkg  types.Descriptor
		want string
	}{
		{"installed and enabled", installed("foo", true), ""},
		{"submod", installed("foo.bar", false), validation.MsgUninstallSubmod},
		{"not installed", types.Descriptor{Name: "foo", IsAvailable: true}, validation.MsgNotInstalled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator(newCatalog(t, tt.pkg), nil)
			expectRejection(t, v.CanUninstall(tt.pkg.Name), tt.want)
		})
	}
}

func TestCanEnable(t *testing.T) {
	withDeps := func(d types.Descriptor, deps ...string) types.Descriptor {
		d.Dependencies = types.NewIdentifierSet(deps...)
		return d
	}
	withConflicts := func(d types.Descriptor, names ...string) types.Descriptor {
		d.Conflicts = types.NewIdentifierSet(names...)
		return d
	}
	incompatible := installed("foo", false)
	incompatible.IsCompatible = false

	tests := []struct {
		name    string
		catalog []types.Descriptor
		want    string
	}{
		{"no dependencies", []types.Descriptor{installed("foo", false)}, ""},
		{"already enabled", []types.Descriptor{installed("foo", true)}, validation.MsgAlreadyEnabled},
		{"not installed", []types.Descriptor{{Name: "foo", IsAvailable: true}}, validation.MsgMustBeInstalled},
		{"incompatible", []types.Descriptor{incompatible}, validation.MsgNotCompatible},
		{
			"dependency missing",
			[]types.Descriptor{withDeps(installed("foo", false), "bar")},
			"Required mod bar is missing",
		},
		{
			"dependency disabled",
			[]types.Descriptor{withDeps(installed("foo", false), "bar"), installed("bar", false)},
			"Required mod bar is not enabled",
		},
		{
			"dependency only available",
			[]types.Descriptor{withDeps(installed("foo", false), "bar"), {Name: "bar", IsAvailable: true}},
			"Required mod bar is not enabled",
		},
		{
			"dependency enabled",
			[]types.Descriptor{withDeps(installed("foo", false), "bar"), installed("bar", true)},
			"",
		},
		{
			"reverse conflict",
			[]types.Descriptor{installed("foo", false), withConflicts(installed("baz", true), "foo")},
			"This mod conflicts with baz",
		},
		{
			"reverse conflict from disabled package",
			[]types.Descriptor{installed("foo", false), withConflicts(installed("baz", false), "foo")},
			"",
		},
		{
			"own conflict enabled",
			[]types.Descriptor{withConflicts(installed("foo", false), "qux"), installed("qux", true)},
			"This mod conflicts with qux",
		},
		{
			"own conflict unknown",
			[]types.Descriptor{withConflicts(installed("foo", false), "ghost")},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator(newCatalog(t, tt.catalog...), nil)
			expectRejection(t, v.CanEnable("foo"), tt.want)
		})
	}
}

func TestCanEnable_NoTransitiveResolution(t *testing.T) {
	// foo -> bar -> baz, with bar enabled but baz missing: only the direct
	// dependency is checked.
	foo := installed("foo", false)
	foo.Dependencies = types.NewIdentifierSet("bar")
	bar := installed("bar", true)
	bar.Dependencies = types.NewIdentifierSet("baz")

	v := validation.NewValidator(newCatalog(t, foo, bar), nil)
	if err := v.CanEnable("foo"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestCanDisable(t *testing.T) {
	dependent := installed("bar", true)
	dependent.Dependencies = types.NewIdentifierSet("foo")
	disabledDependent := installed("bar", false)
	disabledDependent.Dependencies = types.NewIdentifierSet("foo")

	tests := []struct {
		name    string
		catalog []types.Descriptor
		want    string
	}{
		{"enabled", []types.Descriptor{installed("foo", true)}, ""},
		{"already disabled", []types.Descriptor{installed("foo", false)}, validation.MsgAlreadyDisabled},
		{"not installed", []types.Descriptor{{Name: "foo", IsAvailable: true}}, validation.MsgMustBeInstalled},
		{"needed by enabled", []types.Descriptor{installed("foo", true), dependent}, "This mod is needed to run bar"},
		{"needed by disabled", []types.Descriptor{installed("foo", true), disabledDependent}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator(newCatalog(t, tt.catalog...), nil)
			expectRejection(t, v.CanDisable("foo"), tt.want)
		})
	}
}

func TestRejectionsAreQueued(t *testing.T) {
	queue := messages.NewQueue(8)
	v := validation.NewValidator(newCatalog(t, installed("foo", true)), queue)

	_ = v.CanInstall("foo")
	_ = v.CanEnable("foo")
	if err := v.CanDisable("foo"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	got := queue.Drain()
	want := []string{"foo: Mod is already installed", "foo: Mod is already enabled"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
