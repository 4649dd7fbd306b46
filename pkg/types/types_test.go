package types_test

import (
	"errors"
	"testing"

	"github.com/modkeeper/modkeeper/pkg/types"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.PackageIdentifier
		submod   bool
		top      types.PackageIdentifier
		parent   types.PackageIdentifier
	}{
		{"top level", "Foo", "foo", false, "foo", ""},
		{"nested", "Parent.Child", "parent.child", true, "parent", "parent"},
		{"deep", "a.b.C", "a.b.c", true, "a", "a.b"},
		{"trimmed", "  hota.  ", "hota", false, "hota", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := types.ParseIdentifier(tt.input)
			if id != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, id)
			}
			if id.IsSubmod() != tt.submod {
				t.Errorf("expected submod=%v for %q", tt.submod, id)
			}
			if id.Top() != tt.top {
				t.Errorf("expected top %q, got %q", tt.top, id.Top())
			}
			if id.Parent() != tt.parent {
				t.Errorf("expected parent %q, got %q", tt.parent, id.Parent())
			}
		})
	}
}

func TestCheckIdentifier(t *testing.T) {
	tests := []struct {
		input   string
		want    types.PackageIdentifier
		wantErr bool
	}{
		{"Foo", "foo", false},
		{"a.b", "a.b", false},
		{"", "", false},
		{"../etc", "", true},
		{"foo/bar", "", true},
		{`foo\bar`, "", true},
		{"a..b", "", true},
		{"a. .b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := types.CheckIdentifier(tt.input)
			if tt.wantErr {
				if !errors.Is(err, types.ErrInvalidIdentifier) {
					t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
				}
				if !types.ParseIdentifier(tt.input).IsZero() {
					t.Errorf("ParseIdentifier(%q) should be zero", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.want {
				t.Errorf("expected %q, got %q", tt.want, id)
			}
		})
	}
}

func TestPackageIdentifier_Child(t *testing.T) {
	id := types.ParseIdentifier("wog")
	child := id.Child("Music")
	if child != "wog.music" {
		t.Errorf("expected wog.music, got %s", child)
	}
	if child.Parent() != id {
		t.Errorf("expected parent %s, got %s", id, child.Parent())
	}
	if got := child.Segments(); len(got) != 2 || got[1] != "music" {
		t.Errorf("unexpected segments %v", got)
	}
}

func TestIdentifierSet(t *testing.T) {
	set := types.NewIdentifierSet("Base", "base", "", "extras")
	if len(set) != 2 {
		t.Fatalf("expected duplicates and blanks dropped, got %v", set)
	}
	if !set.Contains("BASE") {
		t.Error("expected case-insensitive lookup")
	}
	if set.Contains("missing") {
		t.Error("did not expect missing to be contained")
	}
}

func TestParseModType(t *testing.T) {
	tests := []struct {
		input    string
		expected types.ModType
	}{
		{"Graphical", types.ModTypeGraphical},
		{"translation", types.ModTypeTranslation},
		{"AI", types.ModTypeAI},
		{"unheard-of", types.ModTypeOther},
		{"", types.ModTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := types.ParseModType(tt.input)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
			if types.ParseModType(got.String()) != got {
				t.Errorf("name lookup for %s does not round trip", got)
			}
		})
	}
}

func TestDescriptor_Status(t *testing.T) {
	tests := []struct {
		name     string
		desc     types.Descriptor
		expected string
		disabled bool
	}{
		{"enabled", types.Descriptor{IsInstalled: true, IsEnabled: true}, "enabled", false},
		{"disabled", types.Descriptor{IsInstalled: true}, "disabled", true},
		{"available", types.Descriptor{IsAvailable: true}, "available", false},
		{"unknown", types.Descriptor{}, "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.desc.Status() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.desc.Status())
			}
			if tt.desc.IsDisabled() != tt.disabled {
				t.Errorf("expected disabled=%v", tt.disabled)
			}
		})
	}
}

func TestLifecycleError(t *testing.T) {
	cause := errors.New("disk full")
	err := types.WrapLifecycleError(types.KindFilesystem, "foo", "Failed to extract mod data", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if err.UserMessage() != "foo: Failed to extract mod data" {
		t.Errorf("unexpected user message %q", err.UserMessage())
	}

	var lerr *types.LifecycleError
	if !errors.As(error(err), &lerr) || lerr.Kind != types.KindFilesystem {
		t.Error("expected errors.As to find a filesystem lifecycle error")
	}
}
