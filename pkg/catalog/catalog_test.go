package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modkeeper/modkeeper/pkg/catalog"
	"github.com/modkeeper/modkeeper/pkg/settings"
	"github.com/modkeeper/modkeeper/pkg/types"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mod.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndex_Rescan(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "Hota"), `{"name": "HotA", "depends": ["base"]}`)
	writeManifest(t, filepath.Join(root, "Hota", "mods", "Content"), `{"name": "HotA content"}`)
	writeManifest(t, filepath.Join(root, "broken"), `{"name": `)
	if err := os.MkdirAll(filepath.Join(root, "nomanifest"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.zip"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := catalog.NewIndex(root, nil, 2, nil)
	pkgs, err := idx.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan() error = %v", err)
	}

	if len(pkgs) != 1 {
		t.Fatalf("expected 1 package, got %d: %v", len(pkgs), pkgs)
	}
	hota, ok := pkgs["hota"]
	if !ok {
		t.Fatal("expected lowercased identifier hota")
	}
	if !hota.StoredLocally {
		t.Error("expected package in user dir to be stored locally")
	}
	if hota.LocalSizeBytes <= 0 {
		t.Errorf("expected positive size, got %d", hota.LocalSizeBytes)
	}
	if len(hota.Submods) != 1 || hota.Submods[0].ID != "hota.content" {
		t.Errorf("expected submod hota.content, got %+v", hota.Submods)
	}

	if !idx.Has("hota.content") {
		t.Error("expected index to know the submod")
	}
	dir, ok := idx.ResolveDir("hota")
	if !ok || filepath.Base(dir) != "Hota" {
		t.Errorf("expected original-case dir Hota, got %q", dir)
	}
}

func TestIndex_SystemDirsAreShadowed(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()
	writeManifest(t, filepath.Join(user, "shared"), `{"name": "user copy"}`)
	writeManifest(t, filepath.Join(system, "shared"), `{"name": "system copy"}`)
	writeManifest(t, filepath.Join(system, "core"), `{"name": "core"}`)

	idx := catalog.NewIndex(user, []string{system}, 0, nil)
	pkgs, err := idx.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan() error = %v", err)
	}

	if pkgs["shared"].Manifest.Name != "user copy" {
		t.Errorf("expected user dir to win, got %q", pkgs["shared"].Manifest.Name)
	}
	if pkgs["core"].StoredLocally {
		t.Error("system package must not be stored locally")
	}
}

func TestIndex_MissingDirectory(t *testing.T) {
	idx := catalog.NewIndex(filepath.Join(t.TempDir(), "absent"), nil, 1, nil)
	pkgs, err := idx.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan() error = %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("expected empty index, got %v", pkgs)
	}
}

func TestCatalog_Descriptors(t *testing.T) {
	c := catalog.New("1.5.0", nil)
	c.SetLocalPackages(map[types.PackageIdentifier]types.LocalPackage{
		"hota": {
			ID: "hota",
			Manifest: types.Manifest{
				Name:    "HotA",
				Depends: []string{"Base"},
			},
			StoredLocally: true,
			Submods: []types.LocalPackage{
				{ID: "hota.content", Manifest: types.Manifest{Name: "Content"}},
				{ID: "hota.music", Manifest: types.Manifest{Name: "Music", Depends: []string{"content"}}},
			},
		},
		"old": {
			ID:       "old",
			Manifest: types.Manifest{Compatibility: types.Compatibility{Max: "1.0.0"}},
		},
	})
	c.AddRepositoryManifest(types.RepositoryEntry{Name: "Extra", Conflicts: []string{"hota"}})

	names := c.PackageNames()
	want := []types.PackageIdentifier{"extra", "hota", "hota.content", "hota.music", "old"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	hota := c.Descriptor("hota")
	if !hota.IsInstalled || hota.IsAvailable || hota.IsSubmod || !hota.IsStoredLocally {
		t.Errorf("unexpected hota flags: %+v", hota)
	}
	if !hota.Dependencies.Contains("base") {
		t.Errorf("expected absolute dependency base, got %v", hota.Dependencies)
	}

	music := c.Descriptor("hota.music")
	if !music.IsSubmod {
		t.Error("expected submod flag")
	}
	if !music.Dependencies.Contains("hota.content") {
		t.Errorf("expected sibling dependency resolution, got %v", music.Dependencies)
	}

	if c.Descriptor("old").IsCompatible {
		t.Error("expected old package to be incompatible")
	}

	extra := c.Descriptor("extra")
	if extra.IsInstalled || !extra.IsAvailable {
		t.Errorf("unexpected extra flags: %+v", extra)
	}

	unknown := c.Descriptor("nothing")
	if unknown.IsInstalled || unknown.IsAvailable || unknown.IsEnabled {
		t.Errorf("unknown package should have no flags: %+v", unknown)
	}
	if c.HasPackage("nothing") {
		t.Error("unknown package reported as present")
	}

	c.ResetRepositories()
	if c.HasPackage("extra") {
		t.Error("expected repository entry to be forgotten")
	}
}

func TestCatalog_EnabledFollowsTree(t *testing.T) {
	c := catalog.New("", nil)
	c.SetLocalPackages(map[types.PackageIdentifier]types.LocalPackage{
		"foo": {ID: "foo"},
	})
	c.AddRepositoryManifest(types.RepositoryEntry{Name: "bar"})

	if c.Descriptor("foo").IsEnabled {
		t.Fatal("package absent from the tree must default to disabled")
	}

	tree := settings.Write(settings.Tree{}, "foo", settings.FieldActive, true)
	tree = settings.Write(tree, "bar", settings.FieldActive, true)
	c.SetActivationSubtree(tree)

	foo := c.Descriptor("foo")
	if !foo.IsEnabled || foo.IsDisabled() {
		t.Errorf("expected foo enabled, got %+v", foo)
	}
	if c.Descriptor("bar").IsEnabled {
		t.Error("a package that is not installed can not be enabled")
	}
}

func TestCatalog_NotifyChanged(t *testing.T) {
	c := catalog.New("", nil)
	var got []types.PackageIdentifier
	c.Subscribe(func(id types.PackageIdentifier) {
		got = append(got, id)
	})

	c.NotifyChanged("foo")
	c.NotifyChanged("foo.bar")

	if len(got) != 2 || got[1] != "foo.bar" {
		t.Errorf("unexpected notifications %v", got)
	}
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		isJSON bool
		want   []string
	}{
		{
			name: "yaml list",
			data: "mods:\n  - name: Hota\n    version: 1.7.1\n  - name: wog\n",
			want: []string{"hota", "wog"},
		},
		{
			name: "yaml map",
			data: "wog:\n  version: \"3.59\"\nhota:\n  download: https://example.org/hota.zip\n",
			want: []string{"hota", "wog"},
		},
		{
			name:   "json map",
			data:   `{"tow": {"version": "1.0", "depends": ["hota"]}}`,
			isJSON: true,
			want:   []string{"tow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := catalog.ParseRepository([]byte(tt.data), tt.isJSON)
			if err != nil {
				t.Fatalf("ParseRepository() error = %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("expected %d entries, got %+v", len(tt.want), entries)
			}
			for i, name := range tt.want {
				if entries[i].Name != name {
					t.Errorf("entry %d: expected %s, got %s", i, name, entries[i].Name)
				}
			}
		})
	}
}

func TestLoadRepositoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo.json")
	if err := os.WriteFile(path, []byte(`{"mods": [{"name": "Foo", "conflicts": ["bar"]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := catalog.LoadRepositoryFile(path)
	if err != nil {
		t.Fatalf("LoadRepositoryFile() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "foo" || entries[0].Conflicts[0] != "bar" {
		t.Errorf("unexpected entries %+v", entries)
	}

	if _, err := catalog.LoadRepositoryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
