package settings_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/modkeeper/modkeeper/pkg/settings"
	"github.com/modkeeper/modkeeper/pkg/types"
)

type recordingListener struct {
	trees   []settings.Tree
	changed []types.PackageIdentifier
}

func (r *recordingListener) SetActivationSubtree(tree settings.Tree) {
	r.trees = append(r.trees, tree)
}

func (r *recordingListener) NotifyChanged(id types.PackageIdentifier) {
	r.changed = append(r.changed, id)
}

func TestWrite_CopyOnWrite(t *testing.T) {
	original := settings.Tree{
		"foo": {Active: false},
	}

	updated := settings.Write(original, "foo", settings.FieldActive, true)

	if original["foo"].Active {
		t.Error("original tree must not be mutated")
	}
	if !updated["foo"].Active {
		t.Error("expected foo to be active in updated tree")
	}
}

func TestWrite_CreatesIntermediateNodes(t *testing.T) {
	tree := settings.Write(nil, "wog.music.extra", settings.FieldActive, true)

	node := tree.Lookup("wog.music.extra")
	if node == nil || !node.Active {
		t.Fatal("expected nested node to be created and active")
	}
	if parent := tree.Lookup("wog"); parent == nil || parent.Active {
		t.Error("expected intermediate node to exist and stay inactive")
	}
	if tree["wog"].Mods["music"] == nil {
		t.Error("expected intermediate mods mapping")
	}
}

func TestWrite_SiblingsShared(t *testing.T) {
	original := settings.Tree{
		"a": {Active: true},
		"b": {Active: true, Mods: settings.Tree{"sub": {Active: true}}},
	}

	updated := settings.Write(original, "b.sub", settings.FieldActive, false)

	if updated["a"] != original["a"] {
		t.Error("untouched siblings should be shared between trees")
	}
	if !original.IsActive("b.sub") {
		t.Error("original leaf must remain active")
	}
	if updated.IsActive("b.sub") {
		t.Error("updated leaf must be inactive")
	}
}

func TestWrite_Validated(t *testing.T) {
	tree := settings.Write(nil, "foo", settings.FieldValidated, true)
	if tree["foo"].Active || !tree["foo"].Validated {
		t.Errorf("expected only validated to be set, got %+v", tree["foo"])
	}
}

func TestParseField(t *testing.T) {
	f, ok := settings.ParseField("active")
	if !ok || f != settings.FieldActive {
		t.Error("expected active to parse")
	}
	if _, ok := settings.ParseField("checksum"); ok {
		t.Error("did not expect unknown field to parse")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := settings.NewStore(t.TempDir(), nil)
	tree := store.Load()
	if len(tree) != 0 {
		t.Errorf("expected empty tree, got %v", tree)
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, settings.FileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(dir, nil)
	if tree := store.Load(); len(tree) != 0 {
		t.Errorf("expected empty tree for malformed file, got %v", tree)
	}
}

func TestStore_LoadNormalizesKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{"activeMods": {"HotA": {"active": true, "mods": {"Music": {"active": true}}}}}`
	if err := os.WriteFile(filepath.Join(dir, settings.FileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(dir, nil)
	store.Load()

	if !store.IsActive("hota") || !store.IsActive("hota.music") {
		t.Error("expected lowercased keys to be active")
	}
}

func TestStore_EnableWritesThrough(t *testing.T) {
	dir := t.TempDir()
	listener := &recordingListener{}

	store := settings.NewStore(dir, nil)
	store.SetListener(listener)
	store.Load()

	if err := store.Enable("foo", true); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	var doc struct {
		ActiveMods map[string]struct {
			Active bool `json:"active"`
		} `json:"activeMods"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("settings file is not valid JSON: %v", err)
	}
	if !doc.ActiveMods["foo"].Active {
		t.Error("expected activeMods.foo.active == true on disk")
	}

	if len(listener.changed) != 1 || listener.changed[0] != "foo" {
		t.Errorf("expected one change notification for foo, got %v", listener.changed)
	}
	last := listener.trees[len(listener.trees)-1]
	if !last.IsActive("foo") {
		t.Error("listener should receive the new activation tree")
	}
}

func TestStore_EnableThenDisableRestoresState(t *testing.T) {
	dir := t.TempDir()
	store := settings.NewStore(dir, nil)
	store.Load()

	before := store.IsActive("foo")
	if err := store.Enable("foo", true); err != nil {
		t.Fatal(err)
	}
	if err := store.Enable("foo", false); err != nil {
		t.Fatal(err)
	}

	if store.IsActive("foo") != before {
		t.Error("enable followed by disable should restore the active flag")
	}

	reloaded := settings.NewStore(dir, nil)
	reloaded.Load()
	if reloaded.IsActive("foo") {
		t.Error("expected persisted state to be inactive")
	}
}

func TestStore_FlushFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// config dir below a regular file cannot be created
	store := settings.NewStore(filepath.Join(blocker, "config"), nil)
	store.Load()

	if err := store.Enable("foo", true); err == nil {
		t.Fatal("expected flush error")
	}
	if !store.IsActive("foo") {
		t.Error("in-memory state should stay ahead of disk after a failed flush")
	}
}

func TestStore_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{"activeMods": {}, "launcher": {"lastCheck": 1}}`
	if err := os.WriteFile(filepath.Join(dir, settings.FileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(dir, nil)
	store.Load()
	if err := store.Enable("foo", true); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if _, ok := out["launcher"]; !ok {
		t.Error("expected unknown top-level key to survive a write")
	}
}

func TestStore_PreservesNodeFields(t *testing.T) {
	dir := t.TempDir()
	doc := `{"activeMods": {"foo": {"active": true, "checksum": "abc123", "validated": true,
		"mods": {"sub": {"active": false, "checksum": "def456"}}}}}`
	if err := os.WriteFile(filepath.Join(dir, settings.FileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(dir, nil)
	store.Load()
	if err := store.Enable("bar", true); err != nil {
		t.Fatal(err)
	}
	if err := store.Enable("foo.sub", true); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		ActiveMods map[string]struct {
			Active    bool   `json:"active"`
			Validated bool   `json:"validated"`
			Checksum  string `json:"checksum"`
			Mods      map[string]struct {
				Active   bool   `json:"active"`
				Checksum string `json:"checksum"`
			} `json:"mods"`
		} `json:"activeMods"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	foo := out.ActiveMods["foo"]
	if foo.Checksum != "abc123" || !foo.Active || !foo.Validated {
		t.Errorf("foo node lost fields: %+v", foo)
	}
	if sub := foo.Mods["sub"]; sub.Checksum != "def456" || !sub.Active {
		t.Errorf("foo.sub node lost fields: %+v", sub)
	}
	if !out.ActiveMods["bar"].Active {
		t.Error("expected bar to be active")
	}
}

func TestWrite_KeepsNodeExtra(t *testing.T) {
	original := settings.Tree{
		"foo": {Extra: map[string]json.RawMessage{"checksum": json.RawMessage(`"abc"`)}},
	}

	updated := settings.Write(original, "foo", settings.FieldActive, true)
	updated["foo"].Extra["checksum"] = json.RawMessage(`"changed"`)

	if got := string(original["foo"].Extra["checksum"]); got != `"abc"` {
		t.Errorf("original extra mutated: %s", got)
	}
	if !updated["foo"].Active {
		t.Error("expected foo to be active")
	}
}

func TestMarshal_Golden(t *testing.T) {
	tree := settings.Write(nil, "foo", settings.FieldActive, true)
	tree = settings.Write(tree, "foo.bar", settings.FieldActive, false)
	extra := map[string]json.RawMessage{
		"launcher": json.RawMessage(`{"lastCheck":1}`),
	}

	data, err := settings.Marshal(tree, extra)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "settings_document", data)
}
