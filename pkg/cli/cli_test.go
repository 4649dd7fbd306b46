package cli_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modkeeper/modkeeper/pkg/cli"
)

type env struct {
	root       string
	dataDir    string
	configFile string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		root:       root,
		dataDir:    filepath.Join(root, "modkeeper"),
		configFile: filepath.Join(root, "modkeeper.yaml"),
	}
	if err := os.MkdirAll(filepath.Join(e.dataDir, "Mods"), 0o755); err != nil {
		t.Fatal(err)
	}

	config := "dataDir: " + e.dataDir + "\n" +
		"configDir: " + filepath.Join(root, "config") + "\n" +
		"pollInterval: 1\n" +
		"notifications:\n  enabled: false\n"
	if err := os.WriteFile(e.configFile, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return e
}

func (e *env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := cli.NewConfig()
	cfg.Version = "1.2.3"
	c := cli.NewCLIWithOutput(cfg, &stdout, &stderr)
	err := c.Execute(append([]string{"--config", e.configFile, "-v", "error"}, args...))
	return stdout.String(), stderr.String(), err
}

func (e *env) writeArchive(t *testing.T, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(e.root, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for entry, content := range entries {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "modkeeper v1.2.3") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestInstallEnableUninstall(t *testing.T) {
	e := newEnv(t)
	archive := e.writeArchive(t, "foo.zip", map[string]string{
		"foo/mod.json":  `{"name":"Foo","version":"2.0","modType":"Graphical"}`,
		"foo/data.txt":  "payload",
		"__MACOSX/junk": "x",
	})

	out, _, err := e.run(t, "install", "foo", archive)
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if !strings.Contains(out, "Installed foo") {
		t.Errorf("expected success message, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.dataDir, "Mods", "foo", "data.txt")); err != nil {
		t.Errorf("expected extracted data: %v", err)
	}

	if _, _, err := e.run(t, "enable", "foo"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	out, _, err = e.run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "foo") || !strings.Contains(out, "enabled") || !strings.Contains(out, "graphical") {
		t.Errorf("unexpected list output: %q", out)
	}

	out, _, err = e.run(t, "show", "foo")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Title:", "Foo", "Version:", "2.0", "Location:", "user"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q: %q", want, out)
		}
	}

	if _, _, err := e.run(t, "uninstall", "foo"); err != nil {
		t.Fatalf("uninstall failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.dataDir, "Mods", "foo")); !os.IsNotExist(err) {
		t.Errorf("expected package directory to be removed")
	}
}

func TestLifecycleCommandErrors(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"enable unknown", []string{"enable", "ghost"}, "ghost: Mod must be installed first"},
		{"disable unknown", []string{"disable", "ghost"}, "ghost: Mod must be installed first"},
		{"uninstall unknown", []string{"uninstall", "ghost"}, "ghost: Mod is not installed"},
		{"install missing archive", []string{"install", "ghost", filepath.Join(e.root, "none.zip")}, "ghost: Mod archive is missing"},
		{"show unknown", []string{"show", "ghost"}, "unknown mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestRepoLoad(t *testing.T) {
	e := newEnv(t)
	repo := filepath.Join(e.root, "repo.json")
	if err := os.WriteFile(repo, []byte(`{"mods":[{"name":"Hota","version":"1.7"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := e.run(t, "repo", "load", repo)
	if err != nil {
		t.Fatalf("repo load failed: %v", err)
	}
	if !strings.Contains(out, "hota") || !strings.Contains(out, "1.7") {
		t.Errorf("unexpected repo output: %q", out)
	}

	out, _, err = e.run(t, "--repo", repo, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "available") {
		t.Errorf("expected repository package in list: %q", out)
	}

	out, _, err = e.run(t, "list", "--installed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out, "hota") {
		t.Errorf("installed-only list must not show repository packages: %q", out)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	e := newEnv(t)
	t.Setenv("MODKEEPER_DATA_DIR", filepath.Join(e.root, "elsewhere"))

	_, _, err := e.run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "must be named after the application") {
		t.Fatalf("expected validation error from overridden dataDir, got %v", err)
	}

	_, _, err = e.run(t, "--sandboxed", "list")
	if err != nil {
		t.Fatalf("sandboxed override should accept any dataDir: %v", err)
	}
}
