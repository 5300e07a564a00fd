package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePrefersEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "sk-from-env")

	m := NewManager(dir)
	if err := m.Save("sk-from-file"); err != nil {
		t.Fatal(err)
	}

	key, err := m.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "sk-from-env" {
		t.Errorf("key = %q, want env value", key)
	}
}

func TestResolveFallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "")

	m := NewManager(dir)
	if err := m.Save("sk-stored"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	key, err := m.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "sk-stored" {
		t.Errorf("key = %q, want sk-stored", key)
	}

	info, err := os.Stat(m.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials file mode = %o, want 600", perm)
	}
}

func TestResolveMissingEverything(t *testing.T) {
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "")

	m := NewManager(t.TempDir())
	_, err := m.Resolve()
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential", err)
	}
}

func TestResolveEmptyKeyInFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "")

	path := filepath.Join(dir, "credentials.yaml")
	if err := os.WriteFile(path, []byte("api_key: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir)
	if _, err := m.Resolve(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential for empty key", err)
	}
}

func TestMaybeOnboardStoresEnteredKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "")

	m := NewManager(dir)
	var out strings.Builder
	if err := m.MaybeOnboard(strings.NewReader("sk-typed\n"), &out); err != nil {
		t.Fatalf("MaybeOnboard failed: %v", err)
	}

	key, err := m.Resolve()
	if err != nil {
		t.Fatalf("Resolve after onboarding failed: %v", err)
	}
	if key != "sk-typed" {
		t.Errorf("key = %q, want sk-typed", key)
	}
	if !strings.Contains(out.String(), "Stored credentials") {
		t.Errorf("storage not confirmed:\n%s", out.String())
	}
}

func TestMaybeOnboardBlankAnswerSkips(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "")

	m := NewManager(dir)
	var out strings.Builder
	if err := m.MaybeOnboard(strings.NewReader("\n"), &out); err != nil {
		t.Fatalf("MaybeOnboard failed: %v", err)
	}
	if _, err := os.Stat(m.Path()); !os.IsNotExist(err) {
		t.Error("declining the prompt still wrote a credentials file")
	}
	if _, err := m.Resolve(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Resolve = %v, want ErrMissingCredential", err)
	}
}

func TestMaybeOnboardSilentWhenKeyResolvable(t *testing.T) {
	t.Setenv("ASKGPT_CREDENTIALS_PATH", "")
	t.Setenv(EnvVar, "sk-present")

	m := NewManager(t.TempDir())
	var out strings.Builder
	if err := m.MaybeOnboard(strings.NewReader(""), &out); err != nil {
		t.Fatalf("MaybeOnboard failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("prompt printed despite resolvable key:\n%s", out.String())
	}
}

func TestPathOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "alt.yaml")
	t.Setenv("ASKGPT_CREDENTIALS_PATH", override)
	t.Setenv(EnvVar, "")

	m := NewManager(t.TempDir())
	if m.Path() != override {
		t.Fatalf("Path = %q, want override %q", m.Path(), override)
	}
	if err := m.Save("sk-alt"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	key, err := m.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "sk-alt" {
		t.Errorf("key = %q", key)
	}
}
