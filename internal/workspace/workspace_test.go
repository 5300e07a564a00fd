package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"askgpt/internal/config"
)

func newTestResolver(t *testing.T) (*Resolver, *config.Store) {
	t.Helper()
	cfg := config.NewStore(t.TempDir())
	return NewResolver(cfg), cfg
}

func TestSessionsDirDefault(t *testing.T) {
	r, cfg := newTestResolver(t)

	dir, err := r.SessionsDir()
	if err != nil {
		t.Fatalf("SessionsDir failed: %v", err)
	}
	want := filepath.Join(cfg.Dir(), "sessions")
	if dir != want {
		t.Errorf("SessionsDir() = %q, want %q", dir, want)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("sessions dir not created: %v", err)
	}
}

func TestSessionsDirWithWorkspace(t *testing.T) {
	r, _ := newTestResolver(t)
	ws := t.TempDir()

	if err := r.Set(ws); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	dir, err := r.SessionsDir()
	if err != nil {
		t.Fatalf("SessionsDir failed: %v", err)
	}
	want := filepath.Join(ws, ".askgpt", "sessions")
	if dir != want {
		t.Errorf("SessionsDir() = %q, want %q", dir, want)
	}

	if err := r.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	dir, err = r.SessionsDir()
	if err != nil {
		t.Fatalf("SessionsDir after clear failed: %v", err)
	}
	if dir == want {
		t.Error("SessionsDir() still points at workspace after Clear")
	}
}

func TestRegistryDeduplicates(t *testing.T) {
	r, _ := newTestResolver(t)
	ws := t.TempDir()
	other := t.TempDir()

	for _, path := range []string{ws, ws, other, ws} {
		if err := r.Set(path); err != nil {
			t.Fatalf("Set(%s) failed: %v", path, err)
		}
	}

	report, err := r.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(report.Known) != 2 {
		t.Fatalf("registry has %d entries, want 2: %+v", len(report.Known), report.Known)
	}
	// Insertion order is preserved.
	if report.Known[0].Path != ws || report.Known[1].Path != other {
		t.Errorf("registry order = %+v, want [%s %s]", report.Known, ws, other)
	}
}

func TestListReportsCurrentFlag(t *testing.T) {
	r, _ := newTestResolver(t)
	first := t.TempDir()
	second := t.TempDir()

	if err := r.Set(first); err != nil {
		t.Fatal(err)
	}
	if err := r.Set(second); err != nil {
		t.Fatal(err)
	}

	report, err := r.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if report.Current != second {
		t.Errorf("Current = %q, want %q", report.Current, second)
	}
	for _, entry := range report.Known {
		want := entry.Path == second
		if entry.Current != want {
			t.Errorf("entry %s current flag = %v, want %v", entry.Path, entry.Current, want)
		}
	}

	// List must not mutate the registry.
	again, err := r.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Known) != len(report.Known) {
		t.Errorf("List mutated registry: %d vs %d entries", len(again.Known), len(report.Known))
	}
}

func TestListWithoutWorkspace(t *testing.T) {
	r, cfg := newTestResolver(t)

	report, err := r.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if report.Current != "" {
		t.Errorf("Current = %q, want empty", report.Current)
	}
	if report.Default != filepath.Join(cfg.Dir(), "sessions") {
		t.Errorf("Default = %q", report.Default)
	}
	if len(report.Known) != 0 {
		t.Errorf("Known = %+v, want empty", report.Known)
	}
}
