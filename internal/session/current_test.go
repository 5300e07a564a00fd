package session

import (
	"path/filepath"
	"testing"

	"askgpt/internal/config"
)

func newTestCurrent(t *testing.T) (*Current, *Store, *config.Store) {
	t.Helper()
	cfg := config.NewStore(t.TempDir())
	store := NewStore(fixedDir(filepath.Join(t.TempDir(), "sessions")), cfg)
	return NewCurrent(cfg, store), store, cfg
}

func TestEnsureCreatesFallbackOnce(t *testing.T) {
	current, store, cfg := newTestCurrent(t)

	name, created, err := current.Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if name != FallbackName {
		t.Errorf("name = %q, want %q", name, FallbackName)
	}
	if !created {
		t.Error("first Ensure did not report created")
	}
	if !store.Exists(FallbackName) {
		t.Error("fallback session not persisted")
	}
	if ptr, ok := cfg.CurrentSession(); !ok || ptr != FallbackName {
		t.Errorf("pointer = %q, %v", ptr, ok)
	}

	sess, err := store.Load(FallbackName)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Role != "system" {
		t.Errorf("fallback seeded with %+v, want one system message", sess.Messages)
	}

	// Idempotent: second call performs no creation and returns the same name.
	name2, created2, err := current.Ensure()
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if name2 != name || created2 {
		t.Errorf("second Ensure = %q, created=%v", name2, created2)
	}
}

func TestEnsureWithoutSystemPrompt(t *testing.T) {
	current, store, _ := newTestCurrent(t)
	current.SystemPrompt = ""

	if _, _, err := current.Ensure(); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	sess, err := store.Load(FallbackName)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Messages) != 0 {
		t.Errorf("fallback messages = %+v, want empty", sess.Messages)
	}
}

func TestEnsureRespectsExistingPointer(t *testing.T) {
	current, store, _ := newTestCurrent(t)

	if err := current.Set("work"); err != nil {
		t.Fatal(err)
	}
	name, created, err := current.Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if name != "work" || created {
		t.Errorf("Ensure = %q, created=%v; want work, false", name, created)
	}
	// No fallback session appears when the pointer is already set, even when
	// it dangles.
	if store.Exists(FallbackName) {
		t.Error("fallback created despite existing pointer")
	}
}

func TestEnsureDoesNotOverwriteExistingFallback(t *testing.T) {
	current, store, _ := newTestCurrent(t)

	seeded := Session{Model: "gpt-4o", Messages: []Message{
		{Role: "user", Content: "prior"},
		{Role: "assistant", Content: "history"},
	}}
	if err := store.Save(FallbackName, seeded); err != nil {
		t.Fatal(err)
	}

	if _, _, err := current.Ensure(); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	sess, err := store.Load(FallbackName)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Messages) != 2 {
		t.Errorf("implicit creation overwrote existing record: %+v", sess.Messages)
	}
}

func TestSetDoesNotValidate(t *testing.T) {
	current, _, _ := newTestCurrent(t)

	if err := current.Set("never-created"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	name, ok := current.Get()
	if !ok || name != "never-created" {
		t.Errorf("Get = %q, %v", name, ok)
	}
}
