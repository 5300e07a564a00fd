package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultModel is used for new sessions when no global override is set.
	DefaultModel = "gpt-4o"
	// DefaultSentinel terminates multi-line input in interactive mode.
	DefaultSentinel = "EOF"
	// DefaultSystemPrompt seeds the auto-created fallback session.
	DefaultSystemPrompt = "You are a helpful assistant."
)

// Scalar config file names under the config directory.
const (
	sentinelFile = "eof.conf"
	modelFile    = "model.conf"
	wsFile       = "workspace.conf"
	currentFile  = "current_session"
)

// GetConfigDir resolves the per-user application directory.
// Checks ASKGPT_CONFIG_DIR first, then falls back to ~/.askgpt.
func GetConfigDir() string {
	if dir := os.Getenv("ASKGPT_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".askgpt"
	}
	return filepath.Join(home, ".askgpt")
}

// Store persists small scalar settings as single trimmed text lines, one file
// per setting. A Store holds its directory so tests can point it at a temp dir
// instead of the user's home.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. An empty dir means GetConfigDir().
func NewStore(dir string) *Store {
	if dir == "" {
		dir = GetConfigDir()
	}
	return &Store{dir: dir}
}

// Dir exposes the resolved config directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDirs creates the config directory and seeds the sentinel file with its
// default on first run.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(s.dir, sentinelFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(sentinelFile, DefaultSentinel); err != nil {
			return err
		}
	}
	return nil
}

// Sentinel returns the configured end-of-input word.
func (s *Store) Sentinel() string {
	if v := s.read(sentinelFile); v != "" {
		return v
	}
	return DefaultSentinel
}

// SetSentinel overwrites the end-of-input word.
func (s *Store) SetSentinel(word string) error {
	return s.write(sentinelFile, word)
}

// DefaultModel returns the global default model, falling back to the built-in
// default when no override file exists.
func (s *Store) DefaultModel() string {
	if v := s.read(modelFile); v != "" {
		return v
	}
	return DefaultModel
}

// SetDefaultModel writes the global default-model override.
func (s *Store) SetDefaultModel(model string) error {
	return s.write(modelFile, model)
}

// ClearDefaultModel removes the override; DefaultModel reverts to the built-in.
func (s *Store) ClearDefaultModel() error {
	return s.remove(modelFile)
}

// Workspace returns the configured workspace path, if any.
func (s *Store) Workspace() (string, bool) {
	v := s.read(wsFile)
	return v, v != ""
}

// SetWorkspace writes the workspace pointer.
func (s *Store) SetWorkspace(path string) error {
	return s.write(wsFile, path)
}

// ClearWorkspace removes the workspace pointer.
func (s *Store) ClearWorkspace() error {
	return s.remove(wsFile)
}

// CurrentSession returns the current-session pointer, if set. The pointer is
// not validated against the session store; callers that need an existing
// session resolve through session.Current.
func (s *Store) CurrentSession() (string, bool) {
	v := s.read(currentFile)
	return v, v != ""
}

// SetCurrentSession unconditionally overwrites the pointer.
func (s *Store) SetCurrentSession(name string) error {
	return s.write(currentFile, name)
}

// ClearCurrentSession removes the pointer.
func (s *Store) ClearCurrentSession() error {
	return s.remove(currentFile)
}

func (s *Store) read(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) write(name, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
