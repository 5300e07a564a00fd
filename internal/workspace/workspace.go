package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"askgpt/internal/config"
)

const (
	appDirName   = ".askgpt"
	registryFile = "workspaces.json"
)

// Resolver maps the optional workspace pointer to an effective sessions
// directory and maintains the registry of previously used workspace paths.
type Resolver struct {
	cfg *config.Store
}

// NewResolver wires the resolver to a config store.
func NewResolver(cfg *config.Store) *Resolver {
	return &Resolver{cfg: cfg}
}

// Get reads the workspace pointer.
func (r *Resolver) Get() (string, bool) {
	return r.cfg.Workspace()
}

// Set writes the workspace pointer and registers the path in the
// known-workspace registry. Repeat calls with the same path are idempotent.
func (r *Resolver) Set(path string) error {
	if err := r.cfg.SetWorkspace(path); err != nil {
		return err
	}
	return r.register(path)
}

// Clear removes the pointer; resolution falls back to the default directory.
func (r *Resolver) Clear() error {
	return r.cfg.ClearWorkspace()
}

// SessionsDir returns the directory holding session records, creating it if
// missing. With a workspace configured this is <workspace>/.askgpt/sessions,
// otherwise <config-dir>/sessions.
func (r *Resolver) SessionsDir() (string, error) {
	dir := r.DefaultSessionsDir()
	if ws, ok := r.cfg.Workspace(); ok {
		dir = filepath.Join(ws, appDirName, "sessions")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create sessions dir: %w", err)
	}
	return dir, nil
}

// DefaultSessionsDir is the sessions directory used when no workspace is set.
func (r *Resolver) DefaultSessionsDir() string {
	return filepath.Join(r.cfg.Dir(), "sessions")
}

// Entry is one known workspace in a List report.
type Entry struct {
	Path    string `json:"path"`
	Current bool   `json:"current"`
}

// Report is a read-only view of the workspace configuration.
type Report struct {
	Current string  `json:"current,omitempty"`
	Default string  `json:"default"`
	Known   []Entry `json:"known"`
}

// List reports the current workspace, the default sessions directory, and
// every workspace registered so far. It does not mutate the registry.
func (r *Resolver) List() (Report, error) {
	known, err := r.loadRegistry()
	if err != nil {
		return Report{}, err
	}
	current, _ := r.cfg.Workspace()
	rep := Report{
		Current: current,
		Default: r.DefaultSessionsDir(),
		Known:   make([]Entry, 0, len(known)),
	}
	for _, path := range known {
		rep.Known = append(rep.Known, Entry{Path: path, Current: path == current})
	}
	return rep, nil
}

func (r *Resolver) registryPath() string {
	return filepath.Join(r.cfg.Dir(), registryFile)
}

func (r *Resolver) loadRegistry() ([]string, error) {
	data, err := os.ReadFile(r.registryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace registry: %w", err)
	}
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("parse workspace registry: %w", err)
	}
	return paths, nil
}

func (r *Resolver) register(path string) error {
	paths, err := r.loadRegistry()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if p == path {
			return nil
		}
	}
	paths = append(paths, path)
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace registry: %w", err)
	}
	if err := os.WriteFile(r.registryPath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write workspace registry: %w", err)
	}
	return nil
}
