package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"askgpt/internal/config"
)

var (
	// ErrNotFound is returned when a referenced session record does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrAlreadyExists is returned when explicit creation targets an existing name.
	ErrAlreadyExists = errors.New("session already exists")
)

const fileExtension = ".json"

// Message is one turn in a conversation. Messages are append-only; once stored
// they are never reordered or mutated.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is a named conversation record: a model identifier plus the ordered
// message log, oldest first.
type Session struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// DirResolver supplies the sessions directory. The workspace resolver is the
// production implementation; tests substitute a fixed directory.
type DirResolver interface {
	SessionsDir() (string, error)
}

// Store provides CRUD over session records, one JSON file per session in the
// resolved sessions directory.
type Store struct {
	dirs DirResolver
	cfg  *config.Store
}

// NewStore wires a session store to its directory resolver and config store.
func NewStore(dirs DirResolver, cfg *config.Store) *Store {
	return &Store{dirs: dirs, cfg: cfg}
}

// Path returns the record file path for a session name.
func (s *Store) Path(name string) (string, error) {
	dir, err := s.dirs.SessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+fileExtension), nil
}

// Exists reports whether a record is present for the given name.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads a session record. A missing file yields a fresh in-memory session
// with the current default model; nothing is persisted. Legacy records stored
// as a bare message array are migrated to the structured shape in the returned
// value only; the file is rewritten on the next Save.
func (s *Store) Load(name string) (Session, error) {
	path, err := s.Path(name)
	if err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{Model: s.cfg.DefaultModel(), Messages: []Message{}}, nil
		}
		return Session{}, fmt.Errorf("read session %s: %w", name, err)
	}
	return s.decode(name, data)
}

func (s *Store) decode(name string, data []byte) (Session, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var messages []Message
		if err := json.Unmarshal(data, &messages); err != nil {
			return Session{}, fmt.Errorf("parse legacy session %s: %w", name, err)
		}
		return Session{Model: s.cfg.DefaultModel(), Messages: messages}, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session %s: %w", name, err)
	}
	if strings.TrimSpace(sess.Model) == "" {
		sess.Model = s.cfg.DefaultModel()
	}
	if sess.Messages == nil {
		sess.Messages = []Message{}
	}
	return sess, nil
}

// Save writes the full record, overwriting any prior content. The write goes
// through a temp file and rename so a crash never leaves a torn record.
func (s *Store) Save(name string, sess Session) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", name, err)
	}
	data = append(data, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session %s: %w", name, err)
	}
	return nil
}

// Names enumerates the session records in the resolved directory, one base
// name per record, in directory enumeration order.
func (s *Store) Names() ([]string, error) {
	dir, err := s.dirs.SessionsDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExtension {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExtension))
	}
	return names, nil
}

// Create writes a new empty-message record at the current default model.
// Fails with ErrAlreadyExists when the name is taken.
func (s *Store) Create(name string) error {
	if s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	return s.Save(name, Session{Model: s.cfg.DefaultModel(), Messages: []Message{}})
}

// Delete removes a session record from disk. Fails with ErrNotFound when no
// record exists. Clearing the current-session pointer on delete is the command
// layer's job; the store knows nothing about the pointer.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete session %s: %w", name, err)
	}
	return nil
}
