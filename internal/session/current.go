package session

import (
	"askgpt/internal/config"
)

// FallbackName is the session auto-created when no current session is set.
const FallbackName = "master_session"

// Current resolves the active session name, auto-creating the fallback
// session when no pointer is set.
type Current struct {
	cfg   *config.Store
	store *Store

	// SystemPrompt, when non-empty, seeds the auto-created fallback session
	// with a single system message.
	SystemPrompt string
}

// NewCurrent wires the resolver to the config store and session store.
func NewCurrent(cfg *config.Store, store *Store) *Current {
	return &Current{cfg: cfg, store: store, SystemPrompt: config.DefaultSystemPrompt}
}

// Get reads the raw pointer without side effects. The pointer may reference a
// session that was deleted or never created; callers that need an existing
// record resolve through Ensure.
func (c *Current) Get() (string, bool) {
	return c.cfg.CurrentSession()
}

// Set unconditionally overwrites the pointer. Existence of the named session
// is checked only by commands that require it, such as explicit switch.
func (c *Current) Set(name string) error {
	return c.cfg.SetCurrentSession(name)
}

// Ensure returns the pointer if set. Otherwise it creates the fallback session
// (only if no record with that name exists yet), sets the pointer, and reports
// created=true so callers can notify the user once. Repeated calls with the
// pointer set perform no creation.
func (c *Current) Ensure() (name string, created bool, err error) {
	if name, ok := c.cfg.CurrentSession(); ok {
		return name, false, nil
	}
	if !c.store.Exists(FallbackName) {
		sess := Session{Model: c.cfg.DefaultModel(), Messages: []Message{}}
		if c.SystemPrompt != "" {
			sess.Messages = append(sess.Messages, Message{Role: "system", Content: c.SystemPrompt})
		}
		if err := c.store.Save(FallbackName, sess); err != nil {
			return "", false, err
		}
	}
	if err := c.cfg.SetCurrentSession(FallbackName); err != nil {
		return "", false, err
	}
	return FallbackName, true, nil
}
