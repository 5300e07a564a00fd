package chat

import (
	"context"
	"fmt"
	"os"

	"askgpt/internal/session"
)

// ListSessions prints every stored session name, one per line.
func (e *Engine) ListSessions() error {
	names, err := e.store.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(e.out, name)
	}
	return nil
}

// ShowCurrentName prints the active session name, auto-creating the fallback
// when none is set.
func (e *Engine) ShowCurrentName() error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, name)
	return nil
}

// ShowHistory renders the current session as a plain-text transcript.
func (e *Engine) ShowHistory() error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	sess, err := e.store.Load(name)
	if err != nil {
		return err
	}
	e.render.Transcript(sess.Messages)
	return nil
}

// DumpJSON prints the full current session record as indented JSON.
func (e *Engine) DumpJSON() error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	sess, err := e.store.Load(name)
	if err != nil {
		return err
	}
	return e.render.DumpJSON(sess)
}

// CreateSession creates a new session and switches to it. Fails when the name
// is already taken.
func (e *Engine) CreateSession(name string) error {
	if err := e.store.Create(name); err != nil {
		return err
	}
	if err := e.current.Set(name); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Created and switched to session: %s\n", name)
	return nil
}

// SwitchSession switches to an existing session. Unlike Current.Set, an
// explicit switch verifies the target exists.
func (e *Engine) SwitchSession(name string) error {
	if !e.store.Exists(name) {
		return fmt.Errorf("%w: %s", session.ErrNotFound, name)
	}
	if err := e.current.Set(name); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Switched to session: %s\n", name)
	return nil
}

// DeleteSession removes a session record. Deleting the current session clears
// the pointer; deleting any other session leaves it untouched.
func (e *Engine) DeleteSession(name string) error {
	if err := e.store.Delete(name); err != nil {
		return err
	}
	if cur, ok := e.current.Get(); ok && cur == name {
		if err := e.cfg.ClearCurrentSession(); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.out, "Session %s deleted.\n", name)
	return nil
}

// SetSessionModel changes the current session's model and persists it.
func (e *Engine) SetSessionModel(model string) error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	sess, err := e.store.Load(name)
	if err != nil {
		return err
	}
	sess.Model = model
	if err := e.store.Save(name, sess); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Model for session %s changed to %s.\n", name, model)
	return nil
}

// SendFile feeds a file's content to the model as a single user turn against
// the current session.
func (e *Engine) SendFile(ctx context.Context, path string) error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("read input file: %w", err)
	}
	sess, err := e.store.Load(name)
	if err != nil {
		return err
	}
	return e.dispatch(ctx, name, &sess, string(content))
}

// ListWorkspaces prints the workspace report: current, default, and every
// registered workspace path.
func (e *Engine) ListWorkspaces() error {
	report, err := e.workspaces.List()
	if err != nil {
		return err
	}
	if report.Current != "" {
		fmt.Fprintf(e.out, "Current workspace: %s\n", report.Current)
	} else {
		fmt.Fprintf(e.out, "Current workspace: (default)\n")
	}
	fmt.Fprintf(e.out, "Default sessions dir: %s\n", report.Default)
	if len(report.Known) == 0 {
		return nil
	}
	fmt.Fprintln(e.out, "Known workspaces:")
	for _, entry := range report.Known {
		marker := " "
		if entry.Current {
			marker = "*"
		}
		fmt.Fprintf(e.out, "  %s %s\n", marker, entry.Path)
	}
	return nil
}

// UsageReport prints per-session token totals from the usage ledger.
func (e *Engine) UsageReport(ctx context.Context) error {
	if e.usage == nil {
		fmt.Fprintln(e.out, "Usage ledger unavailable.")
		return nil
	}
	totals, err := e.usage.BySession(ctx)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		fmt.Fprintln(e.out, "No usage recorded yet.")
		return nil
	}
	fmt.Fprintf(e.out, "%-24s %10s %14s %14s\n", "SESSION", "EXCHANGES", "PROMPT TOKENS", "TOTAL TOKENS")
	for _, t := range totals {
		fmt.Fprintf(e.out, "%-24s %10d %14d %14d\n", t.Session, t.Exchanges, t.PromptTokens, t.TotalTokens)
	}
	return nil
}
