package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"askgpt/internal/session"
)

// Marker lines for the plain-text transcript.
const (
	assistantMarker = "[GPT]"
	userMarker      = "[USER]"
)

// Renderer writes session output to a single destination. Markdown rendering
// is enabled only when the destination is a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// New returns a renderer writing to out. When out is a TTY, assistant content
// is rendered as markdown via glamour; otherwise it is printed verbatim.
func New(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if mr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(0),
		); err == nil {
			r.markdown = mr
		}
	}
	return r
}

// Transcript prints the role-tagged plain-text view: system messages are
// skipped, assistant and user messages get a marker line followed by the
// trimmed content.
func (r *Renderer) Transcript(messages []session.Message) {
	for _, msg := range messages {
		switch msg.Role {
		case "assistant":
			fmt.Fprintln(r.out, assistantMarker)
			r.Reply(msg.Content)
		case "user":
			fmt.Fprintln(r.out, userMarker)
			fmt.Fprintln(r.out, strings.TrimSpace(msg.Content))
		}
	}
}

// DumpJSON serializes the full session record as indented JSON, system
// messages included.
func (r *Renderer) DumpJSON(sess session.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// Reply prints assistant content, rendered as markdown when possible.
func (r *Renderer) Reply(text string) {
	trimmed := strings.TrimSpace(text)
	if r.markdown == nil || trimmed == "" {
		fmt.Fprintln(r.out, trimmed)
		return
	}
	rendered, err := r.markdown.Render(trimmed)
	if err != nil {
		fmt.Fprintln(r.out, trimmed)
		return
	}
	fmt.Fprintln(r.out, strings.TrimRight(rendered, "\n"))
}
