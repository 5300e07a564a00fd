package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"golang.org/x/term"
)

// LineReader yields one input line at a time. ok is false once input is
// exhausted. Raw terminal handling stays behind this interface so the loop
// transition table can be driven from scripted lines in tests.
type LineReader interface {
	ReadLine() (line string, ok bool)
}

// bufioLineReader reads plain lines from a stream (piped stdin, tests).
type bufioLineReader struct {
	r *bufio.Reader
}

// NewStreamReader wraps an io.Reader as a LineReader.
func NewStreamReader(r io.Reader) LineReader {
	return &bufioLineReader{r: bufio.NewReader(r)}
}

func (b *bufioLineReader) ReadLine() (string, bool) {
	line, err := b.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLineEnding(line), true
		}
		return "", false
	}
	return trimLineEnding(line), true
}

// promptEOF is panicked out of a go-prompt keybind to end input. go-prompt
// runs the terminal in raw mode, where Ctrl-D is a plain keystroke and Ctrl-C
// raises no SIGINT, so ending input has to be wired as explicit keybinds.
type promptEOF struct{}

// promptLineReader reads lines through go-prompt when stdin is a terminal,
// offering the sentinel word as a completion. Ctrl-D on an empty line or
// Ctrl-C at any point ends input.
type promptLineReader struct {
	sentinel string
	restore  func()
}

// NewPromptReader returns the interactive TTY reader.
func NewPromptReader(sentinel string) LineReader {
	r := &promptLineReader{sentinel: sentinel}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		if state, err := term.GetState(fd); err == nil {
			r.restore = func() { _ = term.Restore(fd, state) }
		}
	}
	return r
}

func (p *promptLineReader) ReadLine() (string, bool) {
	return p.read(func() string {
		return prompt.Input("", p.completer(),
			prompt.OptionAddKeyBind(p.exitKeyBinds()...))
	})
}

// read converts a promptEOF panic from a keybind into an end-of-input result,
// restoring the terminal state go-prompt left behind.
func (p *promptLineReader) read(input func() string) (line string, ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, isEOF := r.(promptEOF); !isEOF {
			panic(r)
		}
		if p.restore != nil {
			p.restore()
		}
		fmt.Println()
		line, ok = "", false
	}()
	return input(), true
}

func (p *promptLineReader) completer() prompt.Completer {
	suggestions := []prompt.Suggest{
		{Text: p.sentinel, Description: "send the buffered query"},
	}
	return func(doc prompt.Document) []prompt.Suggest {
		word := doc.GetWordBeforeCursor()
		if word == "" {
			return nil
		}
		return prompt.FilterHasPrefix(suggestions, word, true)
	}
}

func (p *promptLineReader) exitKeyBinds() []prompt.KeyBind {
	return []prompt.KeyBind{
		{
			Key: prompt.ControlD,
			Fn: func(buf *prompt.Buffer) {
				if buf.Text() == "" {
					panic(promptEOF{})
				}
			},
		},
		{
			Key: prompt.ControlC,
			Fn: func(*prompt.Buffer) {
				panic(promptEOF{})
			},
		},
	}
}

func trimLineEnding(line string) string {
	return strings.TrimRight(line, "\r\n")
}
