package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"askgpt/internal/config"
	"askgpt/internal/display"
	"askgpt/internal/ledger"
	"askgpt/internal/llm"
	"askgpt/internal/logging"
	"askgpt/internal/session"
	"askgpt/internal/workspace"
)

// Engine drives the interactive loop and the session-mutating commands. All
// persistence happens strictly after a successful model response, so a failed
// turn leaves the on-disk record untouched.
type Engine struct {
	client     llm.Client
	store      *session.Store
	current    *session.Current
	cfg        *config.Store
	workspaces *workspace.Resolver
	render     *display.Renderer
	usage      *ledger.Ledger
	logger     *log.Logger
	out        io.Writer
}

// New returns a fully wired Engine. usage may be nil when the ledger could not
// be opened; exchanges are then simply not recorded.
func New(client llm.Client, store *session.Store, current *session.Current, cfg *config.Store, ws *workspace.Resolver, render *display.Renderer, usage *ledger.Ledger, logger *log.Logger, out io.Writer) *Engine {
	return &Engine{
		client:     client,
		store:      store,
		current:    current,
		cfg:        cfg,
		workspaces: ws,
		render:     render,
		usage:      usage,
		logger:     logger,
		out:        out,
	}
}

// ensureCurrent resolves the active session name, announcing the fallback
// session the one time it is auto-created.
func (e *Engine) ensureCurrent() (string, error) {
	name, created, err := e.current.Ensure()
	if err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}
	if created {
		logging.UserLog("auto-created fallback session %s", name)
		fmt.Fprintf(e.out, "No current session found. Created '%s' and switched to it.\n", name)
	}
	return name, nil
}

// RunInteractive reads lines from reader and drives the loop state machine
// until end of input or a history display terminates it. A dispatch failure
// aborts the whole command.
func (e *Engine) RunInteractive(ctx context.Context, reader LineReader) error {
	name, err := e.ensureCurrent()
	if err != nil {
		return err
	}
	sess, err := e.store.Load(name)
	if err != nil {
		return err
	}
	sentinel := e.cfg.Sentinel()

	fmt.Fprintf(e.out, "Current session: %s\n", name)
	fmt.Fprintf(e.out, "Type your question and end input with '%s' on a single line.\n", sentinel)
	fmt.Fprintf(e.out, "If you have not entered any query yet, pressing enter on empty line shows the history.\n\n")

	loop := NewLoop(sentinel)
	for !loop.Done() {
		line, ok := reader.ReadLine()
		if !ok {
			loop.FeedEOF()
			break
		}
		step := loop.Feed(line)
		switch step.Action {
		case ActionShowHistory:
			e.render.Transcript(sess.Messages)
		case ActionDispatch:
			if err := e.dispatch(ctx, name, &sess, step.Query); err != nil {
				return err
			}
			loop.QuerySent()
		}
	}
	return nil
}

// dispatch sends the accumulated query as one user turn. The session is
// mutated and persisted only after the client returns successfully; on failure
// the in-memory user message is discarded along with the error.
func (e *Engine) dispatch(ctx context.Context, name string, sess *session.Session, query string) error {
	candidate := append(slices.Clone(sess.Messages), session.Message{Role: "user", Content: query})

	logging.DevLog("dispatching query: %d chars, %d messages", len(query), len(candidate))
	resp, err := e.client.Chat(ctx, llm.ChatRequest{Model: sess.Model, Messages: candidate})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errors.New("no choices returned")
	}

	reply := resp.Choices[0].Message.Content
	sess.Messages = append(candidate, session.Message{Role: "assistant", Content: reply})
	if err := e.store.Save(name, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	e.render.Reply(reply)
	e.recordUsage(ctx, name, sess.Model, resp.Usage)
	return nil
}

func (e *Engine) recordUsage(ctx context.Context, name, model string, usage *llm.Usage) {
	if e.usage == nil {
		return
	}
	entry := ledger.Entry{Session: name, Model: model}
	if usage != nil {
		entry.PromptTokens = usage.PromptTokens
		entry.CompletionTokens = usage.CompletionTokens
		entry.TotalTokens = usage.TotalTokens
	}
	if err := e.usage.Record(ctx, entry); err != nil {
		logging.ErrorLog("usage ledger: %v", err)
	}
}
