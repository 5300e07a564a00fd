package chat

import "strings"

// State identifies where the interactive loop is between lines.
type State int

const (
	// StateAwaitingLine means no input has been buffered for the next query.
	StateAwaitingLine State = iota
	// StateHasBuffer means at least one line is accumulated.
	StateHasBuffer
	// StateDispatching is the transient state while a query is in flight.
	StateDispatching
	// StateDone is terminal; no further lines are consumed.
	StateDone
)

// Action tells the caller what a fed line requires.
type Action int

const (
	// ActionNone: keep reading.
	ActionNone Action = iota
	// ActionShowHistory: render the current session transcript, then stop.
	ActionShowHistory
	// ActionDispatch: send Step.Query to the model.
	ActionDispatch
)

// Step is the outcome of feeding one line to the loop.
type Step struct {
	Action Action
	Query  string
}

// Loop is the interactive input state machine. It decides, line by line,
// whether blank input is a history request or a no-op, and when a completed
// query should be dispatched. It performs no I/O itself.
type Loop struct {
	sentinel     string
	buffer       []string
	anyQuerySent bool
	state        State
}

// NewLoop returns a loop terminating input accumulation on the given sentinel
// word.
func NewLoop(sentinel string) *Loop {
	return &Loop{sentinel: sentinel, state: StateAwaitingLine}
}

// State returns the loop's current state.
func (l *Loop) State() State {
	return l.state
}

// Done reports whether the loop has terminated.
func (l *Loop) Done() bool {
	return l.state == StateDone
}

// Feed applies the transition rules to one input line.
func (l *Loop) Feed(line string) Step {
	if l.state == StateDone || l.state == StateDispatching {
		return Step{Action: ActionNone}
	}
	trimmed := strings.TrimSpace(line)

	if trimmed == "" && len(l.buffer) == 0 {
		if !l.anyQuerySent {
			l.state = StateDone
			return Step{Action: ActionShowHistory}
		}
		return Step{Action: ActionNone}
	}

	if trimmed == l.sentinel {
		if len(l.buffer) == 0 {
			// An empty query is never dispatched.
			return Step{Action: ActionNone}
		}
		query := strings.Join(l.buffer, "\n")
		l.buffer = nil
		l.state = StateDispatching
		return Step{Action: ActionDispatch, Query: query}
	}

	// Everything else, blank lines included once the buffer is non-empty,
	// accumulates verbatim.
	l.buffer = append(l.buffer, line)
	l.state = StateHasBuffer
	return Step{Action: ActionNone}
}

// FeedEOF signals end of input: the loop terminates immediately with no
// further action and nothing persisted.
func (l *Loop) FeedEOF() {
	l.state = StateDone
}

// QuerySent records a successful dispatch: blank lines no longer show history
// and reading resumes.
func (l *Loop) QuerySent() {
	l.anyQuerySent = true
	l.state = StateAwaitingLine
}
