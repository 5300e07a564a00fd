package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"askgpt/internal/chat"
	"askgpt/internal/config"
	"askgpt/internal/credentials"
	"askgpt/internal/display"
	"askgpt/internal/installer"
	"askgpt/internal/ledger"
	"askgpt/internal/llm"
	"askgpt/internal/llm/mockclient"
	"askgpt/internal/logging"
	"askgpt/internal/openai"
	"askgpt/internal/session"
	"askgpt/internal/workspace"
)

// Version is set via -ldflags during build
var Version = "dev"

const helpText = `Usage: askgpt [options]

Options:
  -l                 List all sessions.
  -c sessionname     Create a new session with 'sessionname' and switch to it.
  -s sessionname     Switch to an existing session.
  -d sessionname     Delete the specified session.
  -d                 Display the conversation of the current session in a custom format:
                         [GPT]
                         GPT messages...
                         [USER]
                         USER messages...
  -n                 Show the current session name.
  -a                 Show all messages of the current session in JSON.
  -p                 Show the past history of the current session in JSON.
  -h                 Show this help message.
  -e eofword         Change the EOF word to 'eofword'.
  -f filename        Read the content of 'filename' and send it as user message.

  -w workspace_path  Switch the workspace to 'workspace_path'
                     (sessions stored in workspace_path/.askgpt/sessions)
  -wc                Clear the workspace and revert to default (~/.askgpt/sessions)
  -wl                List the current, default, and previously used workspaces.

  -m modelname       Change the model of the current session to 'modelname'.
  -ms modelname      Change the global default model to 'modelname' (saved in ~/.askgpt/model.conf).
  -mc                Revert the global default model to gpt-4o and remove ~/.askgpt/model.conf.

  -u                 Show per-session token usage totals.

Without options:
  askgpt             Start interactive mode. Input your question. End with the EOF word (default: EOF).
                     If you have not entered any query yet, pressing enter on empty line shows the history
                     in the same format as '-d'. Once you have entered queries, empty line no longer shows history.`

func main() {
	cfg := config.NewStore("")
	if err := cfg.EnsureDirs(); err != nil {
		fatal(err)
	}
	logger := logging.Setup(filepath.Join(cfg.Dir(), "askgpt.log"))

	isTTY := term.IsTerminal(int(os.Stdin.Fd()))
	if isTTY {
		if err := installer.MaybeInstall(os.Stdin, os.Stdout); err != nil {
			logging.ErrorLog("self-install failed: %v", err)
		}
	}

	ws := workspace.NewResolver(cfg)
	store := session.NewStore(ws, cfg)
	current := session.NewCurrent(cfg, store)
	render := display.New(os.Stdout)

	usage, err := ledger.Open(filepath.Join(cfg.Dir(), "usage.db"))
	if err != nil {
		logger.Printf("usage ledger unavailable: %v", err)
		usage = nil
	} else {
		defer usage.Close()
	}

	args := os.Args[1:]
	ctx := context.Background()

	newEngine := func(client llm.Client) *chat.Engine {
		return chat.New(client, store, current, cfg, ws, render, usage, logger, os.Stdout)
	}

	if len(args) == 0 {
		if isTTY && os.Getenv("ASKGPT_MOCK_LLM") != "1" {
			creds := credentials.NewManager(cfg.Dir())
			if err := creds.MaybeOnboard(os.Stdin, os.Stdout); err != nil {
				logging.ErrorLog("credential onboarding failed: %v", err)
			}
		}
		engine := newEngine(newClient(logger))
		reader := interactiveReader(cfg.Sentinel(), isTTY)
		run(engine.RunInteractive(ctx, reader))
		return
	}

	if len(args) == 1 {
		engine := newEngine(nil)
		switch args[0] {
		case "-l":
			run(engine.ListSessions())
		case "-n":
			run(engine.ShowCurrentName())
		case "-a", "-p":
			run(engine.DumpJSON())
		case "-d":
			run(engine.ShowHistory())
		case "-h":
			fmt.Println(helpText)
		case "-wc":
			run(ws.Clear())
			fmt.Println("Workspace reverted to default.")
		case "-wl":
			run(engine.ListWorkspaces())
		case "-mc":
			run(cfg.ClearDefaultModel())
			fmt.Printf("Global default model reverted to %s.\n", config.DefaultModel)
		case "-u":
			run(engine.UsageReport(ctx))
		default:
			invalid()
		}
		return
	}

	if len(args) == 2 {
		switch args[0] {
		case "-c":
			run(newEngine(nil).CreateSession(args[1]))
		case "-s":
			run(newEngine(nil).SwitchSession(args[1]))
		case "-d":
			run(newEngine(nil).DeleteSession(args[1]))
		case "-e":
			run(cfg.SetSentinel(args[1]))
			fmt.Printf("EOF word changed to: %s\n", args[1])
		case "-f":
			run(newEngine(newClient(logger)).SendFile(ctx, args[1]))
		case "-w":
			run(ws.Set(args[1]))
			fmt.Printf("Workspace set to %s\n", args[1])
		case "-m":
			run(newEngine(nil).SetSessionModel(args[1]))
		case "-ms":
			run(cfg.SetDefaultModel(args[1]))
			fmt.Printf("Global default model changed to %s.\n", args[1])
		default:
			invalid()
		}
		return
	}

	invalid()
}

// newClient builds the model client for commands that dispatch queries.
// Credential resolution is deferred to the first dispatch, so an interactive
// run without a key can still show history; the check still happens before
// any network attempt.
func newClient(logger *log.Logger) llm.Client {
	if os.Getenv("ASKGPT_MOCK_LLM") == "1" {
		logger.Println("ASKGPT_MOCK_LLM=1 detected; using mock LLM client")
		return mockclient.New()
	}
	return llm.NewLazy(func() (llm.Client, error) {
		creds := credentials.NewManager(config.GetConfigDir())
		key, err := creds.Resolve()
		if err != nil {
			return nil, err
		}
		// Timeout 0: a completion blocks until a response or failure arrives.
		return openai.NewClient(openai.DefaultBaseURL, key, 0, logger), nil
	})
}

func interactiveReader(sentinel string, isTTY bool) chat.LineReader {
	if isTTY {
		return chat.NewPromptReader(sentinel)
	}
	return chat.NewStreamReader(os.Stdin)
}

func run(err error) {
	if err != nil {
		fatal(err)
	}
}

func invalid() {
	fatal(fmt.Errorf("invalid usage. See -h for help"))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
