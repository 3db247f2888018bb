package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Report(ctx context.Context) error
	Queue(ctx context.Context) error
	Sync(ctx context.Context) error
	History(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: report, queue, sync, history, status, help, exit"

// runREPL starts a simple read-eval-print loop for the survey client.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The prompt, written to w, shows the link
// mode and the number of queued submissions (from statusFn). The loop exits
// on EOF or when the user types "exit" or "quit".
//
//	help           show available commands
//	report         fill in and submit a survey report
//	queue          list submissions waiting to be sent
//	sync           send queued submissions now
//	history        list past submissions of a reporter
//	status         show link mode and queue size
//	exit | quit    leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "survey %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "r", "report":
			_ = a.Report(ctx)

		case "q", "queue":
			_ = a.Queue(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "history":
			_ = a.History(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}
