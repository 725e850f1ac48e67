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
	isLoggedIn() bool
	Tour(ctx context.Context) error
	Login(ctx context.Context) error
	Passcode(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Biometric(ctx context.Context, arg string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the KTech Hub CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           - show available commands
//	  - tour           - show the feature tour
//	  - login          - sign in
//	  - passcode       - set the device passcode
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - help           - show available commands
//	  - dashboard      - show the signed-in student
//	  - biometric on|off
//	  - passcode       - set the device passcode
//	  - logout         - log out
//	  - exit | quit    - leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user and log their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("ktech %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: dashboard, biometric on|off, passcode, logout, exit")
			} else {
				printlnFn("Available commands: tour, login, passcode, exit")
			}

		case "tour":
			_ = a.Tour(ctx)

		case "login":
			_ = a.Login(ctx)

		case "passcode":
			_ = a.Passcode(ctx)

		case "d", "dashboard":
			_ = a.Dashboard(ctx)

		case "biometric":
			if len(args) != 1 {
				printlnFn("Usage: biometric on|off")
				continue
			}
			_ = a.Biometric(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
