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
	Login(ctx context.Context) error
	Register(ctx context.Context, email string) error
	Confirm(ctx context.Context, link string) error
	Verify(ctx context.Context, link string) error
	Resend(ctx context.Context) error
	Profile(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  - login                    - log in with email and password
//	  - register                 - create an account
//	  - confirm <token|link>     - finish login with the emailed link
//	  - verify <token|link>      - verify a new account with the emailed link
//	  - resend                   - request a new verification email
//
//	Logged in:
//	  - profile | whoami         - show the current user
//	  - refresh                  - re-fetch the current user
//	  - logout                   - log out
//
//	Always: help, exit | quit
//
// Errors returned by handlers are ignored here; handlers report them to the
// user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("authportal %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, refresh, logout, exit")
			} else {
				printlnFn("Available commands: login, register, confirm <token|link>, verify <token|link>, resend, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx, "")

		case "confirm":
			if len(args) == 0 {
				printlnFn("Usage: confirm <token|link>")
				continue
			}
			_ = a.Confirm(ctx, args[0])

		case "verify":
			if len(args) == 0 {
				printlnFn("Usage: verify <token|link>")
				continue
			}
			_ = a.Verify(ctx, args[0])

		case "resend":
			_ = a.Resend(ctx)

		case "profile", "whoami":
			_ = a.Profile(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

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
