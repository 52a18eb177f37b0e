package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	OTPEnable(ctx context.Context) error
	OTPDisable(ctx context.Context) error
	OTPCheck(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	setLocale(locale string) error
	status() string
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Handlers print their own errors; the loop only cares about I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("adm %s> ", a.status()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: logout, refresh, otp-enable, otp-disable, otp-check, status, lang <en|fr>, exit")
			} else {
				printlnFn("Available commands: login, forgot, reset, status, lang <en|fr>, exit")
			}

		case "status":
			printlnFn(a.status())

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "otp-enable":
			_ = a.OTPEnable(ctx)

		case "otp-disable":
			_ = a.OTPDisable(ctx)

		case "otp-check":
			_ = a.OTPCheck(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "lang":
			if len(args) == 0 {
				printlnFn("Usage: lang <en|fr>")
				continue
			}
			if err := a.setLocale(args[0]); err != nil {
				printlnFn(err.Error())
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
