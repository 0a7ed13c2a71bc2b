package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/credvault/credvault/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Init(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Recovery(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the credvault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Locked:
//	  - help           — show available commands
//	  - init           — first-time vault setup
//	  - unlock         — open the vault with the master password
//	  - exit | quit    — leave the program
//
//	Unlocked:
//	  - help           — show available commands
//	  - add            — add a credential
//	  - list | l       — list credentials
//	  - show           — show a single credential
//	  - delete         — delete a credential
//	  - export         — write an encrypted export file
//	  - import         — merge an export file into the vault
//	  - recovery       — write a phrase-encrypted backup
//	  - lock           — close the session
//	  - exit | quit    — leave the program
//
// Handler errors are printed and the loop continues; an authentication
// error is shown as a plain "vault is locked" hint.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err == nil {
			return
		}
		if errors.Is(err, common.ErrAuthentication) {
			printlnFn("Vault is locked. Run 'unlock' first.")
			return
		}
		printlnFn("Error:", err.Error())
	}

	for {
		printlnFn(fmt.Sprintf("credvault> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist, show, delete, export, import, recovery, lock, exit")
			} else {
				printlnFn("Available commands: init, unlock, exit")
			}

		case "init":
			report(a.Init(ctx))

		case "unlock":
			report(a.Unlock(ctx))

		case "lock":
			report(a.Lock(ctx))

		case "add":
			report(a.Add(ctx))

		case "l", "list":
			report(a.List(ctx))

		case "show":
			report(a.Show(ctx))

		case "delete":
			report(a.Delete(ctx))

		case "export":
			report(a.Export(ctx))

		case "import":
			report(a.Import(ctx))

		case "recovery":
			report(a.Recovery(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
