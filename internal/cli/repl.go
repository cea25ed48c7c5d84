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
	Register(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	Cooldowns(ctx context.Context) error
	Status(ctx context.Context) error
	Submit(ctx context.Context) error
	Wipe(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the card vault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	help        — show available commands
//	register    — register a new interest card
//	list | l    — list live cards
//	show        — decrypt and display one card (interactive ID prompt)
//	delete      — delete a card by ID
//	cooldowns   — show per-category re-registration lockouts
//	status      — merged local/server registration view
//	submit      — upload card hashes to the server
//	wipe        — erase all local card data
//	exit | quit — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("cardvault> ")
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
			printlnFn("Available commands: register, (l)ist, show, delete, cooldowns, status, submit, wipe, exit")

		case "register":
			_ = a.Register(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "cooldowns":
			_ = a.Cooldowns(ctx)

		case "status":
			_ = a.Status(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "wipe":
			_ = a.Wipe(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
