package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives; App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context, id string) error
	DeleteNote(ctx context.Context, id string) error
	report(err error)
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, addnote, edit <id>, delete <id>, refresh, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// It returns on EOF or on "exit"/"quit". Command errors are reported and the
// loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nk %s> ", statusFn()))
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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			a.report(a.Register(ctx))

		case "login":
			a.report(a.Login(ctx))

		case "refresh":
			a.report(a.Refresh(ctx))

		case "logout":
			a.report(a.Logout(ctx))

		case "l", "list":
			a.report(a.List(ctx))

		case "addnote":
			a.report(a.AddNote(ctx))

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			a.report(a.EditNote(ctx, args[0]))

		case "delete", "del":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			a.report(a.DeleteNote(ctx, args[0]))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
