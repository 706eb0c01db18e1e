package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

type command func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error

	Show(ctx context.Context, args []string) error
	Submit(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Review(ctx context.Context, args []string) error
	Assign(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Drafts(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error

	Stats(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	SavePage(ctx context.Context, args []string) error
	Departments(ctx context.Context, args []string) error
	Students(ctx context.Context, args []string) error
	Supervisors(ctx context.Context, args []string) error
	Locations(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	ApproveUser(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	AddDepartment(ctx context.Context, args []string) error
}

// sessionCommands maps the commands that need a logged-in session onto
// their handlers.
func sessionCommands(a execIface) map[string]command {
	return map[string]command{
		"logout":      a.Logout,
		"whoami":      a.Whoami,
		"profile":     a.Profile,
		"passwd":      a.Passwd,
		"l":           a.List,
		"list":        a.List,
		"next":        a.Next,
		"prev":        a.Prev,
		"page":        a.Page,
		"clear":       a.Clear,
		"show":        a.Show,
		"submit":      a.Submit,
		"edit":        a.Edit,
		"review":      a.Review,
		"assign":      a.Assign,
		"approve":     a.Approve,
		"drafts":      a.Drafts,
		"download":    a.Download,
		"stats":       a.Stats,
		"export":      a.Export,
		"save-page":   a.SavePage,
		"departments": a.Departments,
		"students":    a.Students,
		"supervisors": a.Supervisors,
		"locations":   a.Locations,

		"users":          a.Users,
		"pending":        a.Pending,
		"approve-user":   a.ApproveUser,
		"add-user":       a.AddUser,
		"add-department": a.AddDepartment,
	}
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = `Available commands:
  (l)ist [search] [dept=<id>] [storage=<name>]   next, prev, page <n>, clear
  show <id>, submit, edit <id>, review <id>, assign <id>, approve <id>, drafts
  download <id> report|source [path]
  stats [year], export excel|pdf [upload], save-page <file.xlsx>
  departments|students|supervisors|locations [query]
  admin: users [query], pending, approve-user <id>, add-user, add-department [name]
  whoami, profile [edit], passwd, logout, exit`
)

// runREPL starts the read-eval-print loop.
//
// It prints a prompt carrying the current status (from statusFn), reads a
// line from reader, parses the first token as the command and dispatches to
// methods on 'a'. Commands other than help, login and exit require a
// session. Handler errors are reported to the user and the loop goes on.
// The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := sessionCommands(a)

	for {
		printFn(prompt(statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (len(line) == 0 || !errors.Is(err, io.EOF)) {
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

		case "login":
			report(a.Login(ctx, args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			h, ok := commands[cmd]
			switch {
			case !ok:
				printlnFn("Unknown command:", cmd)
			case !a.isLoggedIn():
				printlnFn("Please log in first.")
			default:
				report(h(ctx, args))
			}
		}
	}
}

func prompt(status string) string {
	if status == "" {
		return "pd> "
	}
	return fmt.Sprintf("pd %s> ", status)
}

// report prints a handler error, preferring the backend's own message.
func report(err error) {
	if err == nil || errors.Is(err, io.EOF) {
		return
	}
	printlnFn("Error:", client.UserMessage(err, err.Error()))
}
