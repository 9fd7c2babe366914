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

var errUsage = errors.New("usage")

// usageError reports how a command is meant to be called.
func usageError(u string) error {
	return fmt.Errorf("%w: %s", errUsage, u)
}

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	ListPersons(ctx context.Context, args []string) error
	ShowPerson(ctx context.Context, args []string) error
	AddPerson(ctx context.Context, args []string) error
	EditPerson(ctx context.Context, args []string) error
	SetStage(ctx context.Context, args []string) error
	DeletePerson(ctx context.Context, args []string) error

	ListDates(ctx context.Context, args []string) error
	AddDate(ctx context.Context, args []string) error
	DeleteDate(ctx context.Context, args []string) error
	AddMilestone(ctx context.Context, args []string) error
	DeleteMilestone(ctx context.Context, args []string) error
	SetImpression(ctx context.Context, args []string) error
	AddQuestion(ctx context.Context, args []string) error
	ResolveQuestion(ctx context.Context, args []string) error
	ReopenQuestion(ctx context.Context, args []string) error
	SetPlan(ctx context.Context, args []string) error
	Decide(ctx context.Context, args []string) error
	AddReminder(ctx context.Context, args []string) error
	ListReminders(ctx context.Context, args []string) error
	DismissReminder(ctx context.Context, args []string) error
	Suggest(ctx context.Context, args []string) error

	Stats(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error

	Sync(ctx context.Context, args []string) error
	Pull(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	SyncStatus(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
}

const helpText = `Records:
  persons | person <p> | addperson | editperson <p> | stage <p> <stage> | delperson <p>
  dates <p> | adddate <p> | deldate <id>
  milestone <p> | delmilestone <id> | impression <p> | plan <p> | decide <p>
  question <p> | resolve <id> | reopen <id>
  remind <p> | reminders [all] | dismiss <id> | suggest <p>
Views:
  stats [p] | search <text> | export <md|txt> [p]
Data:
  backup [file] | restore <file> | theme [light|dark] | photo <person|date> <id> <file>
Account and sync:
  register | login | logout | sync | pull | refresh | status
  exit | quit
<p> is a person's name or id prefix.`

// runREPL reads commands line by line and dispatches them to a. Handler
// errors are printed and the loop continues. It returns on EOF or on
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("love %s > ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			handler = a.Register
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout

		case "persons", "ls":
			handler = a.ListPersons
		case "person", "show":
			handler = a.ShowPerson
		case "addperson":
			handler = a.AddPerson
		case "editperson":
			handler = a.EditPerson
		case "stage":
			handler = a.SetStage
		case "delperson":
			handler = a.DeletePerson

		case "dates":
			handler = a.ListDates
		case "adddate":
			handler = a.AddDate
		case "deldate":
			handler = a.DeleteDate
		case "milestone":
			handler = a.AddMilestone
		case "delmilestone":
			handler = a.DeleteMilestone
		case "impression":
			handler = a.SetImpression
		case "question":
			handler = a.AddQuestion
		case "resolve":
			handler = a.ResolveQuestion
		case "reopen":
			handler = a.ReopenQuestion
		case "plan":
			handler = a.SetPlan
		case "decide":
			handler = a.Decide
		case "remind":
			handler = a.AddReminder
		case "reminders":
			handler = a.ListReminders
		case "dismiss":
			handler = a.DismissReminder
		case "suggest":
			handler = a.Suggest

		case "stats":
			handler = a.Stats
		case "search":
			handler = a.Search
		case "export":
			handler = a.Export
		case "backup":
			handler = a.Backup
		case "restore":
			handler = a.Restore
		case "theme":
			handler = a.Theme

		case "sync":
			handler = a.Sync
		case "pull":
			handler = a.Pull
		case "refresh":
			handler = a.Refresh
		case "status":
			handler = a.SyncStatus
		case "photo":
			handler = a.Photo

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
		if readErr != nil {
			return
		}
	}
}
