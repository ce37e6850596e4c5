package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alwitt/inovarea/models"
	"github.com/alwitt/inovarea/service"
)

const (
	invalidOptionMessage = "Invalid option!"
	invalidIDMessage     = "Error: ID must be an integer."
	exitMessage          = "Exiting..."
)

// shell the interactive numbered menu over a record service
type shell struct {
	records service.RecordService
	scanner *bufio.Scanner
	out     io.Writer
	pause   bool
	closed  bool
}

func newShell(records service.RecordService, in io.Reader, out io.Writer, pause bool) *shell {
	return &shell{records: records, scanner: bufio.NewScanner(in), out: out, pause: pause}
}

// prompt print the label and read one line; on end of input the shell closes
func (s *shell) prompt(label string) string {
	_, _ = fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		s.closed = true
		_, _ = fmt.Fprintln(s.out)
		return ""
	}
	return strings.TrimRight(s.scanner.Text(), "\r")
}

func (s *shell) println(a ...interface{}) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *shell) wait() {
	if s.pause && !s.closed {
		s.prompt("\nPress ENTER to continue...")
	}
}

// report print the result of a record operation
func (s *shell) report(outcome service.Outcome, err error) {
	if errors.Is(err, models.ErrNothingToUndo) {
		s.println(service.NothingToUndoMessage)
		return
	} else if err != nil {
		s.println("Error: " + err.Error())
		return
	}
	s.println(outcome.Message)
	if outcome.PersistenceErr != nil {
		s.println("Warning: changes were not saved: " + outcome.PersistenceErr.Error())
	}
}

// promptID read a record ID; ok is false when the input was not an integer
func (s *shell) promptID() (int, bool) {
	raw := s.prompt("ID: ")
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if !s.closed {
			s.println(invalidIDMessage)
		}
		return 0, false
	}
	return id, true
}

// run the main menu loop until the operator exits or input ends
func (s *shell) run(ctx context.Context) error {
	for !s.closed {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(s.records.Dashboard(ctx).String())
		s.println("=== MAIN MENU ===")
		s.println("1. CRUD")
		s.println("2. Reports")
		s.println("0. Exit")
		switch strings.TrimSpace(s.prompt("Option: ")) {
		case "1":
			s.crudMenu(ctx)
		case "2":
			s.reportsMenu(ctx)
		case "0":
			s.println(exitMessage)
			return nil
		default:
			if !s.closed {
				s.println(invalidOptionMessage)
			}
		}
	}
	return nil
}

func (s *shell) reportsMenu(ctx context.Context) {
	for !s.closed {
		s.println("\n=== REPORTS ===")
		s.println("1. List active")
		s.println("2. List all")
		s.println("3. Search by term")
		s.println("0. Back")
		switch strings.TrimSpace(s.prompt("Option: ")) {
		case "1":
			s.report(s.records.List(ctx, false))
			s.wait()
		case "2":
			s.report(s.records.List(ctx, true))
			s.wait()
		case "3":
			term := s.prompt("Enter term: ")
			s.report(s.records.Search(ctx, term))
			s.wait()
		case "0":
			return
		default:
			if !s.closed {
				s.println(invalidOptionMessage)
			}
		}
	}
}

func (s *shell) crudMenu(ctx context.Context) {
	for !s.closed {
		s.println("\n=== CRUD ===")
		s.println("1. Create")
		s.println("2. List active")
		s.println("3. List all")
		s.println("4. Search")
		s.println("5. Update")
		s.println("6. Deactivate/Activate")
		s.println("7. Delete")
		s.println("8. Undo last action")
		s.println("0. Back")
		switch strings.TrimSpace(s.prompt("Option: ")) {
		case "1":
			name := s.prompt("Name: ")
			description := s.prompt("Description: ")
			if !s.closed {
				s.report(s.records.Create(ctx, name, description))
			}
			s.wait()
		case "2":
			s.report(s.records.List(ctx, false))
			s.wait()
		case "3":
			s.report(s.records.List(ctx, true))
			s.wait()
		case "4":
			term := s.prompt("Term: ")
			s.report(s.records.Search(ctx, term))
			s.wait()
		case "5":
			if id, ok := s.promptID(); ok {
				name := s.prompt("New name: ")
				description := s.prompt("New description: ")
				if !s.closed {
					s.report(s.records.Update(ctx, id, name, description))
				}
			}
			s.wait()
		case "6":
			if id, ok := s.promptID(); ok {
				status := strings.ToUpper(strings.TrimSpace(s.prompt("A to activate, I to deactivate: ")))
				if !s.closed {
					s.report(s.records.SetActive(ctx, id, status == "A"))
				}
			}
			s.wait()
		case "7":
			if id, ok := s.promptID(); ok {
				s.report(s.records.Delete(ctx, id))
			}
			s.wait()
		case "8":
			s.report(s.records.UndoLast(ctx))
			s.wait()
		case "0":
			return
		default:
			if !s.closed {
				s.println(invalidOptionMessage)
			}
		}
	}
}
