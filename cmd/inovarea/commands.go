package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alwitt/inovarea"
	"github.com/alwitt/inovarea/db"
	"github.com/alwitt/inovarea/models"
	"github.com/alwitt/inovarea/service"
	"github.com/spf13/cobra"
)

// parseID convert a command line record ID
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("ID must be an integer, got '%s'", raw)
	}
	return id, nil
}

// printOutcome write the outcome of a record operation
func (c command) printOutcome(outcome service.Outcome, err error) error {
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.out, outcome.Message)
	if outcome.PersistenceErr != nil {
		_, _ = fmt.Fprintf(c.out, "Warning: changes were not saved: %v\n", outcome.PersistenceErr)
	}
	return nil
}

func createCreateCommand(c command) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.Create(ctx, name, description))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "record name, 2 to 60 characters (required)")
	cmd.Flags().StringVar(&description, "description", "", "record description, 3 to 200 characters (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("description"); err != nil {
		panic(err)
	}
	return cmd
}

func createListCommand(c command) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active records, or all with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.List(ctx, all))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include inactive records")
	return cmd
}

func createSearchCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Find records by ID, or by name / description text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.Search(ctx, args[0]))
			})
		},
	}
}

func createUpdateCommand(c command) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the name and / or description of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.Update(ctx, id, name, description))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name; blank keeps the current one")
	cmd.Flags().StringVar(&description, "description", "", "new description; blank keeps the current one")
	return cmd
}

func createSetActiveCommand(c command, active bool) *cobra.Command {
	use, short := "deactivate ID", "Mark a record inactive"
	if active {
		use, short = "activate ID", "Mark a record active"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.SetActive(ctx, id, active))
			})
		},
	}
}

func createDeleteCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Permanently remove a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				return c.printOutcome(s.Records.Delete(ctx, id))
			})
		},
	}
}

func createDashboardCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show record statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				_, _ = fmt.Fprintln(c.out, s.Records.Dashboard(ctx).String())
				return nil
			})
		},
	}
}

func createJournalCommand(c command) *cobra.Command {
	var limit int
	var actions []string
	var sessionID string
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List audit events from the SQLite journal (requires --journal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *inovarea.Session) error {
				if s.Journal == nil {
					return fmt.Errorf("the audit journal is disabled, enable it with --journal")
				}

				filters := db.AuditEventQueryFilter{}
				if limit > 0 {
					filters.Limit = &limit
				}
				if sessionID != "" {
					filters.SessionID = &sessionID
				}
				for _, action := range actions {
					filters.Actions = append(
						filters.Actions, models.AuditActionENUMType(strings.ToUpper(action)),
					)
				}

				var events []models.AuditEvent
				if err := s.Journal.UseDatabase(ctx, func(dbCtx context.Context, dbClient db.Database) error {
					var err error
					events, err = dbClient.ListAuditEvents(dbCtx, filters)
					return err
				}); err != nil {
					return err
				}

				for _, event := range events {
					_, _ = fmt.Fprintf(
						c.out, "%s | %s | %s | %s\n",
						event.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						event.SessionID, event.Action, event.Detail,
					)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events (0 for all)")
	cmd.Flags().StringSliceVar(&actions, "action", nil, "only these actions, e.g. DELETE,UNDO")
	cmd.Flags().StringVar(&sessionID, "session", "", "only events from this session ID")
	return cmd
}
