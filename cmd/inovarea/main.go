// Package main - InovaREA command line
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alwitt/inovarea"
	"github.com/alwitt/inovarea/config"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	root := buildRoot(os.Stdin, os.Stdout)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags flags shared by every command
type GlobalFlags struct {
	ConfigPath string
	NoPause    bool
}

// command runs one CLI action against a session
type command struct {
	v     *viper.Viper
	flags *GlobalFlags
	in    io.Reader
	out   io.Writer
}

// withSession load the configuration, open a session, and run the action against it
func (c command) withSession(
	ctx context.Context, action func(ctx context.Context, session *inovarea.Session) error,
) error {
	cfg, err := config.Load(c.v, c.flags.ConfigPath)
	if err != nil {
		return err
	}

	log.SetHandler(cli.New(os.Stderr))
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level '%s' [%w]", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	session, err := inovarea.NewSession(ctx, cfg, c.out)
	if err != nil {
		return err
	}
	if session.LoadErr != nil {
		_, _ = fmt.Fprintf(c.out, "Warning: data file could not be loaded, starting empty: %v\n", session.LoadErr)
	}

	actionErr := action(ctx, session)
	if err := session.Close(); err != nil {
		log.WithError(err).Warn("Session did not close cleanly")
	}
	return actionErr
}

// buildRoot create the root command and its subcommands
func buildRoot(in io.Reader, out io.Writer) *cobra.Command {
	v := config.NewViper()
	flags := &GlobalFlags{}
	cliCommand := command{v: v, flags: flags, in: in, out: out}

	root := &cobra.Command{
		Use:   "inovarea",
		Short: "Console record manager",
		Long: `InovaREA keeps a list of named records in a JSON file, with an audit log of
every change. Without a subcommand it starts the interactive menu.

Examples:
  inovarea
  inovarea create --name "Food bank" --description "Weekly food collection"
  inovarea list --all
  inovarea search food
  inovarea --journal journal --action DELETE`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cliCommand.withSession(
				cmd.Context(), func(ctx context.Context, session *inovarea.Session) error {
					return newShell(session.Records, in, out, !flags.NoPause).run(ctx)
				},
			)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to config file (TOML, YAML, or JSON; optional)")
	pf.BoolVar(&flags.NoPause, "no-pause", false, "do not wait for ENTER after each menu action")
	pf.String("data-file", "", "JSON data file (default data.json)")
	pf.String("audit-file", "", "audit log file (default log.txt)")
	pf.String("log-level", "", "operational log level: debug, info, warn, error, fatal")
	pf.Bool("lock", true, "hold an exclusive lock on the data file")
	pf.Bool("journal", false, "mirror the audit trail into the SQLite journal")
	pf.String("journal-db", "", "SQLite journal file (default journal.db)")

	for key, flag := range map[string]string{
		"data_file":       "data-file",
		"log.audit_file":  "audit-file",
		"log.level":       "log-level",
		"lock":            "lock",
		"journal.enabled": "journal",
		"journal.db_file": "journal-db",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		createCreateCommand(cliCommand),
		createListCommand(cliCommand),
		createSearchCommand(cliCommand),
		createUpdateCommand(cliCommand),
		createSetActiveCommand(cliCommand, true),
		createSetActiveCommand(cliCommand, false),
		createDeleteCommand(cliCommand),
		createDashboardCommand(cliCommand),
		createJournalCommand(cliCommand),
	)

	return root
}
