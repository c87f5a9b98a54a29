package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rpggio/ideaportal/internal/app"
	"github.com/rpggio/ideaportal/internal/config"
	"github.com/rpggio/ideaportal/internal/csvstore"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/user"
	"github.com/spf13/cobra"
)

// newHashPasswordCommand prints a bcrypt hash for the auth.users config table.
func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for a user's password_hash entry",
		Long:  "Hash the given password, or the first line of stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := user.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// newExportCommand writes the idea or vote table as CSV without starting a server.
func newExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:       "export {ideas|votes}",
		Short:     "Export the idea or vote table as CSV",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"ideas", "votes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: parseLogLevel(cfg.Log.Level),
			}))

			store, err := app.OpenStore(cfg.Store, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			var buf strings.Builder
			switch args[0] {
			case "ideas":
				ideas, err := store.Ideas.List(cmd.Context(), idea.ListOptions{})
				if err != nil {
					return err
				}
				err = csvstore.WriteIdeas(&buf, ideas)
				if err != nil {
					return err
				}
			case "votes":
				votes, err := store.Votes.List(cmd.Context())
				if err != nil {
					return err
				}
				if err := csvstore.WriteVotes(&buf, votes); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown table %q: want ideas or votes", args[0])
			}

			if out == "" || out == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), buf.String())
				return err
			}
			return atomic.WriteFile(out, strings.NewReader(buf.String()))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
