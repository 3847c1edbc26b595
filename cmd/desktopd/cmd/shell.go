package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/server"
)

const bootTimeout = 5 * time.Second

// clearScreen is written when the shell asks for a clear
const clearScreen = "\033[H\033[2J"

func newShellCommand(root *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Open a terminal on a session",
		Long: `Open a session on the configured store, boot it and read command lines
from stdin. The file tree is flushed when the input ends or on "exit".

Example:
  desktopd shell --session work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if name == "" {
				name = cfg.Session.DefaultName
			}
			cfg.Logging.Level = "error"
			logger, err := server.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			store, err := persistence.Open(ctx, server.StoreOptions(cfg), logger.Named("persistence"))
			if err != nil {
				return err
			}
			defer store.Close()

			sc := server.SessionConfig(cfg)
			sc.BootDelay = 0
			sessions := session.NewManager(store,
				session.WithConfig(sc),
				session.WithLogger(logger.Named("session")),
				session.WithAutoBoot(false))

			s, err := sessions.Open(ctx, name)
			if err != nil {
				return err
			}
			defer sessions.CloseAll(context.WithoutCancel(ctx))

			if err := boot(ctx, s); err != nil {
				return err
			}
			term, err := s.OpenWindow(window.Spec{AppType: window.KindTerminal})
			if err != nil {
				return err
			}
			return repl(cmd.InOrStdin(), cmd.OutOrStdout(), s, term)
		},
	}
	cmd.Flags().StringVarP(&name, "session", "s", "", "session name (defaults to SESSION_DEFAULT)")
	return cmd
}

// boot powers the session on and waits until it runs
func boot(ctx context.Context, s *session.Session) error {
	running := make(chan struct{}, 1)
	cancel := s.Subscribe(func(t power.Transition) {
		if t.To == power.StateRunning {
			select {
			case running <- struct{}{}:
			default:
			}
		}
	})
	defer cancel()

	if err := s.Boot(); err != nil {
		return err
	}
	select {
	case <-running:
		return nil
	case <-time.After(bootTimeout):
		return fmt.Errorf("session %s did not finish booting", s.Name())
	case <-ctx.Done():
		return ctx.Err()
	}
}

func repl(in io.Reader, out io.Writer, s *session.Session, term window.State) error {
	env := s.Environment()
	prompt := fmt.Sprintf("%s@%s$ ", env.User, env.Hostname)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if trimmed := strings.TrimSpace(line); trimmed == "exit" || trimmed == "logout" {
			break
		}

		res, err := s.Execute(term.ID, line)
		if err != nil {
			return err
		}
		switch {
		case res.Output == shell.ClearSignal:
			fmt.Fprint(out, clearScreen)
		case res.Output != "":
			fmt.Fprintln(out, res.Output)
		}
		fmt.Fprint(out, prompt)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
