package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/artboard/pkg/presence"
)

// presenceCommand creates the presence command group.
func (c *CLI) presenceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Inspect collaborators on a canvas",
	}

	cmd.AddCommand(c.presenceListCommand())
	cmd.AddCommand(c.presenceWatchCommand())

	return cmd
}

// presenceFlags are shared by the presence subcommands.
type presenceFlags struct {
	server string
	user   string
	name   string
}

func (f *presenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "http://localhost:8080", "artboard server URL")
	cmd.Flags().StringVar(&f.user, "user", "", "user id to join as (default: random)")
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
}

func (f *presenceFlags) userID() string {
	if f.user == "" {
		f.user = "cli-" + uuid.NewString()[:8]
	}
	return f.user
}

// presenceListCommand creates the "presence list" subcommand.
func (c *CLI) presenceListCommand() *cobra.Command {
	var flags presenceFlags

	cmd := &cobra.Command{
		Use:   "list <canvas>",
		Short: "List active collaborators once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store := presence.NewHTTPStore(flags.server)
			recs, err := store.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			active := presence.Filter(recs, "", time.Now(), cfg.Presence.Freshness.Duration)
			if len(active) == 0 {
				printInfo("Nobody is on %s", args[0])
				return nil
			}
			m := NewPresenceModel(args[0])
			m.Records = active
			m.Cursor = -1
			m.Height = len(active)
			fmt.Println(m.table())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// presenceWatchCommand creates the "presence watch" subcommand.
func (c *CLI) presenceWatchCommand() *cobra.Command {
	var flags presenceFlags

	cmd := &cobra.Command{
		Use:   "watch <canvas>",
		Short: "Join a canvas and watch collaborators live",
		Long: `Join a canvas as a cursorless collaborator and show everyone else who is
active, refreshed on the presence poll interval. The own record is removed
on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var prog *tea.Program
			opts := cfg.PresenceOptions()
			opts.Logger = c.Logger
			opts.OnUpdate = func(recs []presence.Record) {
				if prog != nil {
					prog.Send(presenceMsg(recs))
				}
			}
			b := presence.NewBroadcaster(presence.NewHTTPStore(flags.server), args[0], flags.userID(), flags.name, opts)
			prog = tea.NewProgram(NewPresenceModel(args[0]), tea.WithContext(ctx), tea.WithOutput(os.Stderr))

			done := make(chan error, 1)
			go func() { done <- b.Run(ctx) }()

			_, err = prog.Run()
			cancel()
			<-done
			leaveCtx, leaveCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer leaveCancel()
			b.Leave(leaveCtx)
			if err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
