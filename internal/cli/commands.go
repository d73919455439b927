package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kimberlypn/keydispatch/internal/version"
	"github.com/kimberlypn/keydispatch/pkg/logging"
	"github.com/kimberlypn/keydispatch/pkg/scenario"
	"github.com/kimberlypn/keydispatch/pkg/transport"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "keydispatch",
		Short: "Keyed handler dispatch, demonstrated on a packet session",
		Long: `keydispatch is a library for keyed handler dispatch: a base hook runs on
every call, then the handler registered for the supplied key. This binary
drives the bundled transport-session demo with scenario files.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newInitScenarioCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("keydispatch version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newSimulateCmd() *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "simulate <scenario.toml>",
		Short: "Run a packet scenario through a transport session",
		Long: `Load a scenario file and dispatch its packets, in order, against a fresh
transport session. Every packet runs the session's base hook first, then
the handler registered for its type. The session summary is printed at
the end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("simulate")

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			logger.Info().Str("scenario", s.Name).Int("packets", len(s.Packets)).Msg("Scenario loaded")

			session := &transport.Session{}
			for i, p := range s.TransportPackets() {
				ack, err := session.Receive(p)
				if err != nil {
					if !keepGoing {
						return fmt.Errorf("packet %d (%s): %w", i, p.Type, err)
					}
					logger.Warn().Err(err).Int("packet", i).Str("type", string(p.Type)).Msg("Packet rejected")
					continue
				}
				logger.Debug().
					Int("packet", i).
					Str("type", string(p.Type)).
					Uint32("ack", ack.Seq).
					Bool("duplicate", ack.Duplicate).
					Msg("Packet acked")
			}

			fmt.Println(session.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Log rejected packets and continue instead of stopping")

	return cmd
}

func newInitScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-scenario <path>",
		Short: "Write a sample scenario file",
		Long:  `Write a sample scenario file covering a handshake, in-order and out-of-order data, and a close.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scenario.WriteSample(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote sample scenario to %s\n", args[0])
			return nil
		},
	}
}
