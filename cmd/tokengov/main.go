package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokengov/contract"
	"tokengov/sdk"
)

// The CLI plays the host node: it owns the store, stamps each call with an
// environment and feeds the engine one transaction at a time.

var (
	flagDB     string
	flagCaller string
	flagHeight uint64
	flagTime   int64
	flagDebug  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tokengov",
		Short:         "token issuance and governance engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagDB, "db", "tokengov.db", "sqlite state file")
	root.PersistentFlags().StringVar(&flagCaller, "caller", "", "calling identity")
	root.PersistentFlags().Uint64Var(&flagHeight, "height", 0, "block height stamped on the call")
	root.PersistentFlags().Int64Var(&flagTime, "time", 0, "unix timestamp stamped on the call (0 = now)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose logging")

	root.AddCommand(initCmd(), callCmd(), showCmd())
	return root
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func newEngine(log zerolog.Logger) (*contract.Engine, *sdk.SQLState, error) {
	st, err := sdk.NewSQLState(flagDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open state %s: %w", flagDB, err)
	}
	sink := func(line string) {
		log.Info().Str("event", line).Msg("emit")
	}
	return contract.New(st, sink), st, nil
}

func newEnv() sdk.Env {
	ts := flagTime
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return sdk.Env{
		Caller:    sdk.Address(flagCaller),
		Height:    flagHeight,
		Timestamp: ts,
		TxID:      uuid.NewString(),
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <config.json>",
		Short: "run genesis from a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			eng, st, err := newEngine(log)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := eng.Dispatch(newEnv(), "genesis", string(payload))
			fmt.Println(res)
			if err != nil {
				log.Error().Err(err).Msg("genesis rejected")
				return err
			}
			log.Info().Str("db", flagDB).Msg("genesis committed")
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "read engine state without mutating it",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "config",
			Short: "print the active configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runView("config", "{}")
			},
		},
		&cobra.Command{
			Use:   "proposal <id>",
			Short: "print one proposal record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("proposal id %q: %w", args[0], err)
				}
				return runView("proposal", fmt.Sprintf(`{"proposal_id":%d}`, id))
			},
		},
		&cobra.Command{
			Use:   "audit [limit]",
			Short: "print the newest audit entries",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				limit := uint64(20)
				if len(args) == 1 {
					n, err := strconv.ParseUint(args[0], 10, 64)
					if err != nil {
						return fmt.Errorf("limit %q: %w", args[0], err)
					}
					limit = n
				}
				return runView("audit_tail", fmt.Sprintf(`{"limit":%d}`, limit))
			},
		},
	)
	return cmd
}

// runView dispatches one read-only action and prints the envelope.
func runView(action, payload string) error {
	log := newLogger()
	eng, st, err := newEngine(log)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := eng.Dispatch(newEnv(), action, payload)
	fmt.Println(res)
	return err
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <action> [payload-json]",
		Short: "dispatch one action against the store",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			payload := "{}"
			if len(args) == 2 {
				payload = args[1]
			}
			eng, st, err := newEngine(log)
			if err != nil {
				return err
			}
			defer st.Close()

			env := newEnv()
			log.Debug().
				Str("action", args[0]).
				Str("caller", env.Caller.String()).
				Uint64("height", env.Height).
				Str("tx", env.TxID).
				Msg("dispatch")

			res, err := eng.Dispatch(env, args[0], payload)
			fmt.Println(res)
			if err != nil {
				log.Error().Err(err).Str("action", args[0]).Msg("rejected")
				return err
			}
			return nil
		},
	}
}
