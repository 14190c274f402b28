package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joker-vD/onepass-lambda-compiler/repl"
)

func newReplCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := loadConfig()
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			st, err := openStore(c)
			if err != nil {
				return err
			}
			defer st.Close()

			r := repl.New(os.Stdin, os.Stdout, st, toolchainConfig(c), logger)
			r.NoColor = flagNoColor
			r.Verbose = verbose
			r.EvalTimeout = time.Duration(c.GetInt("server.eval_timeout_seconds")) * time.Second
			r.Run()
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "also print the heap-usage line after each evaluation")
	return cmd
}
