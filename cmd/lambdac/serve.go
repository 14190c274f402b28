package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Joker-vD/onepass-lambda-compiler/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	var evalTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server exposing /translate and /eval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := loadConfig()
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			// Flags only override the config layer when the caller
			// actually passed them; otherwise server.addr and
			// server.eval_timeout_seconds (defaults or lambdac.yaml)
			// stand.
			if cmd.Flags().Changed("addr") {
				c.SetString("server.addr", addr)
			}
			if cmd.Flags().Changed("eval-timeout") {
				c.SetInt("server.eval_timeout_seconds", int(evalTimeout.Seconds()))
			}

			timeout := time.Duration(c.GetInt("server.eval_timeout_seconds")) * time.Second
			s := server.New(toolchainConfig(c), logger, timeout)
			logger.Info("starting server", zap.String("addr", c.GetString("server.addr")))
			return s.Run(c.GetString("server.addr"))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (defaults to the config's server.addr, normally :8080)")
	cmd.Flags().DurationVar(&evalTimeout, "eval-timeout", 0, "timeout for the /eval compile-and-run pipeline (defaults to the config's server.eval_timeout_seconds)")
	return cmd
}
