package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/translator"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Translate, compile, run, and print the residual value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := loadConfig()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			tm, err := parse.Parse(string(data), noMoreInput)
			if err != nil {
				return err
			}

			csrc, err := translator.Translate(tm)
			if err != nil {
				return err
			}

			timeout := time.Duration(c.GetInt("server.eval_timeout_seconds")) * time.Second
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			res, err := toolchainConfig(c).CompileAndRun(ctx, csrc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Stdout)
			return nil
		},
	}
	return cmd
}
