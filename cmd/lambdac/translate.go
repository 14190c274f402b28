package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/translator"
)

func newTranslateCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate a λ-calculus term to C source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write([]byte(csrc))
				return err
			}
			return os.WriteFile(outPath, []byte(csrc), 0o644)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write C source here instead of stdout")
	return cmd
}

func noMoreInput(bool) (string, bool) { return "", false }
