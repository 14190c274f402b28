// Command lambdac is the driver for the one-pass λ-calculus-to-C
// compiler: translate, compile-and-run, an interactive REPL, the
// bundled example suite, and an optional HTTP server.
//
// Grounded on cmd/langlang/main.go's flag layout, re-expressed with
// spf13/cobra (used by the o9nn-echo.go example for a multi-subcommand
// CLI of this shape) rather than the teacher's flat flag package — the
// richer command surface here (translate/run/repl/examples/serve)
// fits a subcommand tree better than a single flat binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Joker-vD/onepass-lambda-compiler/config"
	"github.com/Joker-vD/onepass-lambda-compiler/logging"
	"github.com/Joker-vD/onepass-lambda-compiler/store"
	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
	"go.uber.org/zap"
)

var (
	flagCC       string
	flagStore    string
	flagLogLevel string
	flagLogFile  string
	flagNoColor  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lambdac",
		Short:         "One-pass λ-calculus-to-C compiler",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagCC, "cc", "", "C compiler to invoke (defaults to $LAMBDAC_CC, $CC, or \"cc\")")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "path to the persistent macro store (defaults to in-memory)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (defaults to info)")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "rotate logs into this file in addition to the console")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI color in term output")

	root.AddCommand(
		newTranslateCmd(),
		newRunCmd(),
		newReplCmd(),
		newExamplesCmd(),
		newServeCmd(),
	)
	return root
}

func loadConfig() *config.Config {
	c := config.Default()
	_ = c.LoadYAML("lambdac.yaml")
	_ = c.LoadDotenv(".env")
	if flagCC != "" {
		c.SetString("toolchain.cc", flagCC)
	}
	if flagStore != "" {
		c.SetString("store.path", flagStore)
	}
	if flagLogLevel != "" {
		c.SetString("log.level", flagLogLevel)
	}
	if flagLogFile != "" {
		c.SetString("log.file", flagLogFile)
	}
	c.SetBool("log.color", !flagNoColor)
	return c
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:    c.GetString("log.level"),
		FilePath: c.GetString("log.file"),
		Color:    c.GetBool("log.color"),
	})
}

func toolchainConfig(c *config.Config) toolchain.Config {
	return toolchain.Config{CC: c.GetString("toolchain.cc")}
}

func openStore(c *config.Config) (*store.Store, error) {
	return store.Open(c.GetString("store.path"))
}
