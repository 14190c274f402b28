package main

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
	"github.com/Joker-vD/onepass-lambda-compiler/translator"
)

// scenario is one end-to-end fixture from spec.md §8, grounded on
// original_source/main.py's test_run: a surface term together with
// either the expected residual stdout or an expectation that
// translation itself fails (the unbound-variable case).
type scenario struct {
	name    string
	source  string
	want    string
	wantErr bool
}

var churchSucc = "λn. λs. λz. s (n s z)"
var churchZero = "λs. λz. z"

var scenarios = []scenario{
	{
		name:   "beta-reduces-identity-application",
		source: "(λx. x) (λx. x)",
		want:   "λx. x",
	},
	{
		name:   "closed-constant-function-no-captures",
		source: "λx. λy. x",
		want:   "λx. λy. x",
	},
	{
		name:   "call-by-value-outer-reduction-only",
		source: "(λf. λx. f (f x)) (λy. y)",
		want:   "λx. (λy. y) ((λy. y) x)",
	},
	{
		name:   "church-four-via-repeated-successor",
		source: fmt.Sprintf("(%s) ((%s) ((%s) ((%s) (%s))))", churchSucc, churchSucc, churchSucc, churchSucc, churchZero),
		want:   "λs. λz. s (s (s (s z)))",
	},
	{
		name:    "rejects-unbound-variable",
		source:  "λx. λy. x y z",
		wantErr: true,
	},
}

type scenarioResult struct {
	name, expected, actual string
	heapBytes              uint64
	ok                     bool
}

func runScenario(ctx context.Context, cc toolchain.Config, sc scenario) scenarioResult {
	r := scenarioResult{name: sc.name, expected: sc.want}

	tm, err := parse.Parse(sc.source, noMoreInput)
	var csrc string
	if err == nil {
		csrc, err = translator.Translate(tm)
	}

	if sc.wantErr {
		r.ok = err != nil
		r.actual = "(error expected)"
		if err != nil {
			r.actual = err.Error()
		}
		return r
	}
	if err != nil {
		r.actual = err.Error()
		return r
	}

	res, err := cc.CompileAndRun(ctx, csrc)
	if err != nil {
		r.actual = err.Error()
		return r
	}

	r.actual = res.Stdout
	r.heapBytes = res.HeapUsageBytes
	r.ok = res.Stdout == sc.want
	return r
}

func newExamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Run the bundled end-to-end scenarios and report pass/fail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := loadConfig()
			cc := toolchainConfig(c)

			rows := make([]scenarioResult, len(scenarios))
			g, ctx := errgroup.WithContext(context.Background())
			for i, sc := range scenarios {
				i, sc := i, sc
				g.Go(func() error {
					rows[i] = runScenario(ctx, cc, sc)
					return nil
				})
			}
			_ = g.Wait()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"scenario", "expected", "actual", "heap", "result"})

			allOK := true
			for _, r := range rows {
				result := "PASS"
				if !r.ok {
					result = "FAIL"
					allOK = false
				}
				table.Append([]string{r.name, r.expected, r.actual, fmt.Sprintf("%d", r.heapBytes), result})
			}
			table.Render()

			if !allOK {
				return fmt.Errorf("one or more scenarios failed")
			}
			return nil
		},
	}
	return cmd
}
