package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deduce-tools/deduce/internal/casefile"
	"github.com/deduce-tools/deduce/internal/deduction"
)

var checkCmd = &cobra.Command{
	Use:   "check SUITE...",
	Short: "Run YAML deduction suites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	eng := deduction.NewEngine(deduction.Config{Trace: tracing()})

	failed := 0
	for _, path := range args {
		n, err := checkSuite(cmd, eng, path)
		if err != nil {
			return err
		}
		failed += n
	}
	if failed > 0 {
		return fmt.Errorf("%d case(s) failed", failed)
	}

	return nil
}

// checkSuite runs one suite and reports per-case results, returning the
// number of failed cases.
func checkSuite(cmd *cobra.Command, eng *deduction.Engine, path string) (int, error) {
	suite, err := casefile.Load(path)
	if err != nil {
		return 0, err
	}

	logger.Debug("running suite",
		zap.String("path", path),
		zap.String("suite", suite.Name),
		zap.Int("cases", len(suite.Cases)))

	results, err := suite.Run(eng)
	if err != nil {
		return 0, err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "suite %s (%s)\n", suite.Name, path)

	failed := 0
	for _, r := range results {
		if r.Pass {
			fmt.Fprintf(out, "  ok   %s\n", r.Case.Name)
			continue
		}
		failed++
		fmt.Fprintf(out, "  FAIL %s: %s\n", r.Case.Name, r.Message)
	}
	fmt.Fprintf(out, "%d passed, %d failed\n", len(results)-failed, failed)

	return failed, nil
}
