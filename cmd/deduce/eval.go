package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deduce-tools/deduce/internal/deduction"
	"github.com/deduce-tools/deduce/internal/spelling"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a single deduction",
	Long: "Evaluate one deduction: a declared form against an initializer spelling.\n\n" +
		"Examples:\n" +
		"  deduce eval --form 'T&&' --init 'const int' --category lvalue\n" +
		"  deduce eval --form auto --init '{1, 2, 3}'\n" +
		"  deduce eval --form 'decltype(auto)' --init 'const int&' --trace",
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("form", "", "declared form spelling, e.g. 'T', 'const T&', 'auto&&'")
	evalCmd.Flags().String("init", "", "initializer spelling, e.g. 'const int&', '27', '{1, 2, 3}'")
	evalCmd.Flags().String("category", "", "override the initializer's value category (lvalue|rvalue)")
	_ = evalCmd.MarkFlagRequired("form")
	_ = evalCmd.MarkFlagRequired("init")

	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	formSpelling, _ := cmd.Flags().GetString("form")
	initSpelling, _ := cmd.Flags().GetString("init")
	category, _ := cmd.Flags().GetString("category")

	form, err := spelling.ParseForm(formSpelling)
	if err != nil {
		return err
	}
	init, err := spelling.ParseInitializer(initSpelling)
	if err != nil {
		return err
	}
	switch category {
	case "":
	case "lvalue":
		init.Category = deduction.Lvalue
	case "rvalue":
		init.Category = deduction.Rvalue
	default:
		return fmt.Errorf("unknown value category %q", category)
	}

	logger.Debug("evaluating deduction",
		zap.Stringer("form", form),
		zap.Stringer("init", init))

	eng := deduction.NewEngine(deduction.Config{Trace: tracing()})

	dt, steps, err := eng.DeduceTrace(form, init)
	for _, s := range steps {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+s.String())
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), spelling.Print(dt))

	return nil
}
