package casefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deduce-tools/deduce/internal/deduction"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}

	return path
}

func TestLoadAndRun(t *testing.T) {
	path := writeSuite(t, `
suite: universal references
engine: ">=1.0.0"
cases:
  - name: lvalue int binds as int&
    form: "T&&"
    init: "int"
    category: lvalue
    expect: "int&"
  - name: rvalue int binds as int&&
    form: "T&&"
    init: "27"
    expect: "int&&"
  - name: const ref binding forces const
    form: "const T&"
    init: "27"
    expect: "const int&"
  - name: string literal decays by value
    form: "T"
    init: "\"J. P. Briggs\""
    expect: "const char*"
  - name: mixed list is ambiguous
    form: "auto"
    init: "{1, 2, \"x\"}"
    error: ambiguous-initializer-list
`)

	suite, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if suite.Name != "universal references" || len(suite.Cases) != 5 {
		t.Fatalf("unexpected suite contents: %+v", suite)
	}

	results, err := suite.Run(deduction.NewEngine(deduction.Config{}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, r := range results {
		if !r.Pass {
			t.Errorf("case %q failed: %s", r.Case.Name, r.Message)
		}
	}
}

func TestRunReportsFailures(t *testing.T) {
	path := writeSuite(t, `
suite: failures
cases:
  - name: wrong expectation
    form: "T"
    init: "const int"
    expect: "const int"
  - name: expected error but deduction succeeds
    form: "auto"
    init: "{1, 2}"
    error: ambiguous-initializer-list
  - name: malformed initializer
    form: "T"
    init: "int[["
    expect: "int"
  - name: contract violation fails the case
    form: "T"
    init: "{1, 2}"
    expect: "int"
`)

	suite, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	results, err := suite.Run(deduction.NewEngine(deduction.Config{}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, r := range results {
		if r.Pass {
			t.Errorf("case %q unexpectedly passed", r.Case.Name)
		}
		if r.Message == "" {
			t.Errorf("case %q has no failure message", r.Case.Name)
		}
	}

	if !strings.Contains(results[0].Message, "deduced int") {
		t.Errorf("qualifier-stripping failure not explained: %s", results[0].Message)
	}
}

func TestEngineConstraint(t *testing.T) {
	t.Run("SatisfiedConstraint", func(t *testing.T) {
		suite := &Suite{Engine: ">=1.1.0", Cases: []Case{{Form: "T", Init: "int", Expect: "int"}}}
		if err := suite.CheckEngine(); err != nil {
			t.Errorf("constraint unexpectedly rejected: %v", err)
		}
	})

	t.Run("UnsatisfiedConstraint", func(t *testing.T) {
		suite := &Suite{Engine: ">=2.0.0", Cases: []Case{{Form: "T", Init: "int", Expect: "int"}}}
		if err := suite.CheckEngine(); err == nil {
			t.Error("constraint unexpectedly satisfied")
		}
		if _, err := suite.Run(deduction.NewEngine(deduction.Config{})); err == nil {
			t.Error("Run ignored the engine gate")
		}
	})

	t.Run("EmptyMeansAny", func(t *testing.T) {
		suite := &Suite{Cases: []Case{{Form: "T", Init: "int", Expect: "int"}}}
		if err := suite.CheckEngine(); err != nil {
			t.Errorf("empty constraint rejected: %v", err)
		}
	})
}

func TestLoadRejectsInvalidSuites(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"NoCases", "suite: empty\ncases: []\n"},
		{"MissingOutcome", "cases:\n  - name: a\n    form: T\n    init: int\n"},
		{"BothOutcomes", "cases:\n  - form: T\n    init: int\n    expect: int\n    error: ambiguous-initializer-list\n"},
		{"UnknownErrorKind", "cases:\n  - form: T\n    init: int\n    error: out-of-memory\n"},
		{"UnknownCategory", "cases:\n  - form: T\n    init: int\n    expect: int\n    category: glvalue\n"},
		{"MissingForm", "cases:\n  - init: int\n    expect: int\n"},
		{"BadConstraint", "engine: \"one point oh\"\ncases:\n  - form: T\n    init: int\n    expect: int\n"},
		{"BadYAML", "cases: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSuite(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load unexpectedly succeeded")
			}
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load unexpectedly succeeded on a missing file")
		}
	})
}
