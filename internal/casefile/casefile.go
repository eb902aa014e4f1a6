// Package casefile loads and runs YAML deduction suites: named cases pairing
// a declared-form spelling with an initializer spelling and an expected
// outcome, optionally gated on a minimum rule-table version.
package casefile

import (
	"fmt"
	"os"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/deduce-tools/deduce/internal/deduction"
	"github.com/deduce-tools/deduce/internal/spelling"
)

// ErrorAmbiguousList is the value of a case's `error` field that expects an
// ambiguous brace-list failure. It is the only recognized error expectation.
const ErrorAmbiguousList = "ambiguous-initializer-list"

// Suite is one YAML suite file.
type Suite struct {
	Name string `yaml:"suite"`
	// Engine is an optional semver constraint on the evaluator's rule-table
	// version, e.g. ">=1.1.0" for suites using decltype(auto).
	Engine string `yaml:"engine,omitempty"`
	Cases  []Case `yaml:"cases"`
	// Path is the file the suite was loaded from; not part of the format.
	Path string `yaml:"-"`
}

// Case is a single deduction check. Exactly one of Expect and Error must be
// set.
type Case struct {
	Name string `yaml:"name"`
	Form string `yaml:"form"`
	Init string `yaml:"init"`
	// Category overrides the initializer's default value category
	// ("lvalue" or "rvalue").
	Category string `yaml:"category,omitempty"`
	Expect   string `yaml:"expect,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Result is the outcome of running one case.
type Result struct {
	Case    Case
	Got     string
	Message string
	Pass    bool
}

// Load reads and validates a suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite %s: %w", path, err)
	}
	suite.Path = path

	if err := suite.validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}

	return &suite, nil
}

func (s *Suite) validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite declares no cases")
	}
	for i, c := range s.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		if c.Form == "" || c.Init == "" {
			return fmt.Errorf("%s: form and init are required", name)
		}
		if (c.Expect == "") == (c.Error == "") {
			return fmt.Errorf("%s: exactly one of expect and error must be set", name)
		}
		if c.Error != "" && c.Error != ErrorAmbiguousList {
			return fmt.Errorf("%s: unknown error kind %q", name, c.Error)
		}
		switch c.Category {
		case "", "lvalue", "rvalue":
		default:
			return fmt.Errorf("%s: unknown value category %q", name, c.Category)
		}
	}
	if _, err := parseConstraint(s.Engine); err != nil {
		return fmt.Errorf("engine constraint: %w", err)
	}

	return nil
}

// CheckEngine verifies that the evaluator's rule-table version satisfies the
// suite's engine constraint.
func (s *Suite) CheckEngine() error {
	con, err := parseConstraint(s.Engine)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(deduction.RulesetVersion)
	if err != nil {
		return fmt.Errorf("invalid ruleset version %q: %w", deduction.RulesetVersion, err)
	}
	if !con.Check(v) {
		return fmt.Errorf("suite requires ruleset %s, evaluator provides %s", s.Engine, deduction.RulesetVersion)
	}

	return nil
}

// parseConstraint parses a semver constraint; empty means "any version".
func parseConstraint(expr string) (*semver.Constraints, error) {
	if strings.TrimSpace(expr) == "" {
		return semver.NewConstraint(">=0.0.0")
	}

	return semver.NewConstraint(expr)
}

// Run evaluates every case against the engine. Malformed spellings fail the
// case rather than aborting the suite; only suite-level problems (the engine
// gate) are returned as an error.
func (s *Suite) Run(eng *deduction.Engine) ([]Result, error) {
	if err := s.CheckEngine(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		results = append(results, runCase(eng, c))
	}

	return results, nil
}

func runCase(eng *deduction.Engine, c Case) (res Result) {
	res = Result{Case: c}

	// The evaluator treats invalid (form, shape) pairs as contract
	// violations and panics; a suite author writing one should see a failed
	// case, not a crashed run.
	defer func() {
		if r := recover(); r != nil {
			res.Pass = false
			res.Message = fmt.Sprint(r)
		}
	}()

	form, err := spelling.ParseForm(c.Form)
	if err != nil {
		res.Message = err.Error()

		return res
	}
	init, err := spelling.ParseInitializer(c.Init)
	if err != nil {
		res.Message = err.Error()

		return res
	}
	switch c.Category {
	case "lvalue":
		init.Category = deduction.Lvalue
	case "rvalue":
		init.Category = deduction.Rvalue
	}

	dt, err := eng.Deduce(form, init)
	if err != nil {
		if c.Error == ErrorAmbiguousList {
			res.Pass = true
			res.Message = err.Error()

			return res
		}
		res.Message = fmt.Sprintf("unexpected failure: %v", err)

		return res
	}

	res.Got = spelling.Print(dt)
	if c.Error != "" {
		res.Message = fmt.Sprintf("expected %s, deduced %s", c.Error, res.Got)

		return res
	}
	if spelling.Canonical(res.Got) != spelling.Canonical(c.Expect) {
		res.Message = fmt.Sprintf("expected %s, deduced %s", c.Expect, res.Got)

		return res
	}
	res.Pass = true

	return res
}
