// Command deduce evaluates C++11/14 type-deduction rules symbolically:
// single deductions from the command line, YAML suites, and a watch mode
// that re-checks a suite on change.
package main

func main() {
	Execute()
}
