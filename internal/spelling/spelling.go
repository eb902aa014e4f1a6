// Package spelling converts between C++-like type spellings and the symbolic
// deduction model: declared forms ("const T&", "auto&&"), initializer types
// ("const int&", "char[13]", "void(int,double)", "{1, 2, 3}"), and rendered
// deduction results ("initializer_list<int>", "char(&)[13]").
package spelling

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/deduce-tools/deduce/internal/deduction"
)

// ParseError reports a malformed spelling with the byte offset of the
// offending input.
type ParseError struct {
	Input  string
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spelling %q: %s (offset %d)", e.Input, e.Msg, e.Offset)
}

var forms = map[string]deduction.DeclaredForm{
	"T":              deduction.ByValue,
	"T&":             deduction.LvalueRef,
	"const T&":       deduction.ConstLvalueRef,
	"T&&":            deduction.UniversalRef,
	"T*":             deduction.Pointer,
	"const T*":       deduction.ConstPointer,
	"auto":           deduction.AutoPlain,
	"auto&":          deduction.AutoLvalueRef,
	"const auto&":    deduction.AutoConstLvalueRef,
	"auto&&":         deduction.AutoUniversalRef,
	"auto{}":         deduction.AutoBraced,
	"decltype(auto)": deduction.DecltypeAuto,
}

// ParseForm maps a declared-form spelling onto the closed form set.
// Whitespace around punctuation is insignificant.
func ParseForm(s string) (deduction.DeclaredForm, error) {
	if form, ok := forms[canonicalForm(s)]; ok {
		return form, nil
	}

	return 0, &ParseError{Input: s, Msg: "not a recognized declared form"}
}

// canonicalForm collapses whitespace so "const T &" and "const T&" agree.
func canonicalForm(s string) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	for _, p := range []string{"&", "*", "{", "}", "(", ")"} {
		out = strings.ReplaceAll(out, " "+p, p)
		out = strings.ReplaceAll(out, p+" ", p)
	}

	return out
}

// Canonical strips all whitespace from a spelling, for order-insensitive
// comparison of rendered types against expected spellings.
func Canonical(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// ParseInitializer parses an initializer description: a type spelling, a
// literal, or a brace-enclosed list of literals.
//
// The default value category models how the corresponding C++ expression
// would behave as a function argument: named types and lvalue references are
// lvalues, rvalue references, literals, and brace lists are rvalues. Callers
// can override the category on the returned record.
func ParseInitializer(s string) (deduction.Initializer, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return deduction.Initializer{}, &ParseError{Input: s, Msg: "empty initializer"}
	}

	if trimmed[0] == '{' {
		return parseBraceList(s, trimmed)
	}
	if lit, ok := classifyLiteral(trimmed); ok {
		return lit, nil
	}

	return parseTypeSpelling(s, trimmed)
}

func parseBraceList(input, trimmed string) (deduction.Initializer, error) {
	if !strings.HasSuffix(trimmed, "}") {
		return deduction.Initializer{}, &ParseError{Input: input, Msg: "unterminated brace list", Offset: len(input) - 1}
	}

	body := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	init := deduction.Initializer{Shape: deduction.BraceList(), Category: deduction.Rvalue}
	if body == "" {
		return init, nil
	}

	for _, raw := range splitTopLevel(body) {
		elem := strings.TrimSpace(raw)
		if elem == "" {
			return deduction.Initializer{}, &ParseError{Input: input, Msg: "empty brace-list element"}
		}
		if elem[0] == '{' {
			return deduction.Initializer{}, &ParseError{Input: input, Msg: "nested brace lists are not supported"}
		}
		lit, ok := classifyLiteral(elem)
		if !ok {
			return deduction.Initializer{}, &ParseError{Input: input, Msg: fmt.Sprintf("brace-list element %q is not a literal", elem)}
		}
		init.Shape.Elems = append(init.Shape.Elems, elementTag(lit))
	}

	return init, nil
}

// elementTag renders a literal's type as a brace-list element tag. String
// literals decay to const char* inside a list.
func elementTag(lit deduction.Initializer) string {
	if lit.Shape.Kind == deduction.ShapeArray && lit.Base == "char" {
		return "const char*"
	}

	return lit.Base
}

// splitTopLevel splits on commas that are not nested in quotes.
func splitTopLevel(s string) []string {
	var (
		parts   []string
		start   int
		inQuote rune
	)
	for i, r := range s {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			}
		case r == '"' || r == '\'':
			inQuote = r
		case r == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// classifyLiteral recognizes the literal kinds the teaching examples use and
// returns the corresponding initializer record.
func classifyLiteral(s string) (deduction.Initializer, bool) {
	switch {
	case s == "true" || s == "false":
		return deduction.Initializer{Base: "bool", Shape: deduction.Scalar(), Category: deduction.Rvalue}, true
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		return deduction.Initializer{Base: "char", Shape: deduction.Scalar(), Category: deduction.Rvalue}, true
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		// A string literal is a const char array lvalue, NUL included:
		// "J. P. Briggs" has type const char[13].
		return deduction.Initializer{
			Base:     "char",
			Shape:    deduction.Array(len(s) - 1),
			Quals:    deduction.QualConst,
			Category: deduction.Lvalue,
		}, true
	}

	if !isNumeric(s) {
		return deduction.Initializer{}, false
	}

	base := "int"
	switch {
	case strings.HasSuffix(s, "f") || strings.HasSuffix(s, "F"):
		base = "float"
	case strings.ContainsAny(s, ".eE"):
		base = "double"
	case strings.HasSuffix(s, "u") || strings.HasSuffix(s, "U"):
		base = "unsigned int"
	case strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L"):
		base = "long"
	}

	return deduction.Initializer{Base: base, Shape: deduction.Scalar(), Category: deduction.Rvalue}, true
}

func isNumeric(s string) bool {
	body := strings.TrimRight(s, "fFuUlL")
	if body == "" {
		return false
	}
	if _, err := strconv.ParseFloat(body, 64); err != nil {
		return false
	}

	return true
}

// parseTypeSpelling parses qualifier words, a base name, and the suffix
// chain ([N], (params), *, trailing const, & / &&).
func parseTypeSpelling(input, trimmed string) (deduction.Initializer, error) {
	p := &parser{input: input, src: trimmed}

	init := deduction.Initializer{Shape: deduction.Scalar()}

	quals, err := p.qualifierWords()
	if err != nil {
		return deduction.Initializer{}, err
	}
	init.Quals = quals

	base, err := p.baseName()
	if err != nil {
		return deduction.Initializer{}, err
	}
	init.Base = base

	if err := p.suffixes(&init); err != nil {
		return deduction.Initializer{}, err
	}
	if rest := strings.TrimSpace(p.rest()); rest != "" {
		return deduction.Initializer{}, &ParseError{Input: input, Msg: fmt.Sprintf("trailing input %q", rest), Offset: p.pos}
	}

	switch init.Ref {
	case deduction.RefRvalue:
		init.Category = deduction.Rvalue
	default:
		// Named variables and lvalue references are lvalues.
		init.Category = deduction.Lvalue
	}

	return init, nil
}

type parser struct {
	input string
	src   string
	pos   int
}

func (p *parser) rest() string { return p.src[p.pos:] }

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

// word consumes an identifier-like run; empty if the next byte is not one.
func (p *parser) word() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}

	return p.src[start:p.pos]
}

func (p *parser) qualifierWords() (deduction.Qualifiers, error) {
	var quals deduction.Qualifiers
	for {
		p.skipSpace()
		mark := p.pos
		switch p.word() {
		case "const":
			quals |= deduction.QualConst
		case "volatile":
			quals |= deduction.QualVolatile
		default:
			p.pos = mark

			return quals, nil
		}
	}
}

// baseName consumes the base type tag, allowing multiword names such as
// "unsigned int" or "long long".
func (p *parser) baseName() (string, error) {
	p.skipSpace()

	var words []string
	for {
		mark := p.pos
		w := p.word()
		if w == "" || w == "const" || w == "volatile" {
			p.pos = mark
			break
		}
		words = append(words, w)
		p.skipSpace()
	}
	if len(words) == 0 {
		return "", &ParseError{Input: p.input, Msg: "missing base type name", Offset: p.pos}
	}

	return strings.Join(words, " "), nil
}

func (p *parser) suffixes(init *deduction.Initializer) error {
	for {
		p.skipSpace()
		switch p.peek() {
		case '[':
			if init.Shape.Kind != deduction.ShapeScalar {
				return &ParseError{Input: p.input, Msg: "unexpected array suffix", Offset: p.pos}
			}
			n, err := p.arrayLen()
			if err != nil {
				return err
			}
			init.Shape = deduction.Array(n)
		case '(':
			if init.Shape.Kind != deduction.ShapeScalar {
				return &ParseError{Input: p.input, Msg: "unexpected parameter list", Offset: p.pos}
			}
			params, err := p.paramList()
			if err != nil {
				return err
			}
			init.Shape = deduction.Function(init.Base + "(" + params + ")")
		case '*':
			if init.Shape.Kind == deduction.ShapePointer {
				return &ParseError{Input: p.input, Msg: "multi-level pointers are not supported", Offset: p.pos}
			}
			p.pos++
			// The qualifiers seen so far belong to the pointee; qualifier
			// words after the star qualify the pointer itself.
			init.Shape = deduction.PointerShape(init.Quals)
			quals, err := p.qualifierWords()
			if err != nil {
				return err
			}
			init.Quals = quals
		case '&':
			p.pos++
			init.Ref = deduction.RefLvalue
			if p.peek() == '&' {
				p.pos++
				init.Ref = deduction.RefRvalue
			}
			p.skipSpace()
			if p.pos != len(p.src) {
				return &ParseError{Input: p.input, Msg: "reference must be the last suffix", Offset: p.pos}
			}

			return nil
		default:
			return nil
		}
	}
}

func (p *parser) arrayLen() (int, error) {
	p.pos++ // consume '['
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ']' {
		p.pos++
	}
	if p.pos == len(p.src) {
		return 0, &ParseError{Input: p.input, Msg: "unterminated array suffix", Offset: start}
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.src[start:p.pos]))
	if err != nil || n < 0 {
		return 0, &ParseError{Input: p.input, Msg: "invalid array length", Offset: start}
	}
	p.pos++ // consume ']'

	return n, nil
}

func (p *parser) paramList() (string, error) {
	p.pos++ // consume '('
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ')' {
		p.pos++
	}
	if p.pos == len(p.src) {
		return "", &ParseError{Input: p.input, Msg: "unterminated parameter list", Offset: start}
	}
	raw := p.src[start:p.pos]
	p.pos++ // consume ')'

	var params []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			params = append(params, canonicalForm(part))
		}
	}

	return strings.Join(params, ","), nil
}
