package spelling

import (
	"fmt"
	"strings"

	"github.com/deduce-tools/deduce/internal/deduction"
)

// Print renders a deduction result as a C++-like spelling, e.g.
// "const int&", "char(&)[13]", "void(*)(int,double)",
// "const initializer_list<int>&".
func Print(dt deduction.DeducedType) string {
	if dt.Sequence {
		return withQuals(dt.Quals, "initializer_list<"+dt.Elem+">") + refSuffix(dt.Ref)
	}

	switch dt.Shape.Kind {
	case deduction.ShapeArray:
		core := withQuals(dt.Quals, dt.Base)
		if dt.Ref != deduction.RefNone {
			return fmt.Sprintf("%s(%s)[%d]", core, refSuffix(dt.Ref), dt.Shape.Len)
		}

		return fmt.Sprintf("%s[%d]", core, dt.Shape.Len)
	case deduction.ShapeFunction:
		if dt.Ref != deduction.RefNone {
			return insertDeclarator(dt.Shape.Signature, refSuffix(dt.Ref))
		}

		return dt.Shape.Signature
	case deduction.ShapePointer:
		if dt.Shape.Signature != "" {
			return insertDeclarator(dt.Shape.Signature, "*") + refSuffix(dt.Ref)
		}
		core := withQuals(dt.Shape.PointeeQuals, dt.Base) + "*"
		if q := dt.Quals.String(); q != "" {
			core += " " + q
		}

		return core + refSuffix(dt.Ref)
	default:
		return withQuals(dt.Quals, dt.Base) + refSuffix(dt.Ref)
	}
}

// insertDeclarator turns a plain signature "ret(params)" into a declarator
// form such as "ret(*)(params)" or "ret(&)(params)".
func insertDeclarator(signature, decl string) string {
	i := strings.IndexByte(signature, '(')
	if i < 0 {
		return signature + decl
	}

	return signature[:i] + "(" + decl + ")" + signature[i:]
}

func withQuals(q deduction.Qualifiers, core string) string {
	if s := q.String(); s != "" {
		return s + " " + core
	}

	return core
}

func refSuffix(r deduction.RefKind) string {
	switch r {
	case deduction.RefLvalue:
		return "&"
	case deduction.RefRvalue:
		return "&&"
	default:
		return ""
	}
}
