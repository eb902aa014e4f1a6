// Package deduction implements a symbolic evaluator for the C++11/14
// type-deduction rule set: template parameter deduction, auto deduction,
// universal references, brace-list deduction, and decltype(auto).
//
// Deduction is a pure function of (DeclaredForm, Initializer). All records
// are immutable values constructed per query; the package holds no state and
// is safe for concurrent callers.
package deduction

import (
	"fmt"
	"strings"
)

// RulesetVersion is the semantic version of the rule table. The 1.0 table
// covers the C++11 forms; 1.1 added the DecltypeAuto form.
const RulesetVersion = "1.1.0"

// ValueCategory classifies an initializer expression as an identifiable
// location (lvalue) or a temporary (rvalue).
type ValueCategory uint8

const (
	Lvalue ValueCategory = iota
	Rvalue
)

// String returns a string representation of the value category.
func (vc ValueCategory) String() string {
	switch vc {
	case Lvalue:
		return "lvalue"
	case Rvalue:
		return "rvalue"
	default:
		return "unknown"
	}
}

// Qualifiers is the const/volatile qualifier set of a type.
type Qualifiers uint8

const (
	QualConst Qualifiers = 1 << iota
	QualVolatile
)

// Const reports whether the const qualifier is set.
func (q Qualifiers) Const() bool { return q&QualConst != 0 }

// Volatile reports whether the volatile qualifier is set.
func (q Qualifiers) Volatile() bool { return q&QualVolatile != 0 }

func (q Qualifiers) String() string {
	var parts []string
	if q.Const() {
		parts = append(parts, "const")
	}
	if q.Volatile() {
		parts = append(parts, "volatile")
	}

	return strings.Join(parts, " ")
}

// RefKind is the reference-ness of a type: none, lvalue reference, or
// rvalue reference.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefLvalue
	RefRvalue
)

// String returns a string representation of the reference kind.
func (rk RefKind) String() string {
	switch rk {
	case RefNone:
		return "none"
	case RefLvalue:
		return "lvalue-ref"
	case RefRvalue:
		return "rvalue-ref"
	default:
		return "unknown"
	}
}

// ShapeKind discriminates the structural shape of an initializer's type.
type ShapeKind uint8

const (
	ShapeScalar ShapeKind = iota
	ShapeArray
	ShapeFunction
	ShapePointer
	ShapeBraceList
)

// String returns a string representation of the shape kind.
func (sk ShapeKind) String() string {
	switch sk {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeFunction:
		return "function"
	case ShapePointer:
		return "pointer"
	case ShapeBraceList:
		return "brace-list"
	default:
		return "unknown"
	}
}

// Shape describes the structural shape of a type. Only the fields relevant
// to the Kind are populated.
type Shape struct {
	// Signature is the full function signature for ShapeFunction, and for
	// ShapePointer marks a pointer-to-function (result of function decay).
	Signature string
	// Elems holds the element type tags of a ShapeBraceList.
	Elems []string
	// Len is the element count of a ShapeArray.
	Len int
	// PointeeQuals are the qualifiers of the pointed-to object for
	// ShapePointer. Array decay moves the element qualifiers here.
	PointeeQuals Qualifiers
	Kind         ShapeKind
}

// Equal reports structural equality of two shapes.
func (s Shape) Equal(other Shape) bool {
	if s.Kind != other.Kind || s.Len != other.Len ||
		s.Signature != other.Signature || s.PointeeQuals != other.PointeeQuals {
		return false
	}
	if len(s.Elems) != len(other.Elems) {
		return false
	}
	for i := range s.Elems {
		if s.Elems[i] != other.Elems[i] {
			return false
		}
	}

	return true
}

// Scalar is a convenience constructor for a scalar shape.
func Scalar() Shape { return Shape{Kind: ShapeScalar} }

// Array is a convenience constructor for an array shape of n elements.
func Array(n int) Shape { return Shape{Kind: ShapeArray, Len: n} }

// Function is a convenience constructor for a function shape.
func Function(signature string) Shape {
	return Shape{Kind: ShapeFunction, Signature: signature}
}

// PointerShape is a convenience constructor for a pointer shape.
func PointerShape(pointeeQuals Qualifiers) Shape {
	return Shape{Kind: ShapePointer, PointeeQuals: pointeeQuals}
}

// BraceList is a convenience constructor for a brace-enclosed list shape
// whose elements have the given type tags.
func BraceList(elems ...string) Shape {
	return Shape{Kind: ShapeBraceList, Elems: elems}
}

// Initializer is the symbolic description of an initializing expression:
// its base type tag, structural shape, qualifiers, declared reference-ness,
// and value category.
//
// Ref models the reference-ness of the initializer's declared type, which is
// distinct from its value category: a variable declared `const int& rx` is an
// lvalue whose type carries an lvalue reference, while the result of
// `std::move(x)` is an rvalue whose type carries an rvalue reference.
type Initializer struct {
	// Base is the underlying type tag, e.g. "int", "double", "Widget".
	Base     string
	Shape    Shape
	Quals    Qualifiers
	Ref      RefKind
	Category ValueCategory
}

func (init Initializer) String() string {
	var sb strings.Builder
	if q := init.Quals.String(); q != "" {
		sb.WriteString(q)
		sb.WriteByte(' ')
	}
	sb.WriteString(init.Base)
	sb.WriteString(" [" + init.Shape.Kind.String())
	if init.Ref != RefNone {
		sb.WriteString(", " + init.Ref.String())
	}
	sb.WriteString(", " + init.Category.String() + "]")

	return sb.String()
}

// DeclaredForm is the binding shape a deduction is performed against. The
// set is closed by design: the rule table is fixed and exhaustive, so new
// forms must extend the evaluator's dispatch, not subclass it.
type DeclaredForm int

const (
	// ByValue is the plain template parameter form, f(T param).
	ByValue DeclaredForm = iota
	// LvalueRef is f(T& param).
	LvalueRef
	// ConstLvalueRef is f(const T& param).
	ConstLvalueRef
	// UniversalRef is f(T&& param) with T deduced.
	UniversalRef
	// Pointer is f(T* param).
	Pointer
	// ConstPointer is f(const T* param).
	ConstPointer
	// AutoPlain is `auto x = expr`.
	AutoPlain
	// AutoLvalueRef is `auto& x = expr`.
	AutoLvalueRef
	// AutoConstLvalueRef is `const auto& x = expr`.
	AutoConstLvalueRef
	// AutoUniversalRef is `auto&& x = expr`.
	AutoUniversalRef
	// AutoBraced is direct brace initialization, `auto x{...}`.
	AutoBraced
	// DecltypeAuto is `decltype(auto) x = expr`.
	DecltypeAuto
)

var formNames = map[DeclaredForm]string{
	ByValue:            "T",
	LvalueRef:          "T&",
	ConstLvalueRef:     "const T&",
	UniversalRef:       "T&&",
	Pointer:            "T*",
	ConstPointer:       "const T*",
	AutoPlain:          "auto",
	AutoLvalueRef:      "auto&",
	AutoConstLvalueRef: "const auto&",
	AutoUniversalRef:   "auto&&",
	AutoBraced:         "auto{}",
	DecltypeAuto:       "decltype(auto)",
}

// String returns the canonical spelling of the declared form.
func (df DeclaredForm) String() string {
	if name, ok := formNames[df]; ok {
		return name
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(df))
}

// Valid reports whether df is one of the twelve known forms.
func (df DeclaredForm) Valid() bool {
	_, ok := formNames[df]

	return ok
}

// DeducedType is the result of a deduction: base type tag, shape after any
// decay, reference-ness, qualifiers, and — for brace-list deductions — the
// homogeneous-sequence marker with the common element type.
type DeducedType struct {
	Base  string
	Elem  string
	Shape Shape
	Ref   RefKind
	Quals Qualifiers
	// Sequence marks that deduction targeted a homogeneous-sequence type
	// (std::initializer_list<Elem> in the modeled language).
	Sequence bool
}

// Equal reports structural equality of two deduced types.
func (dt DeducedType) Equal(other DeducedType) bool {
	return dt.Base == other.Base &&
		dt.Elem == other.Elem &&
		dt.Ref == other.Ref &&
		dt.Quals == other.Quals &&
		dt.Sequence == other.Sequence &&
		dt.Shape.Equal(other.Shape)
}

func (dt DeducedType) String() string {
	var sb strings.Builder
	if q := dt.Quals.String(); q != "" {
		sb.WriteString(q)
		sb.WriteByte(' ')
	}
	if dt.Sequence {
		sb.WriteString("sequence<" + dt.Elem + ">")
	} else {
		sb.WriteString(dt.Base)
		sb.WriteString(" [" + dt.Shape.Kind.String() + "]")
	}
	if dt.Ref != RefNone {
		sb.WriteString(" " + dt.Ref.String())
	}

	return sb.String()
}
