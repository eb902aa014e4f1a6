package deduction

import (
	"fmt"
)

// Step records one rule application during a traced deduction.
type Step struct {
	Action string
	Detail string
}

func (s Step) String() string {
	if s.Detail == "" {
		return s.Action
	}

	return s.Action + ": " + s.Detail
}

// Config controls engine behavior.
type Config struct {
	// Trace enables step recording on DeduceTrace. Deduce ignores it.
	Trace bool
}

// Engine evaluates the deduction rule table. The zero value is usable; the
// engine carries configuration only and no per-query state, so a single
// instance may serve concurrent callers.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Deduce evaluates the rule for form against init and returns the deduced
// type. The only returned error is *AmbiguousInitializerListError. Invalid
// (form, shape) combinations — AutoBraced without a brace list, pointer forms
// with a non-pointer-compatible initializer, template forms over brace
// lists — are caller contract violations and panic.
func Deduce(form DeclaredForm, init Initializer) (DeducedType, error) {
	dt, _, err := deduce(form, init, nil)

	return dt, err
}

// Deduce evaluates the rule for form against init. See the package-level
// Deduce for the contract.
func (e *Engine) Deduce(form DeclaredForm, init Initializer) (DeducedType, error) {
	dt, _, err := deduce(form, init, nil)

	return dt, err
}

// DeduceTrace is Deduce plus the ordered rule steps that produced the
// result. Tracing must be enabled in the engine configuration; otherwise the
// step slice is nil.
func (e *Engine) DeduceTrace(form DeclaredForm, init Initializer) (DeducedType, []Step, error) {
	if !e.config.Trace {
		dt, err := e.Deduce(form, init)

		return dt, nil, err
	}

	tr := &trace{}
	dt, steps, err := deduce(form, init, tr)

	return dt, steps, err
}

// trace accumulates steps for one deduction. A nil *trace disables recording.
type trace struct {
	steps []Step
}

func (t *trace) step(action, detail string) {
	if t == nil {
		return
	}
	t.steps = append(t.steps, Step{Action: action, Detail: detail})
}

func (t *trace) collected() []Step {
	if t == nil {
		return nil
	}

	return t.steps
}

// deduce dispatches over the closed form set. Each case implements one rule
// of the fixed table; the default arm is unreachable for valid forms.
func deduce(form DeclaredForm, init Initializer, tr *trace) (DeducedType, []Step, error) {
	var (
		dt  DeducedType
		err error
	)

	switch form {
	case ByValue:
		dt = deduceByValue(init, tr)
	case LvalueRef:
		dt = deduceLvalueRef(init, false, tr)
	case ConstLvalueRef:
		dt = deduceLvalueRef(init, true, tr)
	case UniversalRef:
		dt = deduceUniversalRef(init, tr)
	case Pointer:
		dt = deducePointer(init, false, tr)
	case ConstPointer:
		dt = deducePointer(init, true, tr)
	case AutoPlain:
		if init.Shape.Kind == ShapeBraceList {
			dt, err = deduceSequence(init, RefNone, 0, tr)
		} else {
			dt = deduceByValue(init, tr)
		}
	case AutoLvalueRef:
		if init.Shape.Kind == ShapeBraceList {
			dt, err = deduceSequence(init, RefLvalue, 0, tr)
		} else {
			dt = deduceLvalueRef(init, false, tr)
		}
	case AutoConstLvalueRef:
		if init.Shape.Kind == ShapeBraceList {
			dt, err = deduceSequence(init, RefLvalue, QualConst, tr)
		} else {
			dt = deduceLvalueRef(init, true, tr)
		}
	case AutoUniversalRef:
		if init.Shape.Kind == ShapeBraceList {
			ref := RefRvalue
			if init.Category == Lvalue {
				ref = RefLvalue
			}
			dt, err = deduceSequence(init, ref, 0, tr)
		} else {
			dt = deduceUniversalRef(init, tr)
		}
	case AutoBraced:
		if init.Shape.Kind != ShapeBraceList {
			panic(fmt.Sprintf("deduction: auto{} form requires a brace-list initializer, got %s", init.Shape.Kind))
		}
		dt, err = deduceSequence(init, RefNone, 0, tr)
	case DecltypeAuto:
		dt = deduceDecltypeAuto(init, tr)
	default:
		panic(fmt.Sprintf("deduction: unknown declared form %d", int(form)))
	}

	return dt, tr.collected(), err
}

// deduceByValue implements rule 1: strip reference-ness, strip top-level
// qualifiers, decay arrays and functions to pointers.
func deduceByValue(init Initializer, tr *trace) DeducedType {
	if init.Shape.Kind == ShapeBraceList {
		panic("deduction: template by-value form cannot deduce from a brace-list initializer")
	}

	dt := DeducedType{Base: init.Base, Shape: init.Shape, Quals: init.Quals}
	if init.Ref != RefNone {
		tr.step("strip-reference", "discarded "+init.Ref.String())
	}
	dt.Ref = RefNone

	if dt.Quals != 0 {
		// Array qualifiers are element qualifiers; decay moves them onto
		// the pointee rather than discarding them.
		if dt.Shape.Kind != ShapeArray {
			tr.step("strip-qualifiers", "discarded "+dt.Quals.String())
		}
		dt.Quals = 0
	}

	dt.Shape = decay(dt.Shape, init.Quals, tr)

	return dt
}

// deduceLvalueRef implements rule 2: strip the initializer's reference-ness,
// preserve its qualifiers, and wrap the full type — arrays and functions do
// not decay — in an lvalue reference. forceConst models the const T& form.
func deduceLvalueRef(init Initializer, forceConst bool, tr *trace) DeducedType {
	if init.Shape.Kind == ShapeBraceList {
		panic("deduction: template reference form cannot deduce from a brace-list initializer")
	}

	dt := DeducedType{Base: init.Base, Shape: init.Shape, Quals: init.Quals}
	if init.Ref != RefNone {
		tr.step("strip-reference", "discarded "+init.Ref.String())
	}
	if forceConst && !dt.Quals.Const() {
		tr.step("force-const", "reference-to-const binding")
		dt.Quals |= QualConst
	}
	dt.Ref = RefLvalue
	tr.step("bind-reference", "lvalue reference, no decay")

	return dt
}

// deduceUniversalRef implements rule 3: an lvalue initializer yields an
// lvalue reference to its full type with qualifiers intact; an rvalue
// initializer follows the by-value pattern match with the result wrapped in
// an rvalue reference.
func deduceUniversalRef(init Initializer, tr *trace) DeducedType {
	if init.Shape.Kind == ShapeBraceList {
		panic("deduction: template universal-reference form cannot deduce from a brace-list initializer")
	}

	if init.Category == Lvalue {
		dt := DeducedType{Base: init.Base, Shape: init.Shape, Quals: init.Quals, Ref: RefLvalue}
		tr.step("collapse-reference", "lvalue initializer, collapsed to lvalue reference")

		return dt
	}

	tr.step("collapse-reference", "rvalue initializer, rvalue reference over by-value match")
	dt := deduceByValue(init, tr)
	dt.Ref = RefRvalue

	return dt
}

// deducePointer implements rule 4: the initializer must be
// pointer-compatible; pointed-to qualifiers are preserved, the pointer's own
// qualifiers are dropped. forceConst models the const T* form.
func deducePointer(init Initializer, forceConst bool, tr *trace) DeducedType {
	switch init.Shape.Kind {
	case ShapePointer, ShapeArray, ShapeFunction:
	default:
		panic(fmt.Sprintf("deduction: pointer form requires a pointer-compatible initializer, got %s", init.Shape.Kind))
	}

	dt := DeducedType{Base: init.Base, Shape: decay(init.Shape, init.Quals, tr)}
	if init.Ref != RefNone {
		tr.step("strip-reference", "discarded "+init.Ref.String())
	}
	if init.Quals != 0 && init.Shape.Kind == ShapePointer {
		tr.step("strip-qualifiers", "discarded pointer's own "+init.Quals.String())
	}
	if forceConst && !dt.Shape.PointeeQuals.Const() {
		tr.step("force-const", "pointer-to-const binding")
		dt.Shape.PointeeQuals |= QualConst
	}

	return dt
}

// deduceSequence implements the brace-list special case of rules 5 and 6:
// deduction targets a homogeneous-sequence type parameterized by the common
// element type, and fails when no single common type exists.
func deduceSequence(init Initializer, ref RefKind, forced Qualifiers, tr *trace) (DeducedType, error) {
	elems := init.Shape.Elems
	if len(elems) == 0 {
		tr.step("sequence-deduction", "empty brace list")

		return DeducedType{}, &AmbiguousInitializerListError{}
	}

	common := elems[0]
	for _, e := range elems[1:] {
		if e != common {
			tr.step("sequence-deduction", "no common element type")

			return DeducedType{}, &AmbiguousInitializerListError{Elems: elems}
		}
	}
	tr.step("sequence-deduction", "common element type "+common)

	return DeducedType{Sequence: true, Elem: common, Ref: ref, Quals: forced}, nil
}

// deduceDecltypeAuto implements rule 7: the initializer's exact type,
// qualifiers, and reference-ness are reproduced verbatim with no stripping
// and no decay.
func deduceDecltypeAuto(init Initializer, tr *trace) DeducedType {
	tr.step("preserve-exact", "decltype rules, no stripping, no decay")

	return DeducedType{Base: init.Base, Shape: init.Shape, Quals: init.Quals, Ref: init.Ref}
}

// decay reduces array and function shapes to pointer shapes. The element
// qualifiers of a decayed array move onto the pointee; other shapes pass
// through unchanged.
func decay(s Shape, elemQuals Qualifiers, tr *trace) Shape {
	switch s.Kind {
	case ShapeArray:
		tr.step("decay", fmt.Sprintf("array of %d decayed to pointer to element", s.Len))

		return Shape{Kind: ShapePointer, PointeeQuals: elemQuals}
	case ShapeFunction:
		tr.step("decay", "function decayed to pointer to function")

		return Shape{Kind: ShapePointer, Signature: s.Signature}
	default:
		return s
	}
}
