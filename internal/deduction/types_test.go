package deduction

import (
	"testing"
)

func TestQualifiers(t *testing.T) {
	tests := []struct {
		want  string
		quals Qualifiers
	}{
		{"", 0},
		{"const", QualConst},
		{"volatile", QualVolatile},
		{"const volatile", QualConst | QualVolatile},
	}

	for _, tt := range tests {
		if got := tt.quals.String(); got != tt.want {
			t.Errorf("Qualifiers(%d).String() = %q, want %q", tt.quals, got, tt.want)
		}
	}

	if !(QualConst | QualVolatile).Const() || !(QualConst | QualVolatile).Volatile() {
		t.Error("combined qualifiers lost a flag")
	}
}

func TestDeclaredFormSpellings(t *testing.T) {
	spellings := map[DeclaredForm]string{
		ByValue:            "T",
		ConstLvalueRef:     "const T&",
		UniversalRef:       "T&&",
		ConstPointer:       "const T*",
		AutoConstLvalueRef: "const auto&",
		AutoBraced:         "auto{}",
		DecltypeAuto:       "decltype(auto)",
	}

	for form, want := range spellings {
		if got := form.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(form), got, want)
		}
		if !form.Valid() {
			t.Errorf("%s unexpectedly invalid", want)
		}
	}

	if DeclaredForm(99).Valid() {
		t.Error("out-of-range form reported valid")
	}
}

func TestShapeEqual(t *testing.T) {
	if !BraceList("int", "int").Equal(BraceList("int", "int")) {
		t.Error("equal brace lists compared unequal")
	}
	if BraceList("int").Equal(BraceList("double")) {
		t.Error("different brace lists compared equal")
	}
	if Array(13).Equal(Array(12)) {
		t.Error("arrays of different extents compared equal")
	}
	if PointerShape(QualConst).Equal(PointerShape(0)) {
		t.Error("pointers with different pointee qualifiers compared equal")
	}
	if Function("void(int)").Equal(Function("void(double)")) {
		t.Error("functions with different signatures compared equal")
	}
}

func TestDeducedTypeEqual(t *testing.T) {
	a := DeducedType{Base: "int", Shape: Scalar(), Quals: QualConst, Ref: RefLvalue}
	b := a
	if !a.Equal(b) {
		t.Error("identical deduced types compared unequal")
	}
	b.Ref = RefRvalue
	if a.Equal(b) {
		t.Error("deduced types with different reference-ness compared equal")
	}

	seq := DeducedType{Sequence: true, Elem: "int"}
	if seq.Equal(DeducedType{Sequence: true, Elem: "double"}) {
		t.Error("sequences of different element types compared equal")
	}
}
