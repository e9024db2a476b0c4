package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const eps = 1e-12

func TestRotationComposition(t *testing.T) {
	r := Identity().RotateX(math.Pi / 2).RotateZ(math.Pi / 2)
	// x first, then z: y -> z -> z
	got := r.Apply(Vec3(0, 1, 0))
	if !got.ApproxEqual(Vec3(0, 0, 1), eps) {
		t.Fatalf("apply = %s", got)
	}
	if !r.Mul(r.Inverse()).IsIdentity() {
		t.Fatalf("r * r^-1 is not the identity: %s", r.Mul(r.Inverse()))
	}
	if r.ApproxEqual(Identity(), 1e-6) {
		t.Fatalf("rotation compared equal to identity")
	}
}

func TestTransformMulAppliesRightOperandFirst(t *testing.T) {
	shift := Translate(Vec3(10, 0, 0))
	turn := Rotate(RotationZ(math.Pi / 2))

	p := shift.Mul(turn).Apply(Vec3(1, 0, 0))
	if !p.ApproxEqual(Vec3(10, 1, 0), eps) {
		t.Fatalf("shift*turn = %s", p)
	}
	p = turn.Mul(shift).Apply(Vec3(1, 0, 0))
	if !p.ApproxEqual(Vec3(0, 11, 0), eps) {
		t.Fatalf("turn*shift = %s", p)
	}

	tr := shift.Mul(turn)
	back := tr.Inverse().Apply(tr.Apply(Vec3(3, -2, 5)))
	if !back.ApproxEqual(Vec3(3, -2, 5), eps) {
		t.Fatalf("inverse round trip = %s", back)
	}
	if !tr.Mul(tr.Inverse()).ApproxEqual(IdentityTransform(), eps) {
		t.Fatalf("t * t^-1 is not the identity")
	}
}

func TestVectorHelpers(t *testing.T) {
	v := Vec3(1, 2, 3)
	if got := v.Add(Vec3(1, 1, 1)).Sub(Vec3(0, 1, 0)).Scale(2).Neg(); got != Vec3(-4, -4, -8) {
		t.Fatalf("arithmetic = %s", got)
	}
	if v.Component(0) != 1 || v.Component(1) != 2 || v.Component(2) != 3 {
		t.Fatalf("component access broken")
	}
	if v.String() != "(1,2,3)" {
		t.Fatalf("string = %s", v)
	}
}

func TestVolumeSpecHelpers(t *testing.T) {
	spec := VolumeSpec{
		Name:        "paddle",
		Description: "ftof paddle cadImported",
		Dimensions:  []float64{1, 2, 3},
		Identity:    []Identifier{{Name: "paddle", Rule: "manual", ID: 1}},
		Sensitivity: "ftof",
	}
	spec.ImportFlags = ImportFlagsFromDescription(spec.Description)
	if !spec.Imported() || spec.ImportFlags != ImportCAD {
		t.Fatalf("import flags = %v", spec.ImportFlags)
	}
	if !spec.Sensitive() {
		t.Fatalf("expected sensitive volume")
	}
	if (VolumeSpec{Sensitivity: "no"}).Sensitive() {
		t.Fatalf("sensitivity no is not sensitive")
	}

	clone := spec.Clone()
	clone.Dimensions[0] = 99
	clone.Identity[0].ID = 7
	if spec.Dimensions[0] != 1 || spec.Identity[0].ID != 1 {
		t.Fatalf("clone shares slices with the original")
	}

	for material, want := range map[string]bool{MaterialComponent: true, MaterialOfReplica: true, "G4_AIR": false} {
		if got := (VolumeSpec{Material: material}).IsTemplateOnly(); got != want {
			t.Fatalf("IsTemplateOnly(%s) = %v", material, got)
		}
	}
	if ImportFlagsFromDescription("gdmlParsed and cadImported") != ImportGDML|ImportCAD {
		t.Fatalf("both markers should be detected")
	}
}

func TestBuildErrorsAreFatal(t *testing.T) {
	errs := []error{
		ErrUnresolvedReference{Volume: "a", Reference: "b", Role: "mother"},
		ErrMalformedOperation{Volume: "a", Token: "x"},
		ErrUnresolvedMaterial{Volume: "a", Material: "m"},
		ErrReplicaParameters{Volume: "a", Params: []float64{1}, Reason: "too few"},
		ErrUnrecognizedType{Volume: "a", Type: "Blob"},
		ErrUnbuiltSolid{Volume: "a"},
		ErrOverlap{Volume: "a", Other: "b"},
		ErrDependencyCycle{Names: []string{"a", "b", "a"}},
		ErrDuplicateVolume{Name: "a"},
	}
	for _, err := range errs {
		if !errors.Is(err, ErrFatal) {
			t.Fatalf("%T is not fatal", err)
		}
	}

	msg := ErrReplicaParameters{Volume: "cell", Params: []float64{3, 12}, Reason: "expected 4 parameters"}.Error()
	if !strings.Contains(msg, "parameter 2: 12") {
		t.Fatalf("replica error lists parameters: %q", msg)
	}
	cause := errors.New("no such kind")
	if !errors.Is(ErrUnrecognizedType{Volume: "a", Type: "Blob", Cause: cause}, cause) {
		t.Fatalf("unrecognized type must unwrap its cause")
	}
	if got := (ErrUnresolvedMaterial{Volume: "a", Material: "G4_X", Default: true}).Error(); !strings.Contains(got, "default material G4_X") {
		t.Fatalf("default material message = %q", got)
	}
}

func TestMaterialRecordCloneWithConstituents(t *testing.T) {
	rec := MaterialRecord{Name: "scintillator", Density: 1.032, Components: []MaterialConstituent{{Name: "G4_C", Fraction: 0.915}, {Name: "G4_H", Fraction: 0.085}}}
	clone := rec.Clone()
	clone.Components[0].Fraction = 1
	if rec.Components[0].Fraction != 0.915 {
		t.Fatalf("clone shares constituents with the original")
	}
	if (VolumeSpec{Material: MaterialComponent}).IsTemplateOnly() != true {
		t.Fatalf("the Component material marker must stay distinct from material constituents")
	}
	if got := GeometryKey("ftof", "default"); got != "ftof/default" {
		t.Fatalf("geometry key = %q", got)
	}
}
