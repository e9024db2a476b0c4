package domain

import (
	"fmt"
	"math"
)

// Tolerance is the absolute tolerance used when comparing lengths (mm) and matrix entries.
const Tolerance = 1e-9

// Vector3 is a point or displacement in millimetres.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec3 is shorthand for building a Vector3.
func Vec3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vector3) Scale(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }

func (v Vector3) Neg() Vector3 { return Vector3{-v.X, -v.Y, -v.Z} }

// Component returns the coordinate along axis 0, 1 or 2.
func (v Vector3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// ApproxEqual reports whether every coordinate differs by at most tol.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Rotation is a row-major 3x3 orthonormal matrix.
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotationX returns the matrix of an active rotation by angle (radians) about X.
func RotationX(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

// RotationY returns the matrix of an active rotation by angle (radians) about Y.
func RotationY(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// RotationZ returns the matrix of an active rotation by angle (radians) about Z.
func RotationZ(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// RotateX composes a rotation about X after r, i.e. RotationX(angle)·r.
func (r Rotation) RotateX(angle float64) Rotation { return RotationX(angle).Mul(r) }

// RotateY composes a rotation about Y after r.
func (r Rotation) RotateY(angle float64) Rotation { return RotationY(angle).Mul(r) }

// RotateZ composes a rotation about Z after r.
func (r Rotation) RotateZ(angle float64) Rotation { return RotationZ(angle).Mul(r) }

// Mul returns the matrix product r·o.
func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][0]*o[0][j] + r[i][1]*o[1][j] + r[i][2]*o[2][j]
		}
	}
	return out
}

// Inverse returns the inverse rotation, which for an orthonormal matrix is its transpose.
func (r Rotation) Inverse() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Apply rotates v.
func (r Rotation) Apply(v Vector3) Vector3 {
	return Vector3{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// IsIdentity reports whether r is the identity within Tolerance.
func (r Rotation) IsIdentity() bool {
	return r.ApproxEqual(Identity(), Tolerance)
}

// ApproxEqual compares two rotations entry by entry.
func (r Rotation) ApproxEqual(o Rotation, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(r[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func (r Rotation) String() string {
	return fmt.Sprintf("[ %g %g %g | %g %g %g | %g %g %g ]",
		r[0][0], r[0][1], r[0][2],
		r[1][0], r[1][1], r[1][2],
		r[2][0], r[2][1], r[2][2])
}

// Transform3D maps a point p to Rot·p + Trans.
type Transform3D struct {
	Rot   Rotation `json:"rot"`
	Trans Vector3  `json:"trans"`
}

// IdentityTransform returns the transform that leaves every point in place.
func IdentityTransform() Transform3D { return Transform3D{Rot: Identity()} }

// Translate returns a pure translation.
func Translate(v Vector3) Transform3D { return Transform3D{Rot: Identity(), Trans: v} }

// Rotate returns a pure rotation.
func Rotate(r Rotation) Transform3D { return Transform3D{Rot: r} }

// Mul returns the composition t∘o: o is applied first, then t.
func (t Transform3D) Mul(o Transform3D) Transform3D {
	return Transform3D{
		Rot:   t.Rot.Mul(o.Rot),
		Trans: t.Rot.Apply(o.Trans).Add(t.Trans),
	}
}

// Apply maps p through the transform.
func (t Transform3D) Apply(p Vector3) Vector3 {
	return t.Rot.Apply(p).Add(t.Trans)
}

// Inverse returns the transform undoing t.
func (t Transform3D) Inverse() Transform3D {
	inv := t.Rot.Inverse()
	return Transform3D{Rot: inv, Trans: inv.Apply(t.Trans).Neg()}
}

// ApproxEqual compares rotation and translation parts.
func (t Transform3D) ApproxEqual(o Transform3D, tol float64) bool {
	return t.Rot.ApproxEqual(o.Rot, tol) && t.Trans.ApproxEqual(o.Trans, tol)
}
