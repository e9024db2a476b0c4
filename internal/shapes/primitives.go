// Package shapes is the shape-primitive library used by the solid builder: CSG primitives,
// boolean combinations and the estimators that measure them.
package shapes

import (
	"math"

	"detgeo/pkg/domain"
)

const tol = domain.Tolerance

type named struct{ name string }

func (n named) Name() string { return n.name }

// Box is centred on the origin; the dimensions are half-lengths.
type Box struct {
	named
	DX, DY, DZ float64
}

func (b *Box) Inside(p domain.Vector3) bool {
	return math.Abs(p.X) <= b.DX+tol && math.Abs(p.Y) <= b.DY+tol && math.Abs(p.Z) <= b.DZ+tol
}

func (b *Box) Extent() (domain.Vector3, domain.Vector3) {
	return domain.Vec3(-b.DX, -b.DY, -b.DZ), domain.Vec3(b.DX, b.DY, b.DZ)
}

func (b *Box) CubicVolume() float64 { return 8 * b.DX * b.DY * b.DZ }

func (b *Box) SurfaceArea() float64 {
	return 8 * (b.DX*b.DY + b.DY*b.DZ + b.DZ*b.DX)
}

// Tube is a cylindrical section with half-length DZ and azimuthal range [SPhi, SPhi+DPhi].
type Tube struct {
	named
	RMin, RMax, DZ, SPhi, DPhi float64
}

func (t *Tube) Inside(p domain.Vector3) bool {
	if math.Abs(p.Z) > t.DZ+tol {
		return false
	}
	r := math.Hypot(p.X, p.Y)
	if r < t.RMin-tol || r > t.RMax+tol {
		return false
	}
	return inPhi(p, t.SPhi, t.DPhi)
}

func (t *Tube) Extent() (domain.Vector3, domain.Vector3) {
	return domain.Vec3(-t.RMax, -t.RMax, -t.DZ), domain.Vec3(t.RMax, t.RMax, t.DZ)
}

func (t *Tube) CubicVolume() float64 {
	return t.DPhi * t.DZ * (t.RMax*t.RMax - t.RMin*t.RMin)
}

func (t *Tube) SurfaceArea() float64 {
	h := 2 * t.DZ
	area := t.DPhi*(t.RMin+t.RMax)*h + t.DPhi*(t.RMax*t.RMax-t.RMin*t.RMin)
	if t.DPhi < 2*math.Pi-tol {
		area += 2 * h * (t.RMax - t.RMin)
	}
	return area
}

// Cons is a conical section; radii 1 apply at -DZ and radii 2 at +DZ.
type Cons struct {
	named
	RMin1, RMax1, RMin2, RMax2, DZ, SPhi, DPhi float64
}

func (c *Cons) radiiAt(z float64) (float64, float64) {
	f := (z + c.DZ) / (2 * c.DZ)
	return c.RMin1 + (c.RMin2-c.RMin1)*f, c.RMax1 + (c.RMax2-c.RMax1)*f
}

func (c *Cons) Inside(p domain.Vector3) bool {
	if math.Abs(p.Z) > c.DZ+tol {
		return false
	}
	rmin, rmax := c.radiiAt(p.Z)
	r := math.Hypot(p.X, p.Y)
	if r < rmin-tol || r > rmax+tol {
		return false
	}
	return inPhi(p, c.SPhi, c.DPhi)
}

func (c *Cons) Extent() (domain.Vector3, domain.Vector3) {
	r := math.Max(c.RMax1, c.RMax2)
	return domain.Vec3(-r, -r, -c.DZ), domain.Vec3(r, r, c.DZ)
}

func (c *Cons) CubicVolume() float64 {
	outer := c.RMax1*c.RMax1 + c.RMax1*c.RMax2 + c.RMax2*c.RMax2
	inner := c.RMin1*c.RMin1 + c.RMin1*c.RMin2 + c.RMin2*c.RMin2
	return c.DPhi * c.DZ * (outer - inner) / 3
}

func (c *Cons) SurfaceArea() float64 {
	h := 2 * c.DZ
	outer := 0.5 * c.DPhi * (c.RMax1 + c.RMax2) * math.Hypot(c.RMax2-c.RMax1, h)
	inner := 0.5 * c.DPhi * (c.RMin1 + c.RMin2) * math.Hypot(c.RMin2-c.RMin1, h)
	caps := 0.5 * c.DPhi * (c.RMax1*c.RMax1 - c.RMin1*c.RMin1 + c.RMax2*c.RMax2 - c.RMin2*c.RMin2)
	area := outer + inner + caps
	if c.DPhi < 2*math.Pi-tol {
		area += h * ((c.RMax1 - c.RMin1) + (c.RMax2 - c.RMin2))
	}
	return area
}

// Sphere is a spherical shell section in phi and theta.
type Sphere struct {
	named
	RMin, RMax, SPhi, DPhi, STheta, DTheta float64
}

func (s *Sphere) Inside(p domain.Vector3) bool {
	r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if r < s.RMin-tol || r > s.RMax+tol {
		return false
	}
	if r <= tol {
		return s.RMin <= tol
	}
	if !inPhi(p, s.SPhi, s.DPhi) {
		return false
	}
	theta := math.Acos(math.Max(-1, math.Min(1, p.Z/r)))
	return theta >= s.STheta-tol && theta <= s.STheta+s.DTheta+tol
}

func (s *Sphere) Extent() (domain.Vector3, domain.Vector3) {
	return domain.Vec3(-s.RMax, -s.RMax, -s.RMax), domain.Vec3(s.RMax, s.RMax, s.RMax)
}

func (s *Sphere) CubicVolume() float64 {
	return s.DPhi * (math.Cos(s.STheta) - math.Cos(s.STheta+s.DTheta)) *
		(s.RMax*s.RMax*s.RMax - s.RMin*s.RMin*s.RMin) / 3
}

func (s *Sphere) SurfaceArea() float64 {
	band := math.Cos(s.STheta) - math.Cos(s.STheta+s.DTheta)
	area := (s.RMax*s.RMax + s.RMin*s.RMin) * s.DPhi * band
	ring := 0.5 * (s.RMax*s.RMax - s.RMin*s.RMin)
	if s.DPhi < 2*math.Pi-tol {
		area += 2 * s.DTheta * ring
	}
	if s.STheta > tol {
		area += math.Sin(s.STheta) * s.DPhi * ring
	}
	if end := s.STheta + s.DTheta; end < math.Pi-tol {
		area += math.Sin(end) * s.DPhi * ring
	}
	return area
}

// Trd is a trapezoid with half-lengths DX1, DY1 at -DZ and DX2, DY2 at +DZ.
type Trd struct {
	named
	DX1, DX2, DY1, DY2, DZ float64
}

func (t *Trd) Inside(p domain.Vector3) bool {
	if math.Abs(p.Z) > t.DZ+tol {
		return false
	}
	f := (p.Z + t.DZ) / (2 * t.DZ)
	hx := t.DX1 + (t.DX2-t.DX1)*f
	hy := t.DY1 + (t.DY2-t.DY1)*f
	return math.Abs(p.X) <= hx+tol && math.Abs(p.Y) <= hy+tol
}

func (t *Trd) Extent() (domain.Vector3, domain.Vector3) {
	x := math.Max(t.DX1, t.DX2)
	y := math.Max(t.DY1, t.DY2)
	return domain.Vec3(-x, -y, -t.DZ), domain.Vec3(x, y, t.DZ)
}

func (t *Trd) CubicVolume() float64 {
	h := 2 * t.DZ
	return h / 6 * (4*t.DX1*t.DY1 + 4*(t.DX1+t.DX2)*(t.DY1+t.DY2) + 4*t.DX2*t.DY2)
}

func (t *Trd) SurfaceArea() float64 {
	h := 2 * t.DZ
	caps := 4*t.DX1*t.DY1 + 4*t.DX2*t.DY2
	xFaces := 2 * (t.DY1 + t.DY2) * math.Hypot(h, t.DX2-t.DX1)
	yFaces := 2 * (t.DX1 + t.DX2) * math.Hypot(h, t.DY2-t.DY1)
	return caps + xFaces + yFaces
}

// inPhi reports whether the azimuth of p falls in [start, start+delta].
func inPhi(p domain.Vector3, start, delta float64) bool {
	if delta >= 2*math.Pi-tol {
		return true
	}
	if math.Hypot(p.X, p.Y) <= tol {
		return true
	}
	phi := math.Atan2(p.Y, p.X) - start
	phi = math.Mod(phi, 2*math.Pi)
	if phi < -tol {
		phi += 2 * math.Pi
	}
	return phi <= delta+tol || phi >= 2*math.Pi-tol
}
