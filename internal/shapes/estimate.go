package shapes

import "detgeo/pkg/domain"

// DefaultResolution is the number of voxels per axis used by Estimate.
const DefaultResolution = 48

// Measure holds the estimated cubic volume (mm3) and surface area (mm2) of a solid.
type Measure struct {
	Volume float64
	Area   float64
}

// Estimate voxelizes the bounding box of s into resolution^3 cells and classifies each cell by
// its centre. Volume counts inside cells; area counts faces between inside and outside cells.
// The result depends only on the solid and the resolution.
func Estimate(s domain.Solid, resolution int) Measure {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	lo, hi := s.Extent()
	size := hi.Sub(lo)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return Measure{}
	}
	n := resolution
	cell := domain.Vec3(size.X/float64(n), size.Y/float64(n), size.Z/float64(n))
	inside := make([]bool, n*n*n)
	idx := func(i, j, k int) int { return (i*n+j)*n + k }
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				p := domain.Vec3(
					lo.X+(float64(i)+0.5)*cell.X,
					lo.Y+(float64(j)+0.5)*cell.Y,
					lo.Z+(float64(k)+0.5)*cell.Z,
				)
				inside[idx(i, j, k)] = s.Inside(p)
			}
		}
	}
	occupied := func(i, j, k int) bool {
		if i < 0 || j < 0 || k < 0 || i >= n || j >= n || k >= n {
			return false
		}
		return inside[idx(i, j, k)]
	}
	faceX, faceY, faceZ := cell.Y*cell.Z, cell.X*cell.Z, cell.X*cell.Y
	var m Measure
	var count int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if !inside[idx(i, j, k)] {
					continue
				}
				count++
				if !occupied(i-1, j, k) {
					m.Area += faceX
				}
				if !occupied(i+1, j, k) {
					m.Area += faceX
				}
				if !occupied(i, j-1, k) {
					m.Area += faceY
				}
				if !occupied(i, j+1, k) {
					m.Area += faceY
				}
				if !occupied(i, j, k-1) {
					m.Area += faceZ
				}
				if !occupied(i, j, k+1) {
					m.Area += faceZ
				}
			}
		}
	}
	m.Volume = float64(count) * cell.X * cell.Y * cell.Z
	return m
}

// InteriorPoints returns the centres of a perAxis^3 grid over the extent of s that fall
// inside s, in the solid's local frame.
func InteriorPoints(s domain.Solid, perAxis int) []domain.Vector3 {
	if perAxis <= 0 {
		perAxis = 10
	}
	lo, hi := s.Extent()
	size := hi.Sub(lo)
	n := float64(perAxis)
	var pts []domain.Vector3
	for i := 0; i < perAxis; i++ {
		for j := 0; j < perAxis; j++ {
			for k := 0; k < perAxis; k++ {
				p := domain.Vec3(
					lo.X+(float64(i)+0.5)*size.X/n,
					lo.Y+(float64(j)+0.5)*size.Y/n,
					lo.Z+(float64(k)+0.5)*size.Z/n,
				)
				if s.Inside(p) {
					pts = append(pts, p)
				}
			}
		}
	}
	return pts
}
