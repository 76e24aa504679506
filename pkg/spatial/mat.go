package spatial

import "math"

// Mat4 is a column-major 4x4 affine transform: m[c][r] is row r of column c.
// Column 3 holds the translation.
type Mat4 [4][4]float64

// Identity is the transform of an observer at the origin looking down -Z.
var Identity = Mat4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

// Column returns the first three rows of column c.
func (m Mat4) Column(c int) Vec3 {
	return Vec3{m[c][0], m[c][1], m[c][2]}
}

// Translation is the position encoded in column 3.
func (m Mat4) Translation() Vec3 { return m.Column(3) }

func (m Mat4) IsIdentity() bool { return m == Identity }

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k][row] * o[c][k]
			}
			r[c][row] = sum
		}
	}
	return r
}

// RotationMatrix returns the pure rotation transform of q.
func RotationMatrix(q Quat) Mat4 {
	q = q.Normalize()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		{1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y), 0},
		{2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x), 0},
		{2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}
}

// TranslationMatrix returns the pure translation transform to p.
func TranslationMatrix(p Vec3) Mat4 {
	m := Identity
	m[3] = [4]float64{p.X, p.Y, p.Z, 1}
	return m
}

// Rotation extracts the unit quaternion of the upper 3x3 block. Scale is assumed to be 1.
func (m Mat4) Rotation() Quat {
	r := func(row, col int) float64 { return m[col][row] }

	var q Quat
	trace := r(0, 0) + r(1, 1) + r(2, 2)
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{
			W: 0.25 * s,
			X: (r(2, 1) - r(1, 2)) / s,
			Y: (r(0, 2) - r(2, 0)) / s,
			Z: (r(1, 0) - r(0, 1)) / s,
		}
	case r(0, 0) > r(1, 1) && r(0, 0) > r(2, 2):
		s := math.Sqrt(1+r(0, 0)-r(1, 1)-r(2, 2)) * 2
		q = Quat{
			W: (r(2, 1) - r(1, 2)) / s,
			X: 0.25 * s,
			Y: (r(0, 1) + r(1, 0)) / s,
			Z: (r(0, 2) + r(2, 0)) / s,
		}
	case r(1, 1) > r(2, 2):
		s := math.Sqrt(1+r(1, 1)-r(0, 0)-r(2, 2)) * 2
		q = Quat{
			W: (r(0, 2) - r(2, 0)) / s,
			X: (r(0, 1) + r(1, 0)) / s,
			Y: 0.25 * s,
			Z: (r(1, 2) + r(2, 1)) / s,
		}
	default:
		s := math.Sqrt(1+r(2, 2)-r(0, 0)-r(1, 1)) * 2
		q = Quat{
			W: (r(1, 0) - r(0, 1)) / s,
			X: (r(0, 2) + r(2, 0)) / s,
			Y: (r(1, 2) + r(2, 1)) / s,
			Z: 0.25 * s,
		}
	}
	return q.Normalize()
}
