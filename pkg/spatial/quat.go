package spatial

import (
	"fmt"
	"math"
)

// Quat is a rotation quaternion with vector part (X, Y, Z) and scalar part W.
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{W: 1}

// AxisAngle builds the rotation of angle radians around axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: math.Cos(angle / 2)}
}

func (q Quat) Length() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length. A degenerate (zero or non-finite)
// quaternion normalizes to the identity so that stored orientations stay valid.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return IdentityQuat
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{X: v.X, Y: v.Y, Z: v.Z}
	conj := Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
	r := q.Mul(p).Mul(conj)
	return Vec3{r.X, r.Y, r.Z}
}

// Near reports whether q and o describe the same rotation within tol per component.
// q and -q are the same rotation.
func (q Quat) Near(o Quat, tol float64) bool {
	same := math.Abs(q.X-o.X) <= tol && math.Abs(q.Y-o.Y) <= tol &&
		math.Abs(q.Z-o.Z) <= tol && math.Abs(q.W-o.W) <= tol
	if same {
		return true
	}
	return math.Abs(q.X+o.X) <= tol && math.Abs(q.Y+o.Y) <= tol &&
		math.Abs(q.Z+o.Z) <= tol && math.Abs(q.W+o.W) <= tol
}

// Array returns the components in x, y, z, w order, the order used on disk.
func (q Quat) Array() [4]float64 { return [4]float64{q.X, q.Y, q.Z, q.W} }

func (q Quat) String() string {
	return fmt.Sprintf("[%.3f, %.3f, %.3f, %.3f]", q.X, q.Y, q.Z, q.W)
}
