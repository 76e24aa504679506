package spatial

import "fmt"

// Pose is a position plus a unit orientation in world space.
type Pose struct {
	Position    Vec3
	Orientation Quat
}

// IdentityPose is the origin with no rotation.
var IdentityPose = Pose{Orientation: IdentityQuat}

// At returns a pose at p with no rotation.
func At(p Vec3) Pose {
	return Pose{Position: p, Orientation: IdentityQuat}
}

// Matrix returns translation * rotation.
func (p Pose) Matrix() Mat4 {
	return TranslationMatrix(p.Position).Mul(RotationMatrix(p.Orientation))
}

// PoseFromMatrix splits an affine transform back into position and orientation.
func PoseFromMatrix(m Mat4) Pose {
	return Pose{Position: m.Translation(), Orientation: m.Rotation()}
}

// Near compares translation per axis against posTol and orientation per component
// against rotTol.
func (p Pose) Near(o Pose, posTol, rotTol float64) bool {
	return p.Position.Near(o.Position, posTol) && p.Orientation.Near(o.Orientation, rotTol)
}

// WithPosition returns p moved to pos, keeping its orientation.
func (p Pose) WithPosition(pos Vec3) Pose {
	p.Position = pos
	return p
}

func (p Pose) String() string {
	return fmt.Sprintf("%s %s", p.Position, p.Orientation)
}
