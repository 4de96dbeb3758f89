package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collision описывает, по каким осям движение было ограничено
type Collision struct {
	X, Y, Z bool
}

// OnGround возвращает true, если движение вниз упёрлось в опору
func (c Collision) OnGround(delta mgl64.Vec3) bool {
	return c.Y && delta[1] < 0
}

// ResolveMovement смещает box на delta, не позволяя ему войти ни в один
// из boxes. Оси обрабатываются в порядке Y, X, Z.
// Возвращает фактическое смещение и оси, по которым было столкновение.
func ResolveMovement(box AABB, delta mgl64.Vec3, boxes []AABB) (mgl64.Vec3, Collision) {
	dx, dy, dz := delta[0], delta[1], delta[2]

	if dy != 0 {
		for _, other := range boxes {
			dy = box.YOffset(other, dy)
		}
		box = box.Translate(mgl64.Vec3{0, dy, 0})
	}
	if dx != 0 {
		for _, other := range boxes {
			dx = box.XOffset(other, dx)
		}
		box = box.Translate(mgl64.Vec3{dx, 0, 0})
	}
	if dz != 0 {
		for _, other := range boxes {
			dz = box.ZOffset(other, dz)
		}
	}

	return mgl64.Vec3{dx, dy, dz}, Collision{
		X: !mgl64.FloatEqual(dx, delta[0]),
		Y: !mgl64.FloatEqual(dy, delta[1]),
		Z: !mgl64.FloatEqual(dz, delta[2]),
	}
}
