package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAABBNormalizesCorners(t *testing.T) {
	b := NewAABB(mgl64.Vec3{2, 0, 5}, mgl64.Vec3{1, 3, 4})
	assert.Equal(t, mgl64.Vec3{1, 0, 4}, b.Min)
	assert.Equal(t, mgl64.Vec3{2, 3, 5}, b.Max)
}

func TestExtendFollowsMovementDirection(t *testing.T) {
	b := TileAABB(0, 0, 0).Extend(mgl64.Vec3{-2, 0, 3})
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, b.Min)
	assert.Equal(t, mgl64.Vec3{1, 1, 4}, b.Max)
}

func TestIntersectsIgnoresTouchingFaces(t *testing.T) {
	a := TileAABB(0, 0, 0)
	assert.False(t, a.Intersects(TileAABB(1, 0, 0)), "соседние клетки только касаются")
	assert.True(t, a.Intersects(a.Translate(mgl64.Vec3{0.5, 0, 0})))
}

func TestInterceptStraightDown(t *testing.T) {
	floor := TileAABB(3, 10, 3)
	tHit, face, ok := floor.Intercept(mgl64.Vec3{3.5, 15, 3.5}, mgl64.Vec3{3.5, 5, 3.5})
	require.True(t, ok)
	assert.Equal(t, FaceUp, face)
	assert.InDelta(t, 0.4, tHit, 1e-9)
}

func TestInterceptSideFaces(t *testing.T) {
	box := TileAABB(0, 0, 0)

	_, face, ok := box.Intercept(mgl64.Vec3{-1, 0.5, 0.5}, mgl64.Vec3{2, 0.5, 0.5})
	require.True(t, ok)
	assert.Equal(t, FaceWest, face)

	_, face, ok = box.Intercept(mgl64.Vec3{0.5, 0.5, 3}, mgl64.Vec3{0.5, 0.5, -3})
	require.True(t, ok)
	assert.Equal(t, FaceSouth, face)
}

func TestInterceptMisses(t *testing.T) {
	box := TileAABB(0, 0, 0)

	_, _, ok := box.Intercept(mgl64.Vec3{-1, 2, 0.5}, mgl64.Vec3{2, 2, 0.5})
	assert.False(t, ok, "отрезок проходит выше")

	_, _, ok = box.Intercept(mgl64.Vec3{-3, 0.5, 0.5}, mgl64.Vec3{-1.5, 0.5, 0.5})
	assert.False(t, ok, "отрезок заканчивается до AABB")

	_, _, ok = box.Intercept(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.5, 3, 0.5})
	assert.False(t, ok, "старт внутри AABB")
}

func TestInterceptOnBoundaryStart(t *testing.T) {
	box := TileAABB(0, 0, 0)
	tHit, face, ok := box.Intercept(mgl64.Vec3{0.5, 1, 0.5}, mgl64.Vec3{0.5, -1, 0.5})
	require.True(t, ok, "старт ровно на грани - попадание при t=0")
	assert.Equal(t, FaceUp, face)
	assert.Equal(t, 0.0, tHit)
}

func TestResolveMovementLandsOnFloor(t *testing.T) {
	player := NewAABB(mgl64.Vec3{0.2, 1.5, 0.2}, mgl64.Vec3{0.8, 3.3, 0.8})
	floor := []AABB{TileAABB(0, 0, 0), TileAABB(1, 0, 0)}

	moved, col := ResolveMovement(player, mgl64.Vec3{0.3, -1, 0}, floor)
	assert.InDelta(t, -0.5, moved[1], 1e-9)
	assert.InDelta(t, 0.3, moved[0], 1e-9)
	assert.True(t, col.Y)
	assert.False(t, col.X)
	assert.True(t, col.OnGround(mgl64.Vec3{0.3, -1, 0}))
}

func TestResolveMovementBlockedByWall(t *testing.T) {
	player := NewAABB(mgl64.Vec3{0.2, 1, 0.2}, mgl64.Vec3{0.8, 2.8, 0.8})
	wall := []AABB{TileAABB(1, 1, 0), TileAABB(1, 2, 0)}

	moved, col := ResolveMovement(player, mgl64.Vec3{0.5, 0, 0}, wall)
	assert.InDelta(t, 0.2, moved[0], 1e-9)
	assert.True(t, col.X)
	assert.False(t, col.Y)
}
