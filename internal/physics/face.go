package physics

import (
	"github.com/annel0/voxel-level/internal/vec"
	"github.com/go-gl/mathgl/mgl64"
)

// Face обозначает грань клетки, в которую пришлось попадание
type Face uint8

const (
	FaceNone  Face = iota
	FaceDown       // -Y
	FaceUp         // +Y
	FaceNorth      // -Z
	FaceSouth      // +Z
	FaceWest       // -X
	FaceEast       // +X
)

// String возвращает строковое представление грани
func (f Face) String() string {
	switch f {
	case FaceDown:
		return "down"
	case FaceUp:
		return "up"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	case FaceEast:
		return "east"
	default:
		return "none"
	}
}

// Normal возвращает единичный вектор нормали грани
func (f Face) Normal() vec.Vec3 {
	switch f {
	case FaceDown:
		return vec.Of(0, -1, 0)
	case FaceUp:
		return vec.Of(0, 1, 0)
	case FaceNorth:
		return vec.Of(0, 0, -1)
	case FaceSouth:
		return vec.Of(0, 0, 1)
	case FaceWest:
		return vec.Of(-1, 0, 0)
	case FaceEast:
		return vec.Of(1, 0, 0)
	default:
		return vec.Vec3{}
	}
}

func negativeFace(axis int) Face {
	switch axis {
	case 0:
		return FaceWest
	case 1:
		return FaceDown
	default:
		return FaceNorth
	}
}

func positiveFace(axis int) Face {
	switch axis {
	case 0:
		return FaceEast
	case 1:
		return FaceUp
	default:
		return FaceSouth
	}
}

// AABBPosition - результат запроса Clip: клетка, грань и точка попадания.
type AABBPosition struct {
	Hit      bool
	Tile     vec.Vec3
	Face     Face
	Position mgl64.Vec3
	T        float64 // параметр попадания вдоль отрезка, 0..1
}

// Adjacent возвращает клетку по другую сторону грани попадания -
// туда ставится новый блок.
func (p AABBPosition) Adjacent() vec.Vec3 {
	return p.Tile.Add(p.Face.Normal())
}
