package tile

// Type представляет код типа тайла. Набор типов закрыт.
type Type uint8

// Константы типов тайлов
const (
	Air          Type = 0
	Stone        Type = 1
	Grass        Type = 2
	Dirt         Type = 3
	Cobblestone  Type = 4
	Planks       Type = 5
	Sapling      Type = 6
	Bedrock      Type = 7
	FlowingWater Type = 8
	Water        Type = 9
	FlowingLava  Type = 10
	Lava         Type = 11
	Sand         Type = 12
	Gravel       Type = 13
	GoldOre      Type = 14
	IronOre      Type = 15
	CoalOre      Type = 16
	Log          Type = 17
	Leaves       Type = 18
	Sponge       Type = 19
	Glass        Type = 20

	// Растения и грибы (проходимые, вытесняются жидкостью)
	Dandelion     Type = 37
	Rose          Type = 38
	BrownMushroom Type = 39
	RedMushroom   Type = 40

	Obsidian Type = 49
)

// Class - производная классификация тайла
type Class uint8

const (
	ClassAir Class = iota
	ClassSolid
	ClassStillWater
	ClassFlowingWater
	ClassStillLava
	ClassFlowingLava
	ClassOther
)

// String возвращает строковое представление класса
func (c Class) String() string {
	switch c {
	case ClassAir:
		return "air"
	case ClassSolid:
		return "solid"
	case ClassStillWater:
		return "still-water"
	case ClassFlowingWater:
		return "flowing-water"
	case ClassStillLava:
		return "still-lava"
	case ClassFlowingLava:
		return "flowing-lava"
	default:
		return "other"
	}
}

// Family - семейство жидкости
type Family uint8

const (
	FamilyNone Family = iota
	FamilyWater
	FamilyLava
)

// Classify возвращает класс тайла
func Classify(t Type) Class {
	switch t {
	case Air:
		return ClassAir
	case Water:
		return ClassStillWater
	case FlowingWater:
		return ClassFlowingWater
	case Lava:
		return ClassStillLava
	case FlowingLava:
		return ClassFlowingLava
	}
	if !IsKnown(t) {
		return ClassOther
	}
	if IsSolid(t) {
		return ClassSolid
	}
	return ClassOther
}

// IsAir проверяет, является ли тайл воздухом
func IsAir(t Type) bool {
	return t == Air
}

// IsWater возвращает true для стоячей и текущей воды
func IsWater(t Type) bool {
	return t == Water || t == FlowingWater
}

// IsMovingWater возвращает true только для текущей воды
func IsMovingWater(t Type) bool {
	return t == FlowingWater
}

// IsLava возвращает true для стоячей и текущей лавы
func IsLava(t Type) bool {
	return t == Lava || t == FlowingLava
}

// IsMovingLava возвращает true только для текущей лавы
func IsMovingLava(t Type) bool {
	return t == FlowingLava
}

// IsLiquid возвращает true для любой жидкости
func IsLiquid(t Type) bool {
	return IsWater(t) || IsLava(t)
}

// IsMoving возвращает true для текущей жидкости любого семейства
func IsMoving(t Type) bool {
	return t == FlowingWater || t == FlowingLava
}

// FamilyOf возвращает семейство жидкости тайла
func FamilyOf(t Type) Family {
	switch {
	case IsWater(t):
		return FamilyWater
	case IsLava(t):
		return FamilyLava
	default:
		return FamilyNone
	}
}

// Still возвращает стоячий вариант жидкости. Для прочих тайлов возвращает t.
func Still(t Type) Type {
	switch t {
	case FlowingWater:
		return Water
	case FlowingLava:
		return Lava
	}
	return t
}

// Flowing возвращает текущий вариант жидкости. Для прочих тайлов возвращает t.
func Flowing(t Type) Type {
	switch t {
	case Water:
		return FlowingWater
	case Lava:
		return FlowingLava
	}
	return t
}

// Render возвращает тип, которым тайл отображается: текущая жидкость
// рисуется как стоячая.
func Render(t Type) Type {
	return Still(t)
}
