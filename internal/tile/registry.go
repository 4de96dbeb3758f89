package tile

// Properties описывает неизменяемые свойства типа тайла
type Properties struct {
	Name         string
	Solid        bool // участвует в столкновениях
	BlocksLight  bool // перекрывает свет для столбца
	Displaceable bool // может быть вытеснен жидкостью
}

var registry [256]Properties

// known отмечает зарегистрированные типы
var known [256]bool

// register добавляет свойства типа в таблицу
func register(t Type, p Properties) {
	registry[t] = p
	known[t] = true
}

func init() {
	register(Air, Properties{Name: "air", Displaceable: true})

	for t, name := range map[Type]string{
		Stone:       "stone",
		Grass:       "grass",
		Dirt:        "dirt",
		Cobblestone: "cobblestone",
		Planks:      "planks",
		Bedrock:     "bedrock",
		Sand:        "sand",
		Gravel:      "gravel",
		GoldOre:     "gold_ore",
		IronOre:     "iron_ore",
		CoalOre:     "coal_ore",
		Log:         "log",
		Sponge:      "sponge",
		Obsidian:    "obsidian",
	} {
		register(t, Properties{Name: name, Solid: true, BlocksLight: true})
	}

	// Листва и стекло твердые, но пропускают свет
	register(Leaves, Properties{Name: "leaves", Solid: true})
	register(Glass, Properties{Name: "glass", Solid: true})

	register(FlowingWater, Properties{Name: "flowing_water", BlocksLight: true})
	register(Water, Properties{Name: "water", BlocksLight: true})
	register(FlowingLava, Properties{Name: "flowing_lava", BlocksLight: true})
	register(Lava, Properties{Name: "lava", BlocksLight: true})

	for t, name := range map[Type]string{
		Sapling:       "sapling",
		Dandelion:     "dandelion",
		Rose:          "rose",
		BrownMushroom: "brown_mushroom",
		RedMushroom:   "red_mushroom",
	} {
		register(t, Properties{Name: name, Displaceable: true})
	}
}

// Get возвращает свойства типа. Незарегистрированные типы считаются
// твердыми и непрозрачными.
func Get(t Type) Properties {
	if !known[t] {
		return Properties{Name: "unknown", Solid: true, BlocksLight: true}
	}
	return registry[t]
}

// IsKnown проверяет, зарегистрирован ли тип
func IsKnown(t Type) bool {
	return known[t]
}

// Name возвращает имя типа
func Name(t Type) string {
	return Get(t).Name
}

// IsSolid проверяет, участвует ли тайл в столкновениях
func IsSolid(t Type) bool {
	return Get(t).Solid
}

// BlocksLight проверяет, перекрывает ли тайл свет
func BlocksLight(t Type) bool {
	return Get(t).BlocksLight
}

// IsDisplaceable проверяет, может ли жидкость занять клетку с этим тайлом
func IsDisplaceable(t Type) bool {
	return Get(t).Displaceable
}

// ByName ищет тип по имени
func ByName(name string) (Type, bool) {
	for i := range registry {
		if known[i] && registry[i].Name == name {
			return Type(i), true
		}
	}
	return Air, false
}
