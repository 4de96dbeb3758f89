package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/voxel-level/internal/game"
	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/physics"
	gosync "github.com/annel0/voxel-level/internal/sync"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/annel0/voxel-level/internal/vec"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
)

// TileInfo - состояние одной клетки уровня
type TileInfo struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Z          int     `json:"z"`
	Type       uint8   `json:"type"`
	Name       string  `json:"name"`
	RenderType uint8   `json:"render_type"`
	InBounds   bool    `json:"in_bounds"`
	Lit        bool    `json:"lit"`
	Brightness float32 `json:"brightness"`
	LightDepth int     `json:"light_depth"`
	FlowDist   int     `json:"flow_distance"`
	InWater    bool    `json:"in_water"` // центр клетки под поверхностью воды
	InLava     bool    `json:"in_lava"`
}

// TileEditRequest - запрос на изменение клетки. Тип задаётся именем или номером.
type TileEditRequest struct {
	X    *int   `json:"x" binding:"required"`
	Y    *int   `json:"y" binding:"required"`
	Z    *int   `json:"z" binding:"required"`
	Type string `json:"type"`
	ID   *int   `json:"id"`
}

// ClipResult - ответ на запрос луча
type ClipResult struct {
	Hit      bool       `json:"hit"`
	Tile     [3]int     `json:"tile,omitempty"`
	Face     string     `json:"face,omitempty"`
	Position [3]float64 `json:"position,omitempty"`
	T        float64    `json:"t,omitempty"`
	Adjacent [3]int     `json:"adjacent,omitempty"`
}

// run выполняет fn в потоке симуляции с таймаутом запроса
func (rs *RestServer) run(c *gin.Context, fn func(*level.Level)) bool {
	ctx := c.Request.Context()
	if rs.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}
	if err := rs.exec.Do(ctx, fn); err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, game.ErrStopped) {
			status = http.StatusGatewayTimeout
		}
		rs.log.Warn("задача уровня не выполнена: %v", err)
		fail(c, status, "Уровень недоступен: "+err.Error())
		return false
	}
	return true
}

// handleGetTile возвращает состояние клетки
func (rs *RestServer) handleGetTile(c *gin.Context) {
	p, err := queryInts(c, "x", "y", "z")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	info := TileInfo{X: p[0], Y: p[1], Z: p[2]}
	ok := rs.run(c, func(l *level.Level) {
		t := l.GetTile(p[0], p[1], p[2])
		info.Type = uint8(t)
		info.Name = tile.Name(t)
		info.RenderType = uint8(l.GetRenderTile(p[0], p[1], p[2]))
		info.InBounds = l.IsInBounds(p[0], p[1], p[2])
		info.Lit = l.IsTileLit(p[0], p[1], p[2])
		info.Brightness = l.GetTileBrightness(p[0], p[1], p[2])
		if p[0] >= 0 && p[0] < level.Width && p[2] >= 0 && p[2] < level.Depth {
			info.LightDepth = l.LightDepth(p[0], p[2])
		}
		info.FlowDist = l.FlowDistance(p[0], p[1], p[2])
		cx, cy, cz := float64(p[0])+0.5, float64(p[1])+0.5, float64(p[2])+0.5
		info.InWater = l.IsRenderWaterTile(cx, cy, cz)
		info.InLava = l.IsLavaAt(cx, cy, cz)
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Клетка получена", Data: info})
}

// handlePutTile изменяет клетку с обновлением соседей и передаёт правку в репликацию
func (rs *RestServer) handlePutTile(c *gin.Context) {
	var req TileEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	t, err := req.tileType()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	x, y, z := *req.X, *req.Y, *req.Z
	var changed bool
	ok := rs.run(c, func(l *level.Level) {
		changed = l.SetTileWithNeighborChange(x, y, z, t, false)
		// правка записывается в том же кадре, что и применяется
		if changed && rs.recorder != nil {
			rs.recorder.Record(gosync.TileEdit{X: x, Y: y, Z: z, Type: t})
		}
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Правка обработана",
		Data: gin.H{
			"changed": changed,
			"type":    tile.Name(t),
		},
	})
}

func (r TileEditRequest) tileType() (tile.Type, error) {
	if r.ID != nil {
		if *r.ID < 0 || *r.ID > 255 || !tile.IsKnown(tile.Type(*r.ID)) {
			return tile.Air, fmt.Errorf("неизвестный тип тайла %d", *r.ID)
		}
		return tile.Type(*r.ID), nil
	}
	if r.Type == "" {
		return tile.Air, errors.New("не указан тип тайла")
	}
	t, ok := tile.ByName(r.Type)
	if !ok {
		return tile.Air, fmt.Errorf("неизвестный тип тайла %q", r.Type)
	}
	return t, nil
}

// handleClip пускает луч от (sx,sy,sz) до (ex,ey,ez). solid=true
// пропускает жидкости и прочие неблокирующие клетки.
func (rs *RestServer) handleClip(c *gin.Context) {
	v, err := queryFloats(c, "sx", "sy", "sz", "ex", "ey", "ez")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	solid := c.Query("solid") == "true"
	start := mgl64.Vec3{v[0], v[1], v[2]}
	end := mgl64.Vec3{v[3], v[4], v[5]}

	var pos physics.AABBPosition
	ok := rs.run(c, func(l *level.Level) {
		if solid {
			pos = l.ClipSolid(start, end, nil)
		} else {
			pos = l.Clip(start, end, nil)
		}
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Луч обработан", Data: clipResult(pos)})
}

func clipResult(pos physics.AABBPosition) ClipResult {
	if !pos.Hit {
		return ClipResult{}
	}
	adj := pos.Adjacent()
	return ClipResult{
		Hit:      true,
		Tile:     triple(pos.Tile),
		Face:     pos.Face.String(),
		Position: [3]float64{pos.Position[0], pos.Position[1], pos.Position[2]},
		T:        pos.T,
		Adjacent: triple(adj),
	}
}

func triple(v vec.Vec3) [3]int {
	return [3]int{v.X, v.Y, v.Z}
}

// handleLiquid проверяет наличие жидкости в параллелепипеде.
// type: water, lava или пусто (любая жидкость).
func (rs *RestServer) handleLiquid(c *gin.Context) {
	v, err := queryFloats(c, "minx", "miny", "minz", "maxx", "maxy", "maxz")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	box := physics.NewAABB(mgl64.Vec3{v[0], v[1], v[2]}, mgl64.Vec3{v[3], v[4], v[5]})

	kind := c.Query("type")
	var liquid tile.Type
	switch kind {
	case "", "any":
		kind = "any"
	case "water":
		liquid = tile.Water
	case "lava":
		liquid = tile.Lava
	default:
		fail(c, http.StatusBadRequest, fmt.Sprintf("неизвестный тип жидкости %q", kind))
		return
	}

	var contains bool
	var solids int
	ok := rs.run(c, func(l *level.Level) {
		if kind == "any" {
			contains = l.ContainsAnyLiquid(box)
		} else {
			contains = l.ContainsLiquid(box, liquid)
		}
		solids = l.GetTileAABBCount(box)
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Проверка выполнена",
		Data: gin.H{
			"type":        kind,
			"contains":    contains,
			"solid_boxes": solids,
		},
	})
}

// handleStats возвращает статистику уровня, репликации и процесса
func (rs *RestServer) handleStats(c *gin.Context) {
	var (
		stats   level.Stats
		flowing int
		dirty   int
		spawn   mgl64.Vec3
		ground  int
		water   int
	)
	ok := rs.run(c, func(l *level.Level) {
		stats = l.Stats()
		flowing = l.FlowingCount()
		dirty = l.DirtyLightColumns()
		spawn = l.Spawn
		ground = l.GroundLevel
		water = l.WaterLevel
	})
	if !ok {
		return
	}

	data := gin.H{
		"level": gin.H{
			"ticks":              stats.Ticks,
			"updates_total":      stats.UpdatesTotal,
			"last_tick_updates":  stats.LastTickUpdate,
			"queue_length":       stats.QueueLength,
			"flowing_liquids":    flowing,
			"dirty_light_column": dirty,
			"ground_level":       ground,
			"water_level":        water,
			"spawn":              [3]float64{spawn[0], spawn[1], spawn[2]},
		},
		"uptime": rs.metrics.GetUptime(),
		"memory": rs.metrics.GetDetailedMemoryStats(),
	}
	if cpu, err := rs.metrics.GetCPUUsage(); err == nil {
		data["cpu_percent"] = cpu
	}
	if rss, err := rs.metrics.GetRSS(); err == nil {
		data["rss_mb"] = rss
	}
	if rs.syncStat != nil {
		data["sync"] = rs.syncStat()
	}

	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Статистика получена", Data: data})
}

// handleChecksum возвращает контрольную сумму сетки
func (rs *RestServer) handleChecksum(c *gin.Context) {
	var sum uint32
	if !rs.run(c, func(l *level.Level) { sum = l.Checksum() }) {
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Контрольная сумма получена",
		Data:    gin.H{"checksum": fmt.Sprintf("%08x", sum)},
	})
}

func queryInts(c *gin.Context, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		v, err := strconv.Atoi(c.Query(n))
		if err != nil {
			return nil, fmt.Errorf("неверный параметр %s", n)
		}
		out[i] = v
	}
	return out, nil
}

func queryFloats(c *gin.Context, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, n := range names {
		v, err := strconv.ParseFloat(c.Query(n), 64)
		if err != nil {
			return nil, fmt.Errorf("неверный параметр %s", n)
		}
		out[i] = v
	}
	return out, nil
}
