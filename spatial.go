package main

import "github.com/go-gl/mathgl/mgl64"

const (
	SpatialCellSize = 8.0 // blocks; larger than any entity width
	ArenaSize       = 256.0
	SpatialCols     = 33 // ceil(256/8) + 1
	SpatialRows     = 33
)

// arenaBounds is the volume a seeker may fly through before it despawns
var arenaBounds = Box{Max: mgl64.Vec3{ArenaSize, 2 * ArenaSize, ArenaSize}}

// SpatialGrid buckets entities by X/Z column for broad-phase box queries.
// Coordinates outside the arena clamp to the edge cells.
type SpatialGrid struct {
	cells [SpatialCols * SpatialRows][]EntityID
}

// NewSpatialGrid creates an empty grid
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func cellCoord(v float64, max int) int {
	c := int(v / SpatialCellSize)
	if v < 0 {
		c = 0
	}
	if c >= max {
		c = max - 1
	}
	return c
}

// cellRange returns the inclusive column/row span covered by a box footprint
func cellRange(b Box) (minCX, maxCX, minCZ, maxCZ int) {
	minCX = cellCoord(b.Min.X(), SpatialCols)
	maxCX = cellCoord(b.Max.X(), SpatialCols)
	minCZ = cellCoord(b.Min.Z(), SpatialRows)
	maxCZ = cellCoord(b.Max.Z(), SpatialRows)
	return
}

// Insert adds an entity to every cell its box overlaps
func (g *SpatialGrid) Insert(b Box, id EntityID) {
	minCX, maxCX, minCZ, maxCZ := cellRange(b)
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cz*SpatialCols + cx
			g.cells[idx] = append(g.cells[idx], id)
		}
	}
}

// QueryBuf appends the IDs in cells overlapping the box to buf.
// An entity spanning several cells is reported once.
func (g *SpatialGrid) QueryBuf(b Box, buf []EntityID) []EntityID {
	minCX, maxCX, minCZ, maxCZ := cellRange(b)
	seen := make(map[EntityID]struct{})
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, id := range g.cells[cz*SpatialCols+cx] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				buf = append(buf, id)
			}
		}
	}
	return buf
}

// Query returns the IDs in cells overlapping the box
func (g *SpatialGrid) Query(b Box) []EntityID {
	return g.QueryBuf(b, nil)
}
