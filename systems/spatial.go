// Package systems provides the simulation's spatial index, placement,
// conditions and per-body behavior rules.
package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/geom"
)

// Cell addresses one grid cell: I is the row, J the column.
type Cell struct {
	I, J int
}

// Grid partitions the bounded area into Rows x Columns equal cells.
type Grid struct {
	Rows, Columns         int
	CellWidth, CellHeight float64
}

// NewGrid creates a grid over a width x height area with the given row count.
// Columns are chosen so cells come out roughly square.
func NewGrid(width, height float64, rows int) Grid {
	if rows < 1 {
		rows = 1
	}
	cols := int(math.Round(width * float64(rows) / height))
	if cols < 1 {
		cols = 1
	}
	return Grid{
		Rows:       rows,
		Columns:    cols,
		CellWidth:  width / float64(cols),
		CellHeight: height / float64(rows),
	}
}

// CellOf returns the cell containing pos. Positions on or past the far
// border are clamped to the last row/column.
func (g Grid) CellOf(pos r2.Vec) Cell {
	return Cell{
		I: clampIndex(int(pos.Y/g.CellHeight), g.Rows),
		J: clampIndex(int(pos.X/g.CellWidth), g.Columns),
	}
}

// CellRect returns the world rectangle covered by c.
func (g Grid) CellRect(c Cell) geom.Rect {
	return geom.Rect{
		X: float64(c.J) * g.CellWidth,
		Y: float64(c.I) * g.CellHeight,
		W: g.CellWidth,
		H: g.CellHeight,
	}
}

func (g Grid) index(c Cell) int {
	return c.I*g.Columns + c.J
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// entry is one indexed item and its last known position.
type entry[K comparable] struct {
	ID  K
	Pos r2.Vec
}

// CellIndex maps grid cells to the ids located in them.
// It is updated incrementally on spawn, move and removal; buckets are slices
// so iteration order only depends on the sequence of updates.
type CellIndex[K comparable] struct {
	grid    Grid
	buckets [][]entry[K]
	where   map[K]int // id -> bucket

	// Dense id list for uniform sampling
	ids  []K
	slot map[K]int
}

// NewCellIndex creates an empty index over grid.
func NewCellIndex[K comparable](grid Grid) *CellIndex[K] {
	return &CellIndex[K]{
		grid:    grid,
		buckets: make([][]entry[K], grid.Rows*grid.Columns),
		where:   make(map[K]int),
		slot:    make(map[K]int),
	}
}

// Grid returns the grid the index partitions space with.
func (ci *CellIndex[K]) Grid() Grid {
	return ci.grid
}

// Len returns the number of indexed ids.
func (ci *CellIndex[K]) Len() int {
	return len(ci.where)
}

// Has reports whether id is indexed.
func (ci *CellIndex[K]) Has(id K) bool {
	_, ok := ci.where[id]
	return ok
}

// Insert adds id at pos. Inserting an id that is already present moves it.
func (ci *CellIndex[K]) Insert(id K, pos r2.Vec) {
	if _, ok := ci.where[id]; ok {
		ci.Move(id, pos)
		return
	}
	b := ci.grid.index(ci.grid.CellOf(pos))
	ci.buckets[b] = append(ci.buckets[b], entry[K]{ID: id, Pos: pos})
	ci.where[id] = b
	ci.slot[id] = len(ci.ids)
	ci.ids = append(ci.ids, id)
}

// Remove drops id from the index. It reports whether id was present.
func (ci *CellIndex[K]) Remove(id K) bool {
	b, ok := ci.where[id]
	if !ok {
		return false
	}
	ci.buckets[b] = removeEntry(ci.buckets[b], id)
	delete(ci.where, id)

	i, last := ci.slot[id], len(ci.ids)-1
	ci.ids[i] = ci.ids[last]
	ci.slot[ci.ids[i]] = i
	ci.ids = ci.ids[:last]
	delete(ci.slot, id)
	return true
}

// Move updates the position of id, rebucketing it when it crossed a cell border.
func (ci *CellIndex[K]) Move(id K, pos r2.Vec) {
	b, ok := ci.where[id]
	if !ok {
		ci.Insert(id, pos)
		return
	}
	nb := ci.grid.index(ci.grid.CellOf(pos))
	if nb == b {
		bucket := ci.buckets[b]
		for i := range bucket {
			if bucket[i].ID == id {
				bucket[i].Pos = pos
				return
			}
		}
		return
	}
	ci.buckets[b] = removeEntry(ci.buckets[b], id)
	ci.buckets[nb] = append(ci.buckets[nb], entry[K]{ID: id, Pos: pos})
	ci.where[id] = nb
}

// Pos returns the indexed position of id.
func (ci *CellIndex[K]) Pos(id K) (r2.Vec, bool) {
	b, ok := ci.where[id]
	if !ok {
		return r2.Vec{}, false
	}
	for _, e := range ci.buckets[b] {
		if e.ID == id {
			return e.Pos, true
		}
	}
	return r2.Vec{}, false
}

// Query calls fn for every id within radius of center (distance <= radius),
// visiting only the cells overlapping the circle's bounding square.
// Iteration stops early when fn returns false.
func (ci *CellIndex[K]) Query(center r2.Vec, radius float64, fn func(id K, pos r2.Vec) bool) {
	lo := ci.grid.CellOf(r2.Vec{X: center.X - radius, Y: center.Y - radius})
	hi := ci.grid.CellOf(r2.Vec{X: center.X + radius, Y: center.Y + radius})
	r2max := radius * radius

	for i := lo.I; i <= hi.I; i++ {
		for j := lo.J; j <= hi.J; j++ {
			for _, e := range ci.buckets[i*ci.grid.Columns+j] {
				d := r2.Sub(e.Pos, center)
				if d.X*d.X+d.Y*d.Y <= r2max {
					if !fn(e.ID, e.Pos) {
						return
					}
				}
			}
		}
	}
}

// Any reports whether some id within radius of center satisfies pred.
// A nil pred matches everything.
func (ci *CellIndex[K]) Any(center r2.Vec, radius float64, pred func(id K) bool) bool {
	found := false
	ci.Query(center, radius, func(id K, _ r2.Vec) bool {
		if pred == nil || pred(id) {
			found = true
			return false
		}
		return true
	})
	return found
}

// QueryRect calls fn for every id inside r. Cells fully covered by r are
// emitted without per-entry tests.
func (ci *CellIndex[K]) QueryRect(r geom.Rect, fn func(id K, pos r2.Vec)) {
	lo := ci.grid.CellOf(r2.Vec{X: r.X, Y: r.Y})
	hi := ci.grid.CellOf(r2.Vec{X: r.X + r.W, Y: r.Y + r.H})

	for i := lo.I; i <= hi.I; i++ {
		for j := lo.J; j <= hi.J; j++ {
			c := Cell{I: i, J: j}
			full := containsRect(r, ci.grid.CellRect(c))
			for _, e := range ci.buckets[ci.grid.index(c)] {
				if full || r.Contains(e.Pos) {
					fn(e.ID, e.Pos)
				}
			}
		}
	}
}

// Random returns an id chosen uniformly over every indexed id, regardless of
// how they are spread over the cells. It fails only on an empty index.
func (ci *CellIndex[K]) Random(rng *rand.Rand) (K, bool) {
	if len(ci.ids) == 0 {
		var zero K
		return zero, false
	}
	return ci.ids[rng.Intn(len(ci.ids))], true
}

func containsRect(outer, inner geom.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W && inner.Y+inner.H <= outer.Y+outer.H
}

// removeEntry swap-removes id from bucket.
func removeEntry[K comparable](bucket []entry[K], id K) []entry[K] {
	for i := range bucket {
		if bucket[i].ID == id {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			return bucket[:last]
		}
	}
	return bucket
}
