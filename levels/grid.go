package levels

// Grid is a boolean tile lookup in world cell coordinates. Row r of the map
// covers world y in [-r-1, -r), so cell (x, y) maps to column x, row -y-1.
type Grid struct {
	Width  int
	Height int
	cells  []bool
}

func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, cells: make([]bool, width*height)}
}

func (g Grid) index(x, y int) (int, bool) {
	row := -y - 1
	if x < 0 || row < 0 || x >= g.Width || row >= g.Height {
		return 0, false
	}
	return row*g.Width + x, true
}

// Get reports whether cell (x, y) is set. Cells outside the map are unset.
func (g Grid) Get(x, y int) bool {
	idx, ok := g.index(x, y)
	return ok && g.cells[idx]
}

func (g Grid) Set(x, y int, v bool) {
	if idx, ok := g.index(x, y); ok {
		g.cells[idx] = v
	}
}

// Count returns the number of set cells.
func (g Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// CellY returns the world y of the bottom edge of map row row.
func CellY(row int) int {
	return -row - 1
}
