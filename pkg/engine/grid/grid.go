package grid

// Gap is the spacing between cells, as a fraction of the container size.
type Gap struct {
	Col float64
	Row float64
}

// Style carries the styling contract the grid exposes to renderers.
type Style struct {
	BorderWidth float64
	BorderColor Color
	FaceColor   Color
	Gap         Gap
}

// Grid is the size x size collection of cells. Cells live in a flat slice
// indexed by row*size+col, built once and never resized.
type Grid struct {
	size  int
	cells []*Cell
	style Style
}

// New builds a grid of size x size cells, each with six faces painted style.FaceColor.
// A non-positive size yields an empty grid.
func New(size int, style Style) *Grid {
	if size < 0 {
		size = 0
	}
	g := &Grid{
		size:  size,
		cells: make([]*Cell, 0, size*size),
		style: style,
	}
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			g.cells = append(g.cells, newCell(r, c, style.FaceColor))
		}
	}
	return g
}

// Size returns the number of rows (and columns) in the grid
func (g *Grid) Size() int {
	return g.size
}

// Len returns the total number of cells
func (g *Grid) Len() int {
	return len(g.cells)
}

// Style returns the styling the grid was built with
func (g *Grid) Style() Style {
	return g.style
}

// IsValidPosition checks if a row/col position is within grid bounds
func (g *Grid) IsValidPosition(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Index returns the flat index of (row, col), or -1 when out of bounds
func (g *Grid) Index(row, col int) int {
	if !g.IsValidPosition(row, col) {
		return -1
	}
	return row*g.size + col
}

// GetCell returns the cell at the given position, or nil if out of bounds
func (g *Grid) GetCell(row, col int) *Cell {
	i := g.Index(row, col)
	if i < 0 {
		return nil
	}
	return g.cells[i]
}

// Cells returns the backing slice in row-major order. Callers must not modify it.
func (g *Grid) Cells() []*Cell {
	return g.cells
}

// ForEachCell calls fn for every cell in row-major order
func (g *Grid) ForEachCell(fn func(row, col int, cell *Cell)) {
	for _, c := range g.cells {
		fn(c.Row, c.Col, c)
	}
}

// FaceCount returns the total number of faces across the grid
func (g *Grid) FaceCount() int {
	return len(g.cells) * FaceCount
}
