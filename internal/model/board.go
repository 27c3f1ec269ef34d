package model

// CellState is the recorded outcome of attacking a cell
type CellState int

const (
	CellUnknown CellState = iota // not attacked yet
	CellMiss
	CellHit
	CellSunk
)

// Board records the attacks one player has made within a match
type Board struct {
	Size  int
	Cells [][]CellState // Row-major: Cells[y][x]
}

// NewBoard creates an empty board of the given size
func NewBoard(size int) *Board {
	cells := make([][]CellState, size)
	for i := range cells {
		cells[i] = make([]CellState, size)
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// Get returns the state at the given position, or CellUnknown if out of bounds
func (b *Board) Get(pos Position) CellState {
	if !b.IsValidPosition(pos) {
		return CellUnknown
	}
	return b.Cells[pos.Y][pos.X]
}

// Set records a state at the given position
func (b *Board) Set(pos Position, state CellState) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.Y][pos.X] = state
	}
}

// IsRecorded returns true if the cell already has an outcome
func (b *Board) IsRecorded(pos Position) bool {
	return b.Get(pos) != CellUnknown
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Size && pos.Y >= 0 && pos.Y < b.Size
}

// Unrecorded returns every cell that has not been attacked, in row-major order
func (b *Board) Unrecorded() []Position {
	var cells []Position
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Cells[y][x] == CellUnknown {
				cells = append(cells, Position{X: x, Y: y})
			}
		}
	}
	return cells
}

// Count returns the number of cells in the given state
func (b *Board) Count(state CellState) int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Cells[y][x] == state {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	c := NewBoard(b.Size)
	for y := range b.Cells {
		copy(c.Cells[y], b.Cells[y])
	}
	return c
}
