package model

// BoardSize is the dimension of the square battle grid
const BoardSize = 10

// Position identifies a cell on the grid
type Position struct {
	X int // 0-indexed column
	Y int // 0-indexed row
}

// Orientation is the axis a ship extends along from its origin
type Orientation string

const (
	Horizontal Orientation = "horizontal" // extends towards increasing X
	Vertical   Orientation = "vertical"   // extends towards increasing Y
)

// ShipClass is the size class of a ship
type ShipClass string

const (
	ShipSmall  ShipClass = "small"
	ShipMedium ShipClass = "medium"
	ShipLarge  ShipClass = "large"
	ShipHuge   ShipClass = "huge"
)

// Ship is a placed ship. Immutable once stored in a match.
type Ship struct {
	Origin      Position
	Orientation Orientation
	Length      int
	Class       ShipClass
}

// Cells returns every cell the ship occupies, starting at the origin
func (s Ship) Cells() []Position {
	cells := make([]Position, 0, s.Length)
	for i := 0; i < s.Length; i++ {
		if s.Orientation == Horizontal {
			cells = append(cells, Position{X: s.Origin.X + i, Y: s.Origin.Y})
		} else {
			cells = append(cells, Position{X: s.Origin.X, Y: s.Origin.Y + i})
		}
	}
	return cells
}

// Occupies returns true if the ship covers the given cell
func (s Ship) Occupies(pos Position) bool {
	for _, c := range s.Cells() {
		if c == pos {
			return true
		}
	}
	return false
}

// FleetRequirement is one line of a fleet composition
type FleetRequirement struct {
	Class  ShipClass
	Length int
	Count  int
}

// StandardFleet returns the classic composition: 1×4, 2×3, 3×2, 4×1
func StandardFleet() []FleetRequirement {
	return []FleetRequirement{
		{Class: ShipHuge, Length: 4, Count: 1},
		{Class: ShipLarge, Length: 3, Count: 2},
		{Class: ShipMedium, Length: 2, Count: 3},
		{Class: ShipSmall, Length: 1, Count: 4},
	}
}

// FleetCellCount returns the total number of cells a fleet composition covers
func FleetCellCount(fleet []FleetRequirement) int {
	total := 0
	for _, req := range fleet {
		total += req.Length * req.Count
	}
	return total
}
