package fleet

import (
	"fmt"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Rules configures fleet placement
type Rules struct {
	BoardSize int
	Fleet     []model.FleetRequirement
	// ForbidAdjacent rejects ships that touch, including diagonally
	ForbidAdjacent bool
}

// DefaultRules returns the standard 10x10 board with the classic fleet and strict placement
func DefaultRules() Rules {
	return Rules{
		BoardSize:      model.BoardSize,
		Fleet:          model.StandardFleet(),
		ForbidAdjacent: true,
	}
}

// Service validates fleets against a set of rules
type Service struct {
	rules Rules
}

// New creates a new fleet Service
func New(rules Rules) *Service {
	return &Service{rules: rules}
}

// Rules returns the placement rules in force
func (s *Service) Rules() Rules {
	return s.rules
}

// Validate checks a submitted fleet: class/length pairs and counts first, then
// bounds, then overlap, then adjacency when strict.
func (s *Service) Validate(ships []model.Ship) error {
	if err := s.validateComposition(ships); err != nil {
		return err
	}

	for _, ship := range ships {
		if !s.inBounds(ship) {
			return fmt.Errorf("%w: %s at (%d,%d)", model.ErrShipOutOfBounds, ship.Class, ship.Origin.X, ship.Origin.Y)
		}
	}

	occupied := make(map[model.Position]int, model.FleetCellCount(s.rules.Fleet))
	for i, ship := range ships {
		for _, cell := range ship.Cells() {
			if _, taken := occupied[cell]; taken {
				return fmt.Errorf("%w at (%d,%d)", model.ErrShipsOverlap, cell.X, cell.Y)
			}
			occupied[cell] = i
		}
	}

	if s.rules.ForbidAdjacent {
		for i, ship := range ships {
			for _, n := range s.Neighbours(ship) {
				if owner, taken := occupied[n]; taken && owner != i {
					return fmt.Errorf("%w at (%d,%d)", model.ErrShipsAdjacent, n.X, n.Y)
				}
			}
		}
	}

	return nil
}

// Fits reports whether candidate could join placed without breaking bounds,
// overlap or adjacency rules. Used for incremental fleet generation.
func (s *Service) Fits(placed []model.Ship, candidate model.Ship) bool {
	if !s.inBounds(candidate) {
		return false
	}

	blocked := make(map[model.Position]bool)
	for _, ship := range placed {
		for _, cell := range ship.Cells() {
			blocked[cell] = true
		}
		if s.rules.ForbidAdjacent {
			for _, n := range s.Neighbours(ship) {
				blocked[n] = true
			}
		}
	}

	for _, cell := range candidate.Cells() {
		if blocked[cell] {
			return false
		}
	}
	return true
}

// Neighbours returns the in-bounds cells 8-adjacent to any cell of the ship,
// excluding the ship's own cells, in row-major order
func (s *Service) Neighbours(ship model.Ship) []model.Position {
	own := make(map[model.Position]bool, ship.Length)
	for _, cell := range ship.Cells() {
		own[cell] = true
	}

	seen := make(map[model.Position]bool)
	for _, cell := range ship.Cells() {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				p := model.Position{X: cell.X + dx, Y: cell.Y + dy}
				if own[p] || !s.onBoard(p) {
					continue
				}
				seen[p] = true
			}
		}
	}

	var out []model.Position
	for y := 0; y < s.rules.BoardSize; y++ {
		for x := 0; x < s.rules.BoardSize; x++ {
			if p := (model.Position{X: x, Y: y}); seen[p] {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *Service) validateComposition(ships []model.Ship) error {
	counts := make(map[model.ShipClass]int, len(s.rules.Fleet))
	for _, ship := range ships {
		if ship.Orientation != model.Horizontal && ship.Orientation != model.Vertical {
			return model.ErrInvalidOrientation
		}
		req, ok := s.requirement(ship.Class)
		if !ok || req.Length != ship.Length {
			return fmt.Errorf("%w: %s of length %d", model.ErrInvalidShip, ship.Class, ship.Length)
		}
		counts[ship.Class]++
	}

	for _, req := range s.rules.Fleet {
		if counts[req.Class] != req.Count {
			return fmt.Errorf("%w: want %d %s, got %d", model.ErrFleetComposition, req.Count, req.Class, counts[req.Class])
		}
	}
	return nil
}

func (s *Service) requirement(class model.ShipClass) (model.FleetRequirement, bool) {
	for _, req := range s.rules.Fleet {
		if req.Class == class {
			return req, true
		}
	}
	return model.FleetRequirement{}, false
}

func (s *Service) inBounds(ship model.Ship) bool {
	if ship.Length <= 0 {
		return false
	}
	for _, cell := range ship.Cells() {
		if !s.onBoard(cell) {
			return false
		}
	}
	return true
}

func (s *Service) onBoard(p model.Position) bool {
	return p.X >= 0 && p.X < s.rules.BoardSize && p.Y >= 0 && p.Y < s.rules.BoardSize
}
