package bot

import (
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
)

const (
	// DefaultShipAttempts is how many origins are sampled for one ship before the layout restarts
	DefaultShipAttempts = 200
	// DefaultLayoutAttempts is how many full layouts are tried before giving up
	DefaultLayoutAttempts = 20
)

// RandomStrategy samples random origins and orientations per ship
type RandomStrategy struct {
	random         random.Random
	shipAttempts   int
	layoutAttempts int
}

// NewRandomStrategy creates a new RandomStrategy with the default attempt budget
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return NewRandomStrategyWithBudget(rnd, DefaultShipAttempts, DefaultLayoutAttempts)
}

// NewRandomStrategyWithBudget creates a RandomStrategy with explicit attempt limits
func NewRandomStrategyWithBudget(rnd random.Random, shipAttempts, layoutAttempts int) *RandomStrategy {
	return &RandomStrategy{
		random:         rnd,
		shipAttempts:   shipAttempts,
		layoutAttempts: layoutAttempts,
	}
}

// PlaceShips places ships largest class first. A ship that cannot be placed
// within the per-ship budget discards the layout and starts over.
func (s *RandomStrategy) PlaceShips(placement *fleet.Service) ([]model.Ship, error) {
	rules := placement.Rules()

	for layout := 0; layout < s.layoutAttempts; layout++ {
		ships, ok := s.tryLayout(placement, rules)
		if !ok {
			continue
		}
		if err := placement.Validate(ships); err != nil {
			return nil, err
		}
		return ships, nil
	}
	return nil, model.ErrFleetPlacementExhausted
}

func (s *RandomStrategy) tryLayout(placement *fleet.Service, rules fleet.Rules) ([]model.Ship, bool) {
	ships := make([]model.Ship, 0, len(rules.Fleet))
	for _, req := range rules.Fleet {
		for n := 0; n < req.Count; n++ {
			ship, ok := s.placeOne(placement, rules.BoardSize, ships, req)
			if !ok {
				return nil, false
			}
			ships = append(ships, ship)
		}
	}
	return ships, true
}

func (s *RandomStrategy) placeOne(placement *fleet.Service, size int, placed []model.Ship, req model.FleetRequirement) (model.Ship, bool) {
	for attempt := 0; attempt < s.shipAttempts; attempt++ {
		orientation := model.Horizontal
		if s.random.Intn(2) == 1 {
			orientation = model.Vertical
		}
		candidate := model.Ship{
			Origin:      model.Position{X: s.random.Intn(size), Y: s.random.Intn(size)},
			Orientation: orientation,
			Length:      req.Length,
			Class:       req.Class,
		}
		if placement.Fits(placed, candidate) {
			return candidate, true
		}
	}
	return model.Ship{}, false
}
