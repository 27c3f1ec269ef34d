package bot

import (
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
)

// Strategy defines how a bot lays out its fleet
type Strategy interface {
	// PlaceShips returns a complete fleet that satisfies the placement rules,
	// or model.ErrFleetPlacementExhausted once its attempt budget is spent
	PlaceShips(placement *fleet.Service) ([]model.Ship, error)
}
