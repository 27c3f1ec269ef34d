package testutil

import "github.com/mcoot/seabattle-go/internal/model"

// StandardFleet returns a legal strict-mode layout of the classic fleet.
// Every ship lies in rows 0, 2 and 4 with at least one empty cell between ships.
func StandardFleet() []model.Ship {
	h := func(x, y, length int, class model.ShipClass) model.Ship {
		return model.Ship{Origin: model.Position{X: x, Y: y}, Orientation: model.Horizontal, Length: length, Class: class}
	}
	return []model.Ship{
		h(0, 0, 4, model.ShipHuge),
		h(5, 0, 3, model.ShipLarge),
		h(0, 2, 3, model.ShipLarge),
		h(4, 2, 2, model.ShipMedium),
		h(7, 2, 2, model.ShipMedium),
		h(0, 4, 2, model.ShipMedium),
		h(3, 4, 1, model.ShipSmall),
		h(5, 4, 1, model.ShipSmall),
		h(7, 4, 1, model.ShipSmall),
		h(9, 4, 1, model.ShipSmall),
	}
}

// SingleCellFleet returns a one-ship fleet matching SingleCellRequirement
func SingleCellFleet(x, y int) []model.Ship {
	return []model.Ship{{Origin: model.Position{X: x, Y: y}, Orientation: model.Horizontal, Length: 1, Class: model.ShipSmall}}
}

// SingleCellRequirement is a fleet composition of one 1-cell ship
func SingleCellRequirement() []model.FleetRequirement {
	return []model.FleetRequirement{{Class: model.ShipSmall, Length: 1, Count: 1}}
}
