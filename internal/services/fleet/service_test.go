package fleet

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(DefaultRules())
}

func ship(x, y, length int, o model.Orientation, class model.ShipClass) model.Ship {
	return model.Ship{Origin: model.Position{X: x, Y: y}, Orientation: o, Length: length, Class: class}
}

// replace returns a copy of the standard fleet with one ship swapped out
func replace(i int, sh model.Ship) []model.Ship {
	ships := testutil.StandardFleet()
	ships[i] = sh
	return ships
}

func (s *ServiceSuite) TestStandardFleetIsValid() {
	s.NoError(s.service.Validate(testutil.StandardFleet()))
}

func (s *ServiceSuite) TestStandardFleetCoversTwentyCells() {
	s.Equal(20, model.FleetCellCount(s.service.Rules().Fleet))

	total := 0
	for _, sh := range testutil.StandardFleet() {
		total += len(sh.Cells())
	}
	s.Equal(20, total)
}

func (s *ServiceSuite) TestRejectsWrongLengthForClass() {
	err := s.service.Validate(replace(0, ship(0, 0, 3, model.Horizontal, model.ShipHuge)))
	s.ErrorIs(err, model.ErrInvalidShip)
}

func (s *ServiceSuite) TestRejectsUnknownClass() {
	err := s.service.Validate(replace(9, ship(9, 4, 1, model.Horizontal, "tiny")))
	s.ErrorIs(err, model.ErrInvalidShip)
}

func (s *ServiceSuite) TestRejectsInvalidOrientation() {
	err := s.service.Validate(replace(9, ship(9, 4, 1, "diagonal", model.ShipSmall)))
	s.ErrorIs(err, model.ErrInvalidOrientation)
}

func (s *ServiceSuite) TestRejectsMissingShip() {
	ships := testutil.StandardFleet()[:9]
	s.ErrorIs(s.service.Validate(ships), model.ErrFleetComposition)
}

func (s *ServiceSuite) TestRejectsExtraShip() {
	ships := append(testutil.StandardFleet(), ship(9, 9, 1, model.Horizontal, model.ShipSmall))
	s.ErrorIs(s.service.Validate(ships), model.ErrFleetComposition)
}

func (s *ServiceSuite) TestRejectsWrongClassMix() {
	// One large replaced by a fourth medium: counts deviate even though every pair is legal
	err := s.service.Validate(replace(1, ship(5, 0, 2, model.Horizontal, model.ShipMedium)))
	s.ErrorIs(err, model.ErrFleetComposition)
}

func (s *ServiceSuite) TestRejectsOutOfBounds() {
	cases := []model.Ship{
		ship(7, 6, 4, model.Horizontal, model.ShipHuge),
		ship(0, 7, 4, model.Vertical, model.ShipHuge),
		ship(-1, 6, 4, model.Horizontal, model.ShipHuge),
		ship(0, -1, 4, model.Vertical, model.ShipHuge),
	}
	for _, c := range cases {
		s.ErrorIs(s.service.Validate(replace(0, c)), model.ErrShipOutOfBounds, "ship %+v", c)
	}
}

func (s *ServiceSuite) TestShipTouchingEdgeIsInBounds() {
	// Huge ship moved to the bottom-right corner
	s.NoError(s.service.Validate(replace(0, ship(6, 9, 4, model.Horizontal, model.ShipHuge))))
	s.NoError(s.service.Validate(replace(0, ship(9, 6, 4, model.Vertical, model.ShipHuge))))
}

func (s *ServiceSuite) TestRejectsOverlap() {
	// A small ship placed on top of the huge ship
	err := s.service.Validate(replace(9, ship(2, 0, 1, model.Horizontal, model.ShipSmall)))
	s.ErrorIs(err, model.ErrShipsOverlap)
}

func (s *ServiceSuite) TestRejectsAdjacencyInStrictMode() {
	side := replace(9, ship(4, 0, 1, model.Horizontal, model.ShipSmall))
	s.ErrorIs(s.service.Validate(side), model.ErrShipsAdjacent)

	diagonal := replace(9, ship(4, 1, 1, model.Horizontal, model.ShipSmall))
	s.ErrorIs(s.service.Validate(diagonal), model.ErrShipsAdjacent)
}

func (s *ServiceSuite) TestAllowsAdjacencyWhenPermissive() {
	rules := DefaultRules()
	rules.ForbidAdjacent = false
	svc := New(rules)

	s.NoError(svc.Validate(replace(9, ship(4, 0, 1, model.Horizontal, model.ShipSmall))))
	s.ErrorIs(svc.Validate(replace(9, ship(2, 0, 1, model.Horizontal, model.ShipSmall))), model.ErrShipsOverlap)
}

func (s *ServiceSuite) TestNeighboursOfCornerShip() {
	got := s.service.Neighbours(ship(0, 0, 4, model.Horizontal, model.ShipHuge))

	want := []model.Position{
		{X: 4, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1},
	}
	s.Equal(want, got)
}

func (s *ServiceSuite) TestNeighboursOfMidBoardShip() {
	got := s.service.Neighbours(ship(5, 5, 2, model.Vertical, model.ShipMedium))

	// 3x4 box minus the two ship cells
	s.Len(got, 10)
	for _, p := range got {
		s.False(p.X == 5 && (p.Y == 5 || p.Y == 6))
	}
}

func (s *ServiceSuite) TestFits() {
	placed := []model.Ship{ship(0, 0, 4, model.Horizontal, model.ShipHuge)}

	s.True(s.service.Fits(placed, ship(5, 0, 3, model.Horizontal, model.ShipLarge)))
	s.False(s.service.Fits(placed, ship(4, 0, 3, model.Horizontal, model.ShipLarge)), "adjacent")
	s.False(s.service.Fits(placed, ship(3, 0, 1, model.Horizontal, model.ShipSmall)), "overlap")
	s.False(s.service.Fits(placed, ship(8, 0, 3, model.Horizontal, model.ShipLarge)), "out of bounds")
}

func (s *ServiceSuite) TestCustomComposition() {
	svc := New(Rules{BoardSize: model.BoardSize, Fleet: testutil.SingleCellRequirement(), ForbidAdjacent: true})
	s.NoError(svc.Validate(testutil.SingleCellFleet(3, 3)))
	s.ErrorIs(svc.Validate(testutil.StandardFleet()), model.ErrInvalidShip)
}
