package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/auth"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock       *mocks.MockClock
	MockRandom      *mocks.MockRandom
	MockBroadcaster *mocks.MockBroadcaster
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig creates a test App on top of cfg. Storage is always in
// memory and bcrypt runs at its minimum cost unless cfg says otherwise.
func NewTestAppWithConfig(cfg Config) *TestApp {
	if cfg.Logger == nil {
		cfg.Logger = testutil.NopLogger()
	}
	if cfg.AuthConfig == (auth.Config{}) {
		cfg.AuthConfig = auth.Config{BcryptCost: bcrypt.MinCost}
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockBroadcaster := mocks.NewMockBroadcaster()

	app := newWithDependencies(store, mockClock, mockRandom, mockBroadcaster, cfg.withDefaults())

	return &TestApp{
		App:             app,
		MockClock:       mockClock,
		MockRandom:      mockRandom,
		MockBroadcaster: mockBroadcaster,
	}
}

// QueueBotFleet queues random draws so the bot's random strategy places
// exactly these ships, in order, on its first attempt each
func (t *TestApp) QueueBotFleet(ships []model.Ship) {
	for _, ship := range ships {
		orientation := 0
		if ship.Orientation == model.Vertical {
			orientation = 1
		}
		t.MockRandom.QueueIntn(orientation, ship.Origin.X, ship.Origin.Y)
	}
}
