package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameRequired       = errors.New("name and password are required")
)

// Service registers players and re-attaches returning ones
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	cost    int

	// Serialises the lookup-then-create in Register
	mu sync.Mutex
}

// Config holds configuration for the auth service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "auth-service")),
		cost:    cfg.BcryptCost,
	}
}

// Register returns the existing player when name and password match, or creates
// a new zero-win player when the name is unused. A known name with a different
// password fails with ErrInvalidCredentials.
func (s *Service) Register(ctx context.Context, name, password string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.storage.GetPlayerByName(ctx, name)
	if err == nil {
		if existing.IsBot {
			return nil, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)); err != nil {
			s.logger.Info("registration rejected", slog.String("name", name))
			return nil, ErrInvalidCredentials
		}
		s.logger.Info("player reattached", slog.String("player_id", string(existing.ID)))
		return existing, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:           model.PlayerID(generateID("p_")),
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", name),
	)
	return player, nil
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
