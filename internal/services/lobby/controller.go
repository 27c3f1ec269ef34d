package lobby

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/storage"
)

const (
	// RoomIDLength is the length of generated room ids
	RoomIDLength = 6
	// RoomIDAlphabet is the characters used in room ids (avoid confusing chars)
	RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// maxIDAttempts bounds the search for an unused room id
	maxIDAttempts = 10
)

// Controller is the matchmaking directory: waiting rooms and who is seated where.
// Its lock guards seating decisions only; match state is guarded by the game controller.
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	broadcaster    broadcast.Broadcaster
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	mu sync.Mutex
}

// NewController creates a new LobbyController
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	broadcaster broadcast.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		broadcaster:    broadcaster,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "lobby-controller")),
	}
}

// CreateRoom opens a single-occupant room and its placeholder match
func (c *Controller) CreateRoom(ctx context.Context, playerID model.PlayerID) (*model.Room, error) {
	room, err := c.createRoom(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.PublishRooms(ctx)
	return room, nil
}

func (c *Controller) createRoom(ctx context.Context, playerID model.PlayerID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := c.ensureNotSeated(ctx, playerID); err != nil {
		return nil, err
	}

	roomID, err := c.generateRoomID(ctx)
	if err != nil {
		return nil, err
	}

	match, err := c.gameController.CreateMatch(ctx, roomID, player)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:        roomID,
		MatchID:   match.ID,
		Occupants: []model.RoomOccupant{{PlayerID: player.ID, Name: player.Name}},
		CreatedAt: c.clock.Now(),
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
	)
	return room, nil
}

// JoinRoom seats the player opposite the room's occupant. The room leaves the
// open list and both players are told which match they are in.
func (c *Controller) JoinRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID) (*model.Match, error) {
	match, err := c.joinRoom(ctx, playerID, roomID)
	if err != nil {
		return nil, err
	}

	for _, slot := range match.Slots {
		c.sendMatchCreated(ctx, match, slot.PlayerID)
	}
	c.PublishRooms(ctx)
	return match, nil
}

func (c *Controller) joinRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsOpen() {
		return nil, model.ErrRoomFull
	}
	if err := c.ensureNotSeated(ctx, playerID); err != nil {
		return nil, err
	}

	match, err := c.gameController.AddPlayer(ctx, room.MatchID, player)
	if err != nil {
		if errors.Is(err, model.ErrMatchFull) {
			return nil, model.ErrRoomFull
		}
		return nil, err
	}

	if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
		return nil, err
	}

	c.logger.Info("room joined",
		slog.String("room_id", string(roomID)),
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
	)
	return match, nil
}

// SeatBotMatch creates a match between a player and a bot identity, bypassing rooms
func (c *Controller) SeatBotMatch(ctx context.Context, playerID model.PlayerID, bot *model.Player) (*model.Match, error) {
	if !bot.IsBot {
		return nil, model.ErrNotBot
	}

	match, err := c.seatBotMatch(ctx, playerID, bot)
	if err != nil {
		return nil, err
	}
	c.sendMatchCreated(ctx, match, playerID)
	return match, nil
}

func (c *Controller) seatBotMatch(ctx context.Context, playerID model.PlayerID, bot *model.Player) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := c.ensureNotSeated(ctx, playerID); err != nil {
		return nil, err
	}

	return c.gameController.CreateMatch(ctx, "", player, bot)
}

// Leave removes a departing player from the directory: their open room is
// closed and any match they hold a slot in is forfeited
func (c *Controller) Leave(ctx context.Context, playerID model.PlayerID) error {
	closed, err := c.leave(ctx, playerID)
	if closed {
		c.PublishRooms(ctx)
	}
	return err
}

func (c *Controller) leave(ctx context.Context, playerID model.PlayerID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return false, err
	}
	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		return false, err
	}

	var errs []error
	closed := false
	for _, room := range rooms {
		if !room.HasOccupant(playerID) {
			continue
		}
		if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		closed = true
	}
	for _, match := range matches {
		if !match.HasPlayer(playerID) {
			continue
		}
		if err := c.gameController.Forfeit(ctx, match.ID, playerID); err != nil {
			errs = append(errs, fmt.Errorf("forfeit %s: %w", match.ID, err))
		}
	}

	if closed || len(errs) > 0 {
		c.logger.Info("player left",
			slog.String("player_id", string(playerID)),
			slog.Bool("room_closed", closed),
			slog.Int("errors", len(errs)),
		)
	}
	return closed, errors.Join(errs...)
}

// GetRoom retrieves a room by ID
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, roomID)
}

// ListOpenRooms yields the rooms currently waiting for an opponent, oldest first.
// Storage is read when iteration starts, so each range observes fresh state.
func (c *Controller) ListOpenRooms(ctx context.Context) iter.Seq[model.Room] {
	return func(yield func(model.Room) bool) {
		rooms, err := c.storage.ListRooms(ctx)
		if err != nil {
			c.logger.Error("failed to list rooms", slog.String("error", err.Error()))
			return
		}
		for _, room := range rooms {
			if !room.IsOpen() {
				continue
			}
			if !yield(*room) {
				return
			}
		}
	}
}

// PublishRooms broadcasts the open-room list to every connection
func (c *Controller) PublishRooms(ctx context.Context) {
	c.broadcaster.SendToAll(c.roomListEvent(ctx))
}

// SendRooms delivers the open-room list to a single player
func (c *Controller) SendRooms(ctx context.Context, playerID model.PlayerID) {
	c.broadcaster.SendToPlayer(playerID, c.roomListEvent(ctx))
}

func (c *Controller) roomListEvent(ctx context.Context) model.Event {
	rooms := slices.Collect(c.ListOpenRooms(ctx))
	if rooms == nil {
		rooms = []model.Room{}
	}
	return model.Event{
		Type:      model.EventRoomListUpdated,
		Timestamp: c.clock.Now(),
		RequestID: broadcast.RequestID(ctx),
		Payload:   model.RoomListPayload{Rooms: rooms},
	}
}

func (c *Controller) sendMatchCreated(ctx context.Context, match *model.Match, playerID model.PlayerID) {
	c.broadcaster.SendToPlayer(playerID, model.Event{
		Type:      model.EventMatchCreated,
		Timestamp: c.clock.Now(),
		MatchID:   match.ID,
		PlayerID:  playerID,
		RequestID: broadcast.RequestID(ctx),
		Payload:   model.MatchCreatedPayload{MatchID: match.ID, PlayerID: playerID},
	})
}

// ensureNotSeated fails if the player occupies any room or match slot.
// Callers hold c.mu.
func (c *Controller) ensureNotSeated(ctx context.Context, playerID model.PlayerID) error {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if room.HasOccupant(playerID) {
			return model.ErrAlreadySeated
		}
	}

	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		return err
	}
	for _, match := range matches {
		if match.HasPlayer(playerID) {
			return model.ErrAlreadySeated
		}
	}
	return nil
}

func (c *Controller) generateRoomID(ctx context.Context) (model.RoomID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := model.RoomID(c.random.String(RoomIDLength, RoomIDAlphabet))
		if id == "" {
			continue
		}
		_, err := c.storage.GetRoom(ctx, id)
		if errors.Is(err, model.ErrRoomNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate an unused room id")
}
