package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
	"github.com/mcoot/seabattle-go/internal/storage"
)

const (
	// MatchIDLength is the length of generated match ids
	MatchIDLength = 12
	// MatchIDAlphabet is the character set for generated match ids
	MatchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// maxIDAttempts bounds the search for an unused match id
	maxIDAttempts = 10
)

var errIDSpaceExhausted = errors.New("could not allocate an unused match id")

// Observer is notified of match transitions after the match lock is released
type Observer interface {
	// TurnChanged fires whenever a match in progress hands the turn to playerID,
	// including the opening turn and a repeated turn after a hit
	TurnChanged(matchID model.MatchID, playerID model.PlayerID)
	// MatchEnded fires once a match has been removed from storage
	MatchEnded(match *model.Match)
}

// AttackResult is the outcome of a resolved attack
type AttackResult struct {
	Position    model.Position
	Outcome     model.AttackOutcome
	IsGameOver  bool
	RevealCells []model.Position
	NextTurn    model.PlayerID // Empty once the game is over
}

// Controller runs the match state machine: fleet placement, attack resolution
// and turn alternation. Each match is mutated under its own lock.
type Controller struct {
	storage     storage.Storage
	fleet       *fleet.Service
	leaderboard *leaderboard.Service
	broadcaster broadcast.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	locks      *matchLocks
	deliveries *matchLocks

	obsMu     sync.RWMutex
	observers []Observer
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	fleetService *fleet.Service,
	leaderboardService *leaderboard.Service,
	broadcaster broadcast.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		fleet:       fleetService,
		leaderboard: leaderboardService,
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "game-controller")),
		locks:       newMatchLocks(),
		deliveries:  newMatchLocks(),
	}
}

// AddObserver registers an observer for turn and end-of-match notifications
func (c *Controller) AddObserver(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, o)
}

// outbox collects side effects while a match is locked. They are flushed
// once the match lock is released.
type outbox struct {
	direct         []addressed
	turn           model.PlayerID
	ended          *model.Match
	publishWinners bool
}

type addressed struct {
	to    model.PlayerID
	event model.Event
}

func (o *outbox) send(to model.PlayerID, event model.Event) {
	o.direct = append(o.direct, addressed{to: to, event: event})
}

// sendMatch queues the event for every participant of the match
func (o *outbox) sendMatch(match *model.Match, event model.Event) {
	for _, slot := range match.Slots {
		o.send(slot.PlayerID, event)
	}
}

// mutate runs fn under the match lock and then flushes its outbox. The delivery
// lock is taken before the match lock is released, so events for one match
// reach players in the order their commands were resolved.
func (c *Controller) mutate(ctx context.Context, matchID model.MatchID, fn func(out *outbox) error) error {
	out := &outbox{}

	var release func()
	err := func() error {
		unlock := c.locks.lock(matchID)
		defer unlock()
		err := fn(out)
		release = c.deliveries.lock(matchID)
		return err
	}()
	if err != nil {
		release()
		return err
	}

	c.deliver(ctx, out)
	release()
	c.notify(matchID, out)
	return nil
}

func (c *Controller) deliver(ctx context.Context, out *outbox) {
	for _, d := range out.direct {
		c.broadcaster.SendToPlayer(d.to, d.event)
	}

	if out.publishWinners {
		_ = c.leaderboard.Publish(ctx)
	}
}

// notify runs observers after delivery, outside both locks
func (c *Controller) notify(matchID model.MatchID, out *outbox) {
	c.obsMu.RLock()
	observers := append([]Observer(nil), c.observers...)
	c.obsMu.RUnlock()

	for _, o := range observers {
		if out.ended != nil {
			o.MatchEnded(out.ended)
		} else if out.turn != "" {
			o.TurnChanged(matchID, out.turn)
		}
	}
}

func (c *Controller) newEvent(ctx context.Context, eventType model.EventType, match *model.Match, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		MatchID:   match.ID,
		PlayerID:  playerID,
		RequestID: broadcast.RequestID(ctx),
		Payload:   payload,
	}
}

// CreateMatch stores a new match awaiting fleets, seating the given players in order.
// A room placeholder has one player; a bot match has both.
func (c *Controller) CreateMatch(ctx context.Context, roomID model.RoomID, players ...*model.Player) (*model.Match, error) {
	if len(players) == 0 || len(players) > 2 {
		return nil, fmt.Errorf("match needs one or two players, got %d", len(players))
	}

	id, err := c.generateMatchID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	match := &model.Match{
		ID:        id,
		RoomID:    roomID,
		State:     model.MatchStateAwaitingShips,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range players {
		match.Slots = append(match.Slots, slotFor(p))
		if p.IsBot {
			match.IsBotMatch = true
		}
	}

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		c.logger.Error("failed to save match",
			slog.String("match_id", string(match.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(match.ID)),
		slog.String("room_id", string(roomID)),
		slog.Int("player_count", len(players)),
		slog.Bool("bot_match", match.IsBotMatch),
	)

	return match, nil
}

// AddPlayer fills the second slot of a placeholder match
func (c *Controller) AddPlayer(ctx context.Context, matchID model.MatchID, player *model.Player) (*model.Match, error) {
	unlock := c.locks.lock(matchID)
	defer unlock()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.HasPlayer(player.ID) {
		return nil, model.ErrAlreadySeated
	}
	if match.IsFull() {
		return nil, model.ErrMatchFull
	}

	match.Slots = append(match.Slots, slotFor(player))
	if player.IsBot {
		match.IsBotMatch = true
	}
	match.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// GetMatch retrieves a match by ID
func (c *Controller) GetMatch(ctx context.Context, matchID model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, matchID)
}

// PlaceFleet validates and stores a player's fleet. When both fleets are in,
// the match starts with slot 0 to move.
func (c *Controller) PlaceFleet(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, ships []model.Ship) (*model.Match, error) {
	var match *model.Match
	err := c.mutate(ctx, matchID, func(out *outbox) error {
		var err error
		match, err = c.placeFleet(ctx, matchID, playerID, ships, out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (c *Controller) placeFleet(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, ships []model.Ship, out *outbox) (*model.Match, error) {
	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	slot := match.Slot(playerID)
	if slot == nil {
		return nil, model.ErrNotInMatch
	}
	if slot.FleetPlaced {
		return nil, model.ErrFleetAlreadyPlaced
	}
	if err := c.fleet.Validate(ships); err != nil {
		return nil, err
	}

	slot.Ships = append([]model.Ship(nil), ships...)
	slot.Board = model.NewBoard(c.fleet.Rules().BoardSize)
	slot.FleetPlaced = true
	match.UpdatedAt = c.clock.Now()

	out.send(playerID, c.newEvent(ctx, model.EventShipsAdded, match, playerID, model.ShipsAddedPayload{
		MatchID:  match.ID,
		PlayerID: playerID,
	}))

	if match.AllFleetsPlaced() {
		c.start(ctx, match, out)
	}

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	c.logger.Info("fleet placed",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("state", string(match.State)),
	)

	return match, nil
}

// start moves a match with both fleets into play
func (c *Controller) start(ctx context.Context, match *model.Match, out *outbox) {
	match.State = model.MatchStateInProgress
	match.CurrentTurn = match.Slots[0].PlayerID

	for _, slot := range match.Slots {
		out.send(slot.PlayerID, c.newEvent(ctx, model.EventStartGame, match, slot.PlayerID, model.StartGamePayload{
			Ships:         append([]model.Ship(nil), slot.Ships...),
			CurrentPlayer: match.CurrentTurn,
		}))
	}
	for _, slot := range match.Slots {
		out.send(slot.PlayerID, c.newEvent(ctx, model.EventTurn, match, slot.PlayerID, model.TurnPayload{
			CurrentPlayer: match.CurrentTurn,
		}))
	}
	out.turn = match.CurrentTurn

	c.logger.Info("match started",
		slog.String("match_id", string(match.ID)),
		slog.String("current_turn", string(match.CurrentTurn)),
	)
}

// Attack fires at (x,y) on the opponent's fleet.
// Rejections, in order: match missing or not in play, wrong turn, out of bounds, repeat cell.
func (c *Controller) Attack(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID, pos model.Position) (*AttackResult, error) {
	return c.attackWith(ctx, matchID, attackerID, &pos)
}

// RandomAttack fires at a uniformly chosen cell the attacker has not yet recorded
func (c *Controller) RandomAttack(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID) (*AttackResult, error) {
	return c.attackWith(ctx, matchID, attackerID, nil)
}

func (c *Controller) attackWith(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID, pos *model.Position) (*AttackResult, error) {
	var result *AttackResult
	err := c.mutate(ctx, matchID, func(out *outbox) error {
		var err error
		result, err = c.attack(ctx, matchID, attackerID, pos, out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// attack resolves under the match lock. A nil pos picks a random unrecorded cell.
func (c *Controller) attack(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID, pos *model.Position, out *outbox) (*AttackResult, error) {
	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.State != model.MatchStateInProgress {
		return nil, model.ErrMatchNotInProgress
	}

	attacker, defender := c.participants(match)
	if attacker.PlayerID != attackerID {
		return nil, model.ErrNotPlayerTurn
	}

	board := attacker.Board
	if pos == nil {
		free := board.Unrecorded()
		if len(free) == 0 {
			return nil, model.ErrNoCellsRemaining
		}
		pos = &free[c.random.Intn(len(free))]
	}
	target := *pos

	if !board.IsValidPosition(target) {
		return nil, model.ErrInvalidPosition
	}
	if board.IsRecorded(target) {
		return nil, model.ErrAlreadyAttacked
	}

	result := resolve(c.fleet, board, defender.Ships, target)
	match.UpdatedAt = c.clock.Now()

	out.sendMatch(match, c.newEvent(ctx, model.EventAttackResult, match, attackerID, model.AttackResultPayload{
		Position:      target,
		CurrentPlayer: attackerID,
		Outcome:       result.Outcome,
	}))
	for _, cell := range result.RevealCells {
		out.sendMatch(match, c.newEvent(ctx, model.EventAttackResult, match, attackerID, model.AttackResultPayload{
			Position:      cell,
			CurrentPlayer: attackerID,
			Outcome:       model.OutcomeMiss,
		}))
	}

	c.logger.Debug("attack resolved",
		slog.String("match_id", string(match.ID)),
		slog.String("attacker", string(attackerID)),
		slog.Int("x", target.X),
		slog.Int("y", target.Y),
		slog.String("outcome", string(result.Outcome)),
		slog.Int("revealed", len(result.RevealCells)),
	)

	if result.IsGameOver {
		if err := c.finish(ctx, match, attackerID, true, out); err != nil {
			return nil, err
		}
		return result, nil
	}

	if result.Outcome == model.OutcomeMiss {
		match.CurrentTurn = defender.PlayerID
	}
	result.NextTurn = match.CurrentTurn

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	out.sendMatch(match, c.newEvent(ctx, model.EventTurn, match, match.CurrentTurn, model.TurnPayload{
		CurrentPlayer: match.CurrentTurn,
	}))
	out.turn = match.CurrentTurn

	return result, nil
}

// resolve records an attack at target on the attacker's board against the defender's ships
func resolve(fleetService *fleet.Service, board *model.Board, ships []model.Ship, target model.Position) *AttackResult {
	result := &AttackResult{Position: target, Outcome: model.OutcomeMiss}

	var hit *model.Ship
	for i := range ships {
		if ships[i].Occupies(target) {
			hit = &ships[i]
			break
		}
	}

	if hit == nil {
		board.Set(target, model.CellMiss)
		return result
	}

	board.Set(target, model.CellHit)
	result.Outcome = model.OutcomeHit

	if isSunk(board, *hit) {
		result.Outcome = model.OutcomeSunk
		for _, cell := range hit.Cells() {
			board.Set(cell, model.CellSunk)
		}
		for _, cell := range fleetService.Neighbours(*hit) {
			// Touching ships are legal under permissive rules and must stay attackable
			if board.IsRecorded(cell) || occupied(ships, cell) {
				continue
			}
			board.Set(cell, model.CellMiss)
			result.RevealCells = append(result.RevealCells, cell)
		}
	}

	result.IsGameOver = true
	for _, ship := range ships {
		if !isSunk(board, ship) {
			result.IsGameOver = false
			break
		}
	}

	return result
}

func occupied(ships []model.Ship, pos model.Position) bool {
	for _, ship := range ships {
		if ship.Occupies(pos) {
			return true
		}
	}
	return false
}

// isSunk reports whether every cell of the ship is recorded as hit or sunk
func isSunk(board *model.Board, ship model.Ship) bool {
	for _, cell := range ship.Cells() {
		state := board.Get(cell)
		if state != model.CellHit && state != model.CellSunk {
			return false
		}
	}
	return true
}

// participants returns the slot whose turn it is and the other slot.
// A match in play without a valid turn pointer is a programming fault.
func (c *Controller) participants(match *model.Match) (*model.MatchSlot, *model.MatchSlot) {
	attacker := match.Slot(match.CurrentTurn)
	if attacker == nil || !match.IsFull() {
		panic(fmt.Sprintf("game: match %s in progress without a valid turn (%q)", match.ID, match.CurrentTurn))
	}
	return attacker, match.Opponent(attacker.PlayerID)
}

// Forfeit ends a match on behalf of a departing player. In play, the opponent
// wins; before play starts the match is simply cancelled. Unknown matches are ignored.
func (c *Controller) Forfeit(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) error {
	return c.mutate(ctx, matchID, func(out *outbox) error {
		return c.forfeit(ctx, matchID, playerID, out)
	})
}

func (c *Controller) forfeit(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, out *outbox) error {
	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return nil
		}
		return err
	}
	if !match.HasPlayer(playerID) {
		return model.ErrNotInMatch
	}

	opponent := match.Opponent(playerID)
	c.logger.Info("match forfeited",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("state", string(match.State)),
	)

	if opponent == nil {
		return c.finish(ctx, match, "", false, out)
	}
	return c.finish(ctx, match, opponent.PlayerID, match.State == model.MatchStateInProgress, out)
}

// finish marks the match finished, removes it and any leftover room from storage,
// and credits the winner when countWin is set and the winner is human
func (c *Controller) finish(ctx context.Context, match *model.Match, winnerID model.PlayerID, countWin bool, out *outbox) error {
	match.State = model.MatchStateFinished
	match.Winner = winnerID
	match.CurrentTurn = ""
	match.UpdatedAt = c.clock.Now()

	if winnerID != "" {
		out.sendMatch(match, c.newEvent(ctx, model.EventFinish, match, winnerID, model.FinishPayload{
			Winner: winnerID,
		}))
	}

	if countWin && winnerID != "" {
		winner, err := c.storage.GetPlayer(ctx, winnerID)
		if err != nil {
			return err
		}
		if !winner.IsBot {
			winner.Wins++
			if err := c.storage.SavePlayer(ctx, winner); err != nil {
				return err
			}
		}
		out.publishWinners = true
	}

	if err := c.storage.DeleteMatch(ctx, match.ID); err != nil {
		return err
	}
	if match.RoomID != "" {
		if err := c.storage.DeleteRoom(ctx, match.RoomID); err != nil {
			return err
		}
	}

	out.ended = match
	c.logger.Info("match finished",
		slog.String("match_id", string(match.ID)),
		slog.String("winner", string(winnerID)),
	)
	return nil
}

func (c *Controller) generateMatchID(ctx context.Context) (model.MatchID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet))
		if id == "" {
			continue
		}
		_, err := c.storage.GetMatch(ctx, id)
		if errors.Is(err, model.ErrMatchNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errIDSpaceExhausted
}

func slotFor(p *model.Player) model.MatchSlot {
	return model.MatchSlot{
		PlayerID: p.ID,
		Name:     p.Name,
		IsBot:    p.IsBot,
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateMatch(ctx context.Context, roomID model.RoomID, players ...*model.Player) (*model.Match, error)
	AddPlayer(ctx context.Context, matchID model.MatchID, player *model.Player) (*model.Match, error)
	GetMatch(ctx context.Context, matchID model.MatchID) (*model.Match, error)
	PlaceFleet(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, ships []model.Ship) (*model.Match, error)
	Attack(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID, pos model.Position) (*AttackResult, error)
	RandomAttack(ctx context.Context, matchID model.MatchID, attackerID model.PlayerID) (*AttackResult, error)
	Forfeit(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
