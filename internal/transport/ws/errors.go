package ws

import (
	"errors"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/auth"
)

// Error codes carried alongside the error text
const (
	CodeInvalidFrame       = "INVALID_FRAME"
	CodeUnknownCommand     = "UNKNOWN_COMMAND"
	CodeNotRegistered      = "NOT_REGISTERED"
	CodeInvalidPlayerIndex = "INVALID_PLAYER_INDEX"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNameRequired       = "NAME_REQUIRED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeRoomFull           = "ROOM_FULL"
	CodeAlreadySeated      = "ALREADY_SEATED"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeNotInGame          = "NOT_IN_GAME"
	CodeGameNotInProgress  = "GAME_NOT_IN_PROGRESS"
	CodeGameFull           = "GAME_FULL"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeInvalidPosition    = "INVALID_POSITION"
	CodeAlreadyAttacked    = "ALREADY_ATTACKED"
	CodeNoCellsRemaining   = "NO_CELLS_REMAINING"
	CodeShipsAlreadyAdded  = "SHIPS_ALREADY_ADDED"
	CodeInvalidShip        = "INVALID_SHIP"
	CodeInvalidFleet       = "INVALID_FLEET"
	CodeBotUnavailable     = "BOT_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

var (
	errNotRegistered      = errors.New("player not registered")
	errInvalidPlayerIndex = errors.New("invalid player index")
)

// wireError is the code and text reported to the client for an error
type wireError struct {
	code string
	text string
}

var errorTable = []struct {
	target error
	wire   wireError
}{
	{errInvalidFrame, wireError{CodeInvalidFrame, "Invalid JSON or command"}},
	{errUnknownCommand, wireError{CodeUnknownCommand, "Unknown command"}},
	{errNotRegistered, wireError{CodeNotRegistered, "Player not registered"}},
	{errInvalidPlayerIndex, wireError{CodeInvalidPlayerIndex, "Invalid player index"}},
	{errInvalidShipFormat, wireError{CodeInvalidShip, "Invalid ship format"}},

	{auth.ErrInvalidCredentials, wireError{CodeInvalidCredentials, "Invalid password"}},
	{auth.ErrNameRequired, wireError{CodeNameRequired, "Name and password are required"}},

	{model.ErrPlayerNotFound, wireError{CodePlayerNotFound, "Player not found"}},
	{model.ErrRoomNotFound, wireError{CodeRoomNotFound, "Room not found"}},
	{model.ErrRoomFull, wireError{CodeRoomFull, "Room is full"}},
	{model.ErrAlreadySeated, wireError{CodeAlreadySeated, "Player is already in a room or game"}},
	{model.ErrMatchNotFound, wireError{CodeGameNotFound, "Game not found"}},
	{model.ErrNotInMatch, wireError{CodeNotInGame, "Player not in game"}},
	{model.ErrMatchNotInProgress, wireError{CodeGameNotInProgress, "Game is not in progress"}},
	{model.ErrMatchFull, wireError{CodeGameFull, "Game already has two players"}},
	{model.ErrNotPlayerTurn, wireError{CodeNotYourTurn, "Not your turn"}},
	{model.ErrInvalidPosition, wireError{CodeInvalidPosition, "Coordinates out of bounds"}},
	{model.ErrAlreadyAttacked, wireError{CodeAlreadyAttacked, "Cell already attacked"}},
	{model.ErrNoCellsRemaining, wireError{CodeNoCellsRemaining, "No available cells to attack"}},
	{model.ErrFleetAlreadyPlaced, wireError{CodeShipsAlreadyAdded, "Ships already added"}},
	{model.ErrInvalidShip, wireError{CodeInvalidShip, "Invalid ship length or type"}},
	{model.ErrInvalidOrientation, wireError{CodeInvalidShip, "Invalid ship direction"}},
	{model.ErrFleetComposition, wireError{CodeInvalidFleet, "Incorrect number of ships"}},
	{model.ErrShipOutOfBounds, wireError{CodeInvalidFleet, "Ship out of bounds"}},
	{model.ErrShipsOverlap, wireError{CodeInvalidFleet, "Ships overlap"}},
	{model.ErrShipsAdjacent, wireError{CodeInvalidFleet, "Ships touch each other"}},
	{model.ErrFleetPlacementExhausted, wireError{CodeBotUnavailable, "Could not start a game against the bot"}},
	{model.ErrUnknownBotStrategy, wireError{CodeBotUnavailable, "Could not start a game against the bot"}},
}

var internalError = wireError{CodeInternalError, "Internal server error"}

// toWireError maps an error onto its client-facing code and text
func toWireError(err error) wireError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.wire
		}
	}
	return internalError
}
