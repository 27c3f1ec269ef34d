package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadySeated  = errors.New("player is already in a room or game")
	ErrNotRoomCreator = errors.New("player did not create this room")

	// Match errors
	ErrMatchNotFound      = errors.New("game not found")
	ErrNotInMatch         = errors.New("player not in game")
	ErrMatchNotInProgress = errors.New("game is not in progress")
	ErrMatchFull          = errors.New("game already has two players")
	ErrNotPlayerTurn      = errors.New("not your turn")
	ErrInvalidPosition    = errors.New("coordinates out of bounds")
	ErrAlreadyAttacked    = errors.New("cell already attacked")
	ErrNoCellsRemaining   = errors.New("no available cells to attack")

	// Fleet errors
	ErrFleetAlreadyPlaced = errors.New("ships already added")
	ErrInvalidShip        = errors.New("invalid ship length or type")
	ErrInvalidOrientation = errors.New("invalid ship direction")
	ErrFleetComposition   = errors.New("incorrect number of ships")
	ErrShipOutOfBounds    = errors.New("ship out of bounds")
	ErrShipsOverlap       = errors.New("ships overlap")
	ErrShipsAdjacent      = errors.New("ships touch each other")

	// Bot errors
	ErrNotBot                  = errors.New("player is not a bot")
	ErrUnknownBotStrategy      = errors.New("unknown bot strategy")
	ErrFleetPlacementExhausted = errors.New("could not place fleet within attempt budget")
)
