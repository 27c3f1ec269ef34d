package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Matchmaking events
	EventRoomListUpdated EventType = "room_list_updated"
	EventMatchCreated    EventType = "match_created"
	EventWinnersUpdated  EventType = "winners_updated"

	// Match events
	EventShipsAdded   EventType = "ships_added"
	EventStartGame    EventType = "start_game"
	EventTurn         EventType = "turn"
	EventAttackResult EventType = "attack_result"
	EventFinish       EventType = "finish"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	MatchID   MatchID  // Empty for directory-wide events
	PlayerID  PlayerID // The player who triggered or is affected
	RequestID int      // Correlation id of the originating request, 0 if none
	Payload   any      // Type-specific data
}

// AttackOutcome is the result of a single attack. Values match the wire statuses.
type AttackOutcome string

const (
	OutcomeMiss AttackOutcome = "miss"
	OutcomeHit  AttackOutcome = "shot"
	OutcomeSunk AttackOutcome = "killed"
)

// RoomListPayload contains the rooms currently waiting for an opponent
type RoomListPayload struct {
	Rooms []Room
}

// MatchCreatedPayload tells a player which match they were seated in
type MatchCreatedPayload struct {
	MatchID  MatchID
	PlayerID PlayerID
}

// WinnersPayload contains the current leaderboard
type WinnersPayload struct {
	Winners []Winner
}

// ShipsAddedPayload confirms a stored fleet
type ShipsAddedPayload struct {
	MatchID  MatchID
	PlayerID PlayerID
}

// StartGamePayload contains the recipient's own fleet and the opening turn
type StartGamePayload struct {
	Ships         []Ship
	CurrentPlayer PlayerID
}

// TurnPayload names the player whose turn it is
type TurnPayload struct {
	CurrentPlayer PlayerID
}

// AttackResultPayload describes one recorded cell. Reveal cells use the same shape.
type AttackResultPayload struct {
	Position      Position
	CurrentPlayer PlayerID // The attacker
	Outcome       AttackOutcome
}

// FinishPayload names the winner of a match
type FinishPayload struct {
	Winner PlayerID
}
