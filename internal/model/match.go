package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchState represents the lifecycle phase of a match
type MatchState string

const (
	MatchStateAwaitingShips MatchState = "awaiting_ships" // 0-2 fleets submitted
	MatchStateInProgress    MatchState = "in_progress"    // Turn alternation active
	MatchStateFinished      MatchState = "finished"       // One fleet fully sunk or forfeited
)

// MatchSlot is one player's seat in a match
type MatchSlot struct {
	PlayerID    PlayerID
	Name        string
	IsBot       bool
	Ships       []Ship
	Board       *Board // Attacks this player has made; nil until the fleet is placed
	FleetPlaced bool
}

// Match is a two-player battle
type Match struct {
	ID          MatchID
	RoomID      RoomID // Empty for bot matches
	State       MatchState
	Slots       []MatchSlot
	CurrentTurn PlayerID // Empty until the match is in progress
	Winner      PlayerID
	IsBotMatch  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Slot returns the slot for the given player, or nil if not seated
func (m *Match) Slot(playerID PlayerID) *MatchSlot {
	for i := range m.Slots {
		if m.Slots[i].PlayerID == playerID {
			return &m.Slots[i]
		}
	}
	return nil
}

// Opponent returns the slot of the other player, or nil if not present
func (m *Match) Opponent(playerID PlayerID) *MatchSlot {
	if m.Slot(playerID) == nil {
		return nil
	}
	for i := range m.Slots {
		if m.Slots[i].PlayerID != playerID {
			return &m.Slots[i]
		}
	}
	return nil
}

// HasPlayer returns true if the player holds a slot
func (m *Match) HasPlayer(playerID PlayerID) bool {
	return m.Slot(playerID) != nil
}

// IsFull returns true once both slots are filled
func (m *Match) IsFull() bool {
	return len(m.Slots) == 2
}

// AllFleetsPlaced returns true if both slots are filled and have fleets
func (m *Match) AllFleetsPlaced() bool {
	if !m.IsFull() {
		return false
	}
	for _, slot := range m.Slots {
		if !slot.FleetPlaced {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the match
func (m *Match) Clone() *Match {
	c := *m
	c.Slots = make([]MatchSlot, len(m.Slots))
	for i, slot := range m.Slots {
		cs := slot
		cs.Ships = append([]Ship(nil), slot.Ships...)
		if slot.Board != nil {
			cs.Board = slot.Board.Clone()
		}
		c.Slots[i] = cs
	}
	return &c
}
