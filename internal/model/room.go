package model

import "time"

// RoomID identifies a matchmaking room
type RoomID string

// RoomOccupant is a player waiting in a room
type RoomOccupant struct {
	PlayerID PlayerID
	Name     string
}

// Room holds a single waiting player until an opponent joins
type Room struct {
	ID        RoomID
	MatchID   MatchID // Placeholder match created with the room
	Occupants []RoomOccupant
	CreatedAt time.Time
}

// IsOpen returns true if the room is waiting for an opponent
func (r *Room) IsOpen() bool {
	return len(r.Occupants) == 1
}

// HasOccupant returns true if the player is in the room
func (r *Room) HasOccupant(playerID PlayerID) bool {
	for _, o := range r.Occupants {
		if o.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Clone returns a copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Occupants = append([]RoomOccupant(nil), r.Occupants...)
	return &c
}
