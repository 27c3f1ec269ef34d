package response

import (
	"time"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Occupant is a player waiting in a room
type Occupant struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// Room represents an open room in API responses
type Room struct {
	ID        string     `json:"id"`
	MatchID   string     `json:"match_id"`
	Occupants []Occupant `json:"occupants"`
	CreatedAt time.Time  `json:"created_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	occupants := make([]Occupant, len(r.Occupants))
	for i, o := range r.Occupants {
		occupants[i] = Occupant{PlayerID: string(o.PlayerID), Name: o.Name}
	}
	return Room{
		ID:        string(r.ID),
		MatchID:   string(r.MatchID),
		Occupants: occupants,
		CreatedAt: r.CreatedAt,
	}
}

// RoomList is the response for the open room listing
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Winner is a single leaderboard row
type Winner struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// WinnersFromModel converts leaderboard entries, never returning nil
func WinnersFromModel(winners []model.Winner) []Winner {
	out := make([]Winner, len(winners))
	for i, w := range winners {
		out[i] = Winner{Name: w.Name, Wins: w.Wins}
	}
	return out
}

// MatchPlayer is one seat of a match summary. Ship positions are never exposed.
type MatchPlayer struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"is_bot,omitempty"`
	FleetPlaced bool   `json:"fleet_placed"`
	ShotsFired  int    `json:"shots_fired"`
	Hits        int    `json:"hits"`
}

// Match is a spectator-safe match summary
type Match struct {
	ID          string        `json:"id"`
	RoomID      string        `json:"room_id,omitempty"`
	State       string        `json:"state"`
	Players     []MatchPlayer `json:"players"`
	CurrentTurn *string       `json:"current_turn"`
	Winner      *string       `json:"winner"`
	IsBotMatch  bool          `json:"is_bot_match"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// MatchFromModel converts a model.Match
func MatchFromModel(m *model.Match) Match {
	players := make([]MatchPlayer, len(m.Slots))
	for i, slot := range m.Slots {
		p := MatchPlayer{
			PlayerID:    string(slot.PlayerID),
			Name:        slot.Name,
			IsBot:       slot.IsBot,
			FleetPlaced: slot.FleetPlaced,
		}
		if slot.Board != nil {
			hits := slot.Board.Count(model.CellHit) + slot.Board.Count(model.CellSunk)
			p.Hits = hits
			p.ShotsFired = hits + slot.Board.Count(model.CellMiss)
		}
		players[i] = p
	}

	return Match{
		ID:          string(m.ID),
		RoomID:      string(m.RoomID),
		State:       string(m.State),
		Players:     players,
		CurrentTurn: optional(string(m.CurrentTurn)),
		Winner:      optional(string(m.Winner)),
		IsBotMatch:  m.IsBotMatch,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
