package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered participant or a synthesized bot
type Player struct {
	ID           PlayerID
	Name         string
	PasswordHash string // bcrypt hash, empty for bots
	Wins         int
	IsBot        bool
	BotStrategy  string
	CreatedAt    time.Time
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// Winner is a single leaderboard entry
type Winner struct {
	Name string
	Wins int
}
