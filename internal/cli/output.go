package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter, writing to stdout if w is nil
func NewOutput(w io.Writer, format string) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case RoomList:
		o.printRooms(v)
	case Room:
		o.printRoom(v)
	case Winners:
		o.printWinners(v)
	case MatchSummary:
		o.printMatch(v)
	case Frame:
		o.printFrame(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Occupant response type
type Occupant struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// Room response type
type Room struct {
	ID        string     `json:"id"`
	MatchID   string     `json:"match_id"`
	Occupants []Occupant `json:"occupants"`
	CreatedAt time.Time  `json:"created_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Winner response type
type Winner struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Winners is the leaderboard response
type Winners []Winner

// MatchPlayer response type
type MatchPlayer struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"is_bot,omitempty"`
	FleetPlaced bool   `json:"fleet_placed"`
	ShotsFired  int    `json:"shots_fired"`
	Hits        int    `json:"hits"`
}

// MatchSummary response type
type MatchSummary struct {
	ID          string        `json:"id"`
	RoomID      string        `json:"room_id,omitempty"`
	State       string        `json:"state"`
	Players     []MatchPlayer `json:"players"`
	CurrentTurn *string       `json:"current_turn"`
	Winner      *string       `json:"winner"`
	IsBotMatch  bool          `json:"is_bot_match"`
}

func (o *Output) printRooms(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No open rooms")
		return
	}
	fmt.Fprintf(o.w, "Open rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		fmt.Fprintf(o.w, "  - %s waiting: %s\n", r.ID, occupantNames(r.Occupants))
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.ID)
	fmt.Fprintf(o.w, "Match: %s\n", r.MatchID)
	fmt.Fprintf(o.w, "Waiting: %s\n", occupantNames(r.Occupants))
}

func occupantNames(occupants []Occupant) string {
	names := make([]string, len(occupants))
	for i, occ := range occupants {
		names[i] = occ.Name
	}
	return strings.Join(names, ", ")
}

func (o *Output) printWinners(w Winners) {
	if len(w) == 0 {
		fmt.Fprintln(o.w, "No players yet")
		return
	}
	for i, entry := range w {
		fmt.Fprintf(o.w, "%2d. %s (%d)\n", i+1, entry.Name, entry.Wins)
	}
}

func (o *Output) printMatch(m MatchSummary) {
	fmt.Fprintf(o.w, "Match: %s\n", m.ID)
	fmt.Fprintf(o.w, "State: %s\n", m.State)
	if m.IsBotMatch {
		fmt.Fprintln(o.w, "Opponent: bot")
	}
	if m.CurrentTurn != nil {
		fmt.Fprintf(o.w, "Turn: %s\n", *m.CurrentTurn)
	}
	fmt.Fprintf(o.w, "Players (%d):\n", len(m.Players))
	for _, p := range m.Players {
		fleet := "placing ships"
		if p.FleetPlaced {
			fleet = "ready"
		}
		fmt.Fprintf(o.w, "  - %s (%s) %s, %d/%d hits\n", p.Name, p.PlayerID, fleet, p.Hits, p.ShotsFired)
	}
	if m.Winner != nil {
		fmt.Fprintf(o.w, "Winner: %s\n", *m.Winner)
	}
}

func (o *Output) printFrame(f Frame) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	data := strings.ReplaceAll(f.Data, "\n", " ")
	if len(data) > 100 {
		data = data[:100] + "..."
	}
	fmt.Fprintf(o.w, "[%s] %s: %s\n", timestamp, f.Type, data)
}
