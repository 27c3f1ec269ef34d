package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Inbound frame types
const (
	TypeReg           = "reg"
	TypeCreateRoom    = "create_room"
	TypeAddUserToRoom = "add_user_to_room"
	TypeAddShips      = "add_ships"
	TypeAttack        = "attack"
	TypeRandomAttack  = "randomAttack"
	TypeSinglePlay    = "single_play"
)

// Outbound frame types not shared with inbound ones
const (
	TypeUpdateRoom    = "update_room"
	TypeUpdateWinners = "update_winners"
	TypeCreateGame    = "create_game"
	TypeShipsAdded    = "ships_added"
	TypeStartGame     = "start_game"
	TypeTurn          = "turn"
	TypeFinish        = "finish"
	TypeError         = "error"
)

var (
	errInvalidFrame   = errors.New("invalid frame")
	errUnknownCommand = errors.New("unknown command")
)

// Envelope is an inbound frame. Data is either a JSON-encoded string or a raw object.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	ID   int             `json:"id"`
}

// Message is an outbound frame. Data always carries a JSON-encoded string.
type Message struct {
	Type string `json:"type"`
	Data string `json:"data"`
	ID   int    `json:"id"`
}

// Request is one decoded inbound command
type Request interface {
	requestType() string
}

type RegRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type CreateRoomRequest struct{}

type AddUserToRoomRequest struct {
	IndexRoom wireID `json:"indexRoom"`
}

type AddShipsRequest struct {
	GameID      wireID     `json:"gameId"`
	Ships       []wireShip `json:"ships"`
	IndexPlayer wireID     `json:"indexPlayer"`
}

type AttackRequest struct {
	GameID      wireID `json:"gameId"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	IndexPlayer wireID `json:"indexPlayer"`
}

type RandomAttackRequest struct {
	GameID      wireID `json:"gameId"`
	IndexPlayer wireID `json:"indexPlayer"`
}

type SinglePlayRequest struct{}

func (RegRequest) requestType() string           { return TypeReg }
func (CreateRoomRequest) requestType() string    { return TypeCreateRoom }
func (AddUserToRoomRequest) requestType() string { return TypeAddUserToRoom }
func (AddShipsRequest) requestType() string      { return TypeAddShips }
func (AttackRequest) requestType() string        { return TypeAttack }
func (RandomAttackRequest) requestType() string  { return TypeRandomAttack }
func (SinglePlayRequest) requestType() string    { return TypeSinglePlay }

// Decode parses a frame into a typed request and returns the frame's correlation id.
// Unknown types return errUnknownCommand along with the id; malformed frames return errInvalidFrame.
func Decode(frame []byte) (Request, int, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errInvalidFrame, err)
	}

	data, err := unwrapData(env.Data)
	if err != nil {
		return nil, env.ID, err
	}

	var req Request
	switch env.Type {
	case TypeReg:
		req, err = decodeAs[RegRequest](data)
	case TypeCreateRoom:
		req, err = decodeAs[CreateRoomRequest](data)
	case TypeAddUserToRoom:
		req, err = decodeAs[AddUserToRoomRequest](data)
	case TypeAddShips:
		req, err = decodeAs[AddShipsRequest](data)
	case TypeAttack:
		req, err = decodeAs[AttackRequest](data)
	case TypeRandomAttack:
		req, err = decodeAs[RandomAttackRequest](data)
	case TypeSinglePlay:
		req, err = decodeAs[SinglePlayRequest](data)
	default:
		return nil, env.ID, fmt.Errorf("%w: %q", errUnknownCommand, env.Type)
	}
	if err != nil {
		return nil, env.ID, err
	}
	return req, env.ID, nil
}

func decodeAs[T Request](data []byte) (Request, error) {
	var req T
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidFrame, err)
	}
	return req, nil
}

// unwrapData turns a string-encoded payload into its JSON form. Missing,
// null and empty-string payloads decode as an empty object.
func unwrapData(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []byte("{}"), nil
	}
	if raw[0] != '"' {
		return raw, nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidFrame, err)
	}
	if inner == "" {
		return []byte("{}"), nil
	}
	return []byte(inner), nil
}

// wireID accepts identifiers sent either as strings or numbers
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

type wirePosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// wireShip is a ship as clients send it. Direction true means horizontal.
type wireShip struct {
	Position  *wirePosition `json:"position"`
	Direction bool          `json:"direction"`
	Length    int           `json:"length"`
	Type      string        `json:"type"`
}

var errInvalidShipFormat = errors.New("invalid ship format")

func toShips(ships []wireShip) ([]model.Ship, error) {
	out := make([]model.Ship, 0, len(ships))
	for _, s := range ships {
		if s.Position == nil || s.Type == "" {
			return nil, errInvalidShipFormat
		}
		orientation := model.Vertical
		if s.Direction {
			orientation = model.Horizontal
		}
		out = append(out, model.Ship{
			Origin:      model.Position{X: s.Position.X, Y: s.Position.Y},
			Orientation: orientation,
			Length:      s.Length,
			Class:       model.ShipClass(s.Type),
		})
	}
	return out, nil
}

func fromShips(ships []model.Ship) []wireShip {
	out := make([]wireShip, 0, len(ships))
	for _, s := range ships {
		out = append(out, wireShip{
			Position:  &wirePosition{X: s.Origin.X, Y: s.Origin.Y},
			Direction: s.Orientation == model.Horizontal,
			Length:    s.Length,
			Type:      string(s.Class),
		})
	}
	return out
}

// Outbound payloads

type regResponse struct {
	Name      string `json:"name"`
	Index     string `json:"index"`
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}

type roomUser struct {
	Name  string `json:"name"`
	Index string `json:"index"`
}

type roomInfo struct {
	RoomID    string     `json:"roomId"`
	RoomUsers []roomUser `json:"roomUsers"`
}

type updateRoomResponse struct {
	Rooms []roomInfo `json:"rooms"`
}

type winnerInfo struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

type createGameResponse struct {
	IDGame   string `json:"idGame"`
	IDPlayer string `json:"idPlayer"`
}

type shipsAddedResponse struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type startGameResponse struct {
	Ships              []wireShip `json:"ships"`
	CurrentPlayerIndex string     `json:"currentPlayerIndex"`
}

type turnResponse struct {
	CurrentPlayer string `json:"currentPlayer"`
}

type attackResponse struct {
	Status        string       `json:"status"`
	Position      wirePosition `json:"position"`
	CurrentPlayer string       `json:"currentPlayer"`
}

type finishResponse struct {
	WinPlayer string `json:"winPlayer"`
}

type errorResponse struct {
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
	Code      string `json:"code,omitempty"`
}

// NewMessage encodes payload as the frame's string data
func NewMessage(msgType string, payload any, id int) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return Message{Type: msgType, Data: string(b), ID: id}, nil
}

// EncodeEvent converts an engine event into its wire frame
func EncodeEvent(event model.Event) (Message, error) {
	var (
		msgType string
		payload any
	)

	switch p := event.Payload.(type) {
	case model.RoomListPayload:
		msgType = TypeUpdateRoom
		rooms := make([]roomInfo, 0, len(p.Rooms))
		for _, room := range p.Rooms {
			users := make([]roomUser, 0, len(room.Occupants))
			for _, o := range room.Occupants {
				users = append(users, roomUser{Name: o.Name, Index: string(o.PlayerID)})
			}
			rooms = append(rooms, roomInfo{RoomID: string(room.ID), RoomUsers: users})
		}
		payload = updateRoomResponse{Rooms: rooms}
	case model.WinnersPayload:
		msgType = TypeUpdateWinners
		winners := make([]winnerInfo, 0, len(p.Winners))
		for _, w := range p.Winners {
			winners = append(winners, winnerInfo{Name: w.Name, Wins: w.Wins})
		}
		payload = winners
	case model.MatchCreatedPayload:
		msgType = TypeCreateGame
		payload = createGameResponse{IDGame: string(p.MatchID), IDPlayer: string(p.PlayerID)}
	case model.ShipsAddedPayload:
		msgType = TypeShipsAdded
		payload = shipsAddedResponse{GameID: string(p.MatchID), PlayerID: string(p.PlayerID)}
	case model.StartGamePayload:
		msgType = TypeStartGame
		payload = startGameResponse{Ships: fromShips(p.Ships), CurrentPlayerIndex: string(p.CurrentPlayer)}
	case model.TurnPayload:
		msgType = TypeTurn
		payload = turnResponse{CurrentPlayer: string(p.CurrentPlayer)}
	case model.AttackResultPayload:
		msgType = TypeAttack
		payload = attackResponse{
			Status:        string(p.Outcome),
			Position:      wirePosition{X: p.Position.X, Y: p.Position.Y},
			CurrentPlayer: string(p.CurrentPlayer),
		}
	case model.FinishPayload:
		msgType = TypeFinish
		payload = finishResponse{WinPlayer: string(p.Winner)}
	default:
		return Message{}, fmt.Errorf("no wire encoding for event %s", event.Type)
	}

	return NewMessage(msgType, payload, event.RequestID)
}
