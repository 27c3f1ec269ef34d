package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/auth"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
)

// Handler dispatches decoded frames to the engine services
type Handler struct {
	hub             *Hub
	authService     *auth.Service
	lobbyController *lobby.Controller
	gameController  *game.Controller
	botService      *bot.Service
	leaderboard     *leaderboard.Service
	logger          *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(
	hub *Hub,
	authService *auth.Service,
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	botService *bot.Service,
	leaderboard *leaderboard.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hub:             hub,
		authService:     authService,
		lobbyController: lobbyController,
		gameController:  gameController,
		botService:      botService,
		leaderboard:     leaderboard,
		logger:          logger.With(slog.String("component", "ws-handler")),
	}
}

// Handle processes one inbound frame. Failures are reported to the client as
// error frames carrying the request's id; a panic is logged and reported as
// an internal error without taking the connection down.
func (h *Handler) Handle(ctx context.Context, c *Client, frame []byte) {
	id := 0
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic handling frame",
				slog.String("conn_id", c.ID()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			h.replyWire(c, id, internalError)
		}
	}()

	req, reqID, err := Decode(frame)
	id = reqID
	if err != nil {
		h.logger.Warn("rejected frame",
			slog.String("conn_id", c.ID()),
			slog.String("error", err.Error()))
		h.replyError(c, id, err)
		return
	}

	ctx = broadcast.WithRequestID(ctx, id)
	if err := h.dispatch(ctx, c, req, id); err != nil {
		h.replyError(c, id, err)
	}
}

func (h *Handler) dispatch(ctx context.Context, c *Client, req Request, id int) error {
	if r, ok := req.(RegRequest); ok {
		return h.register(ctx, c, r, id)
	}

	playerID, ok := h.hub.PlayerOf(c)
	if !ok {
		return errNotRegistered
	}

	switch r := req.(type) {
	case CreateRoomRequest:
		room, err := h.lobbyController.CreateRoom(ctx, playerID)
		if err != nil {
			return err
		}
		h.reply(c, TypeCreateGame, createGameResponse{IDGame: string(room.MatchID), IDPlayer: string(playerID)}, id)
		return nil

	case AddUserToRoomRequest:
		_, err := h.lobbyController.JoinRoom(ctx, playerID, model.RoomID(r.IndexRoom))
		return err

	case AddShipsRequest:
		if err := checkIndex(playerID, r.IndexPlayer); err != nil {
			return err
		}
		ships, err := toShips(r.Ships)
		if err != nil {
			return err
		}
		_, err = h.gameController.PlaceFleet(ctx, model.MatchID(r.GameID), playerID, ships)
		return err

	case AttackRequest:
		if err := checkIndex(playerID, r.IndexPlayer); err != nil {
			return err
		}
		_, err := h.gameController.Attack(ctx, model.MatchID(r.GameID), playerID, model.Position{X: r.X, Y: r.Y})
		return err

	case RandomAttackRequest:
		if err := checkIndex(playerID, r.IndexPlayer); err != nil {
			return err
		}
		_, err := h.gameController.RandomAttack(ctx, model.MatchID(r.GameID), playerID)
		return err

	case SinglePlayRequest:
		_, err := h.botService.StartBotMatch(ctx, playerID)
		return err
	}

	return fmt.Errorf("%w: %s", errUnknownCommand, req.requestType())
}

// register binds the connection to a new or returning player. Credential
// problems are answered with a failed reg frame rather than an error frame.
func (h *Handler) register(ctx context.Context, c *Client, r RegRequest, id int) error {
	player, err := h.authService.Register(ctx, r.Name, r.Password)
	if errors.Is(err, auth.ErrNameRequired) || errors.Is(err, auth.ErrInvalidCredentials) {
		h.reply(c, TypeReg, regResponse{Name: r.Name, Error: true, ErrorText: toWireError(err).text}, id)
		return nil
	}
	if err != nil {
		return err
	}

	if displaced := h.hub.Bind(c, player.ID); displaced != "" {
		h.Disconnected(ctx, displaced)
	}
	h.reply(c, TypeReg, regResponse{Name: player.Name, Index: string(player.ID)}, id)

	h.lobbyController.SendRooms(ctx, player.ID)
	if err := h.leaderboard.Publish(ctx); err != nil {
		h.logger.Error("failed to publish winners", slog.String("error", err.Error()))
	}

	h.logger.Info("player bound",
		slog.String("conn_id", c.ID()),
		slog.String("player_id", string(player.ID)))
	return nil
}

// Disconnected releases everything the departing player held
func (h *Handler) Disconnected(ctx context.Context, playerID model.PlayerID) {
	if err := h.lobbyController.Leave(ctx, playerID); err != nil {
		h.logger.Error("failed to release departing player",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}
}

func checkIndex(bound model.PlayerID, claimed wireID) error {
	if model.PlayerID(claimed) != bound {
		return errInvalidPlayerIndex
	}
	return nil
}

func (h *Handler) reply(c *Client, msgType string, payload any, id int) {
	msg, err := NewMessage(msgType, payload, id)
	if err != nil {
		h.logger.Error("failed to encode reply", slog.String("error", err.Error()))
		return
	}
	h.hub.Send(c, msg)
}

func (h *Handler) replyError(c *Client, id int, err error) {
	we := toWireError(err)
	if we == internalError {
		h.logger.Error("request failed",
			slog.String("conn_id", c.ID()),
			slog.Int("request_id", id),
			slog.String("error", err.Error()))
	} else {
		h.logger.Debug("request rejected",
			slog.String("conn_id", c.ID()),
			slog.Int("request_id", id),
			slog.String("code", we.code))
	}
	h.replyWire(c, id, we)
}

func (h *Handler) replyWire(c *Client, id int, we wireError) {
	h.reply(c, TypeError, errorResponse{Error: true, ErrorText: we.text, Code: we.code}, id)
}
