package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

var errNotConnected = errors.New("connect to a session first")

// handleConnect - resumes the requested session or starts a new one when it is missing or malformed.
func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(c, msg.Action, err.Error())
	}

	known := pkg.IsSessionID(payloadReq.SessionID)

	var session *entity.Session
	if known {
		session, err = that.games.GetSession(ctx, payloadReq.SessionID)
	}

	if !known || errors.Is(err, apperror.ErrSessionNotFound) {
		session, err = that.games.NewSession(ctx)
	}

	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to get or create a session")
	}

	that.bind(c, session.ID)

	sessionView := view.NewSession(*session)
	if err = c.send(msg.Action, ResponsePayload{Session: &sessionView, Accepted: true}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("client connected", "sessionID", session.ID)

	return nil
}

// handleGameTurn - accepted moves reach the client through its subscription, ignored ones are answered directly.
func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "sessionID", c.sessionID)

	if c.sessionID == "" {
		return that.sendErrorResponse(c, msg.Action, errNotConnected.Error())
	}

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(c, msg.Action, err.Error())
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendErrorResponse(c, msg.Action, "cell is required")
	}

	turn, err := that.games.MakeTurn(ctx, c.sessionID, *payloadReq.Cell)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	if !turn.Accepted {
		return that.sendTurn(c, turn)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return that.sendErrorResponse(c, msg.Action, errNotConnected.Error())
	}

	if _, err := that.games.Reset(ctx, c.sessionID); err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	return nil
}

func (that *Server) handleGameMode(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return that.sendErrorResponse(c, msg.Action, errNotConnected.Error())
	}

	if _, err := that.games.SwitchMode(ctx, c.sessionID); err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	return nil
}

func (that *Server) sendTurn(c *client, turn usecase.Turn) error {
	sessionView := view.NewSession(turn.Session)

	return c.send(actionGameUpdate, ResponsePayload{
		Session:  &sessionView,
		Accepted: turn.Accepted,
		Event:    string(turn.Event),
	})
}

func (that *Server) sendGameError(c *client, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrSessionNotFound):
		return that.sendErrorResponse(c, action, err.Error())
	default:
		that.logger.Error("game request failed", "action", action, "sessionID", c.sessionID, "error", err)
		return that.sendErrorResponse(c, action, "internal error")
	}
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) error {
	if err := c.send(action, ResponsePayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func decodePayload(msg *Message) (RequestPayload, error) {
	var payload RequestPayload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload: %w", err)
	}

	return payload, nil
}
