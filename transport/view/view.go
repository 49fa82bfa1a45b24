// Package view holds the JSON shapes shared by the REST and websocket shells.
package view

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type State struct {
	Board        entity.Board   `json:"board"`
	CurrentMover entity.Mark    `json:"currentMover"`
	Mode         entity.Mode    `json:"mode"`
	Outcome      entity.Outcome `json:"outcome"`
	WinningLine  *entity.Line   `json:"winningLine,omitempty"`
	Scores       entity.Scores  `json:"scores"`
}

type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Turn struct {
	Session  Session       `json:"session"`
	Accepted bool          `json:"accepted"`
	Event    usecase.Event `json:"event"`
}

// NewState - hides the current mover once the game is over, nobody is to move then.
func NewState(state entity.GameState) State {
	view := State{
		Board:        state.Board,
		CurrentMover: state.CurrentMover,
		Mode:         state.Mode,
		Outcome:      state.Outcome,
		WinningLine:  state.WinningLine,
		Scores:       state.Scores,
	}

	if state.IsTerminal() {
		view.CurrentMover = entity.EmptyCell
	}

	return view
}

func NewSession(session entity.Session) Session {
	return Session{
		ID:        session.ID,
		State:     NewState(session.State),
		UpdatedAt: session.UpdatedAt,
	}
}

func NewTurn(turn usecase.Turn) Turn {
	return Turn{
		Session:  NewSession(turn.Session),
		Accepted: turn.Accepted,
		Event:    turn.Event,
	}
}
