package entity

import "time"

// Session binds one client to its current game state.
type Session struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WithState - returns a copy of the session holding the next state.
func (that Session) WithState(state GameState, now time.Time) Session {
	that.State = state
	that.UpdatedAt = now
	return that
}
