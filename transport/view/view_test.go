package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

func TestNewState(t *testing.T) {
	t.Run("Ongoing game shows the mover and no line", func(t *testing.T) {
		// Given: a game after X took the center
		state := tictactoe.ApplyMove(tictactoe.NewGame(entity.ModeSingle), 4)

		// When: rendering it as JSON
		data, err := json.Marshal(NewState(state))
		require.NoError(t, err)

		// Then: O is to move and the winning line is omitted
		assert.JSONEq(t, `{
			"board": ["", "", "", "", "X", "", "", "", ""],
			"currentMover": "O",
			"mode": "single",
			"outcome": "",
			"scores": {"x": 0, "o": 0, "draws": 0}
		}`, string(data))
	})

	t.Run("Won game hides the mover and shows the line", func(t *testing.T) {
		// Given: X wins the top row
		state := tictactoe.NewGame(entity.ModeTwoPlayer)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			state = tictactoe.ApplyMove(state, cell)
		}

		// When: rendering it as JSON
		data, err := json.Marshal(NewState(state))
		require.NoError(t, err)

		// Then: nobody is to move and the line is present
		assert.JSONEq(t, `{
			"board": ["X", "X", "X", "O", "O", "", "", "", ""],
			"currentMover": "",
			"mode": "two-player",
			"outcome": "x",
			"winningLine": [0, 1, 2],
			"scores": {"x": 1, "o": 0, "draws": 0}
		}`, string(data))
	})
}

func TestNewTurn(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	session := entity.Session{ID: "abc", State: tictactoe.NewGame(entity.ModeTwoPlayer), UpdatedAt: now}

	turn := NewTurn(usecase.Turn{Session: session, Accepted: true, Event: usecase.EventReset})

	assert.Equal(t, "abc", turn.Session.ID)
	assert.Equal(t, now, turn.Session.UpdatedAt)
	assert.True(t, turn.Accepted)
	assert.Equal(t, usecase.EventReset, turn.Event)
	assert.Equal(t, entity.PlayerX, turn.Session.State.CurrentMover)
}
