package tictactoe

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func play(state entity.GameState, cells ...int) entity.GameState {
	for _, cell := range cells {
		state = ApplyMove(state, cell)
	}
	return state
}

// sequence - index source that replays fixed values and records the n it was asked for.
func sequence(values ...int) (IndexSource, *[]int) {
	var asked []int
	return func(n int) int {
		asked = append(asked, n)
		value := values[0]
		values = values[1:]
		return value
	}, &asked
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	state := NewGame(entity.ModeTwoPlayer)

	// Then: the board is empty, X moves first and nothing is scored
	expected := entity.GameState{
		Board:        entity.Board{e, e, e, e, e, e, e, e, e},
		CurrentMover: x,
		Mode:         entity.ModeTwoPlayer,
		Outcome:      entity.OutcomeNone,
		WinningLine:  nil,
		Scores:       entity.Scores{},
	}

	require.Equal(t, expected, state)
}

func TestIsLegalMove(t *testing.T) {
	t.Run("Empty cell in an ongoing game is legal", func(t *testing.T) {
		state := NewGame(entity.ModeTwoPlayer)

		for cell := 0; cell < 9; cell++ {
			assert.True(t, IsLegalMove(state, cell), "cell %d", cell)
		}
	})

	t.Run("Occupied cell is illegal", func(t *testing.T) {
		// Given: X has taken cell 4
		state := play(NewGame(entity.ModeTwoPlayer), 4)

		// Then: cell 4 can not be taken again
		assert.False(t, IsLegalMove(state, 4))
		assert.True(t, IsLegalMove(state, 0))
	})

	t.Run("Any cell is illegal once the game is over", func(t *testing.T) {
		// Given: X has won on the top row
		state := play(NewGame(entity.ModeTwoPlayer), 0, 3, 1, 4, 2)
		require.True(t, state.IsTerminal())

		// Then: even empty cells are rejected
		assert.False(t, IsLegalMove(state, 5))
		assert.False(t, IsLegalMove(state, 8))
	})

	t.Run("Cells outside the board are illegal", func(t *testing.T) {
		state := NewGame(entity.ModeTwoPlayer)

		assert.False(t, IsLegalMove(state, -1))
		assert.False(t, IsLegalMove(state, 9))
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("Places the mover's mark and passes the turn", func(t *testing.T) {
		// Given: a new game
		state := NewGame(entity.ModeTwoPlayer)

		// When: X plays the center
		next := ApplyMove(state, 4)

		// Then: the mark is placed and O is to move
		expected := entity.GameState{
			Board:        entity.Board{e, e, e, e, x, e, e, e, e},
			CurrentMover: o,
			Mode:         entity.ModeTwoPlayer,
		}
		require.Equal(t, expected, next)

		// And: the original state is untouched
		assert.Equal(t, entity.Board{}, state.Board)
		assert.Equal(t, x, state.CurrentMover)
	})

	t.Run("Row win", func(t *testing.T) {
		// Given: a new game
		state := NewGame(entity.ModeTwoPlayer)

		// When: X:0 O:3 X:1 O:4 X:2
		state = play(state, 0, 3, 1, 4, 2)

		// Then: X wins on the top row and is scored once
		require.Equal(t, entity.OutcomeWinX, state.Outcome)
		require.NotNil(t, state.WinningLine)
		assert.Equal(t, entity.Line{0, 1, 2}, *state.WinningLine)
		assert.Equal(t, entity.Scores{X: 1}, state.Scores)
		assert.True(t, state.IsTerminal())
	})

	t.Run("Column win for O", func(t *testing.T) {
		// When: X:0 O:1 X:3 O:4 X:8 O:7
		state := play(NewGame(entity.ModeTwoPlayer), 0, 1, 3, 4, 8, 7)

		// Then: O wins on the middle column
		require.Equal(t, entity.OutcomeWinO, state.Outcome)
		assert.Equal(t, entity.Line{1, 4, 7}, *state.WinningLine)
		assert.Equal(t, entity.Scores{O: 1}, state.Scores)
	})

	t.Run("Draw", func(t *testing.T) {
		// When: X:0 O:1 X:2 O:4 X:3 O:5 X:7 O:6 X:8
		state := play(NewGame(entity.ModeTwoPlayer), 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the board is full, no triple is uniform and the draw is counted
		assert.True(t, state.Board.IsFull())
		_, won := DetectWinner(state.Board)
		assert.False(t, won)
		assert.Equal(t, entity.OutcomeDraw, state.Outcome)
		assert.Nil(t, state.WinningLine)
		assert.Equal(t, entity.Scores{Draws: 1}, state.Scores)
	})

	t.Run("Win on the last cell is a win, not a draw", func(t *testing.T) {
		// Given: X:0 O:1 X:2 O:4 X:3 O:5 X:7 O:8, then X completes column 0,3,6
		state := play(NewGame(entity.ModeTwoPlayer), 0, 1, 2, 4, 3, 5, 7, 8, 6)

		// Then: the full board reports the win
		assert.True(t, state.Board.IsFull())
		assert.Equal(t, entity.OutcomeWinX, state.Outcome)
		assert.Equal(t, entity.Line{0, 3, 6}, *state.WinningLine)
		assert.Equal(t, entity.Scores{X: 1}, state.Scores)
	})

	t.Run("Second move on the same cell is a no-op", func(t *testing.T) {
		// Given: X has registered at cell 0
		first := ApplyMove(NewGame(entity.ModeTwoPlayer), 0)
		require.Equal(t, x, first.Board[0])

		// When: cell 0 is requested again
		second := ApplyMove(first, 0)

		// Then: the state is returned unchanged
		require.Equal(t, first, second)
		assert.Equal(t, o, second.CurrentMover)
	})

	t.Run("Moves after the game finished are no-ops", func(t *testing.T) {
		// Given: a won game
		won := play(NewGame(entity.ModeTwoPlayer), 0, 3, 1, 4, 2)

		// When: the next player tries an empty cell
		next := ApplyMove(won, 8)

		// Then: nothing changes, the score is not counted twice
		require.Equal(t, won, next)
		assert.Equal(t, 1, next.Scores.X)
	})

	t.Run("Cells outside the board are no-ops", func(t *testing.T) {
		state := NewGame(entity.ModeTwoPlayer)

		assert.Equal(t, state, ApplyMove(state, -1))
		assert.Equal(t, state, ApplyMove(state, 9))
	})
}

func TestDetectWinner(t *testing.T) {
	cases := []struct {
		name  string
		board entity.Board
		mark  entity.Mark
		line  entity.Line
		won   bool
	}{
		{
			name:  "top row",
			board: entity.Board{x, x, x, o, o, e, e, e, e},
			mark:  x, line: entity.Line{0, 1, 2}, won: true,
		},
		{
			name:  "bottom row",
			board: entity.Board{x, x, e, x, e, e, o, o, o},
			mark:  o, line: entity.Line{6, 7, 8}, won: true,
		},
		{
			name:  "right column",
			board: entity.Board{e, o, x, e, o, x, e, e, x},
			mark:  x, line: entity.Line{2, 5, 8}, won: true,
		},
		{
			name:  "main diagonal",
			board: entity.Board{o, x, x, e, o, x, e, e, o},
			mark:  o, line: entity.Line{0, 4, 8}, won: true,
		},
		{
			name:  "anti diagonal",
			board: entity.Board{o, o, x, e, x, e, x, e, e},
			mark:  x, line: entity.Line{2, 4, 6}, won: true,
		},
		{
			name:  "earlier triple takes precedence",
			board: entity.Board{x, x, x, x, x, x, o, o, e},
			mark:  x, line: entity.Line{0, 1, 2}, won: true,
		},
		{
			name:  "ongoing",
			board: entity.Board{x, o, x, e, o, e, e, x, e},
		},
		{
			name:  "empty board",
			board: entity.Board{},
		},
		{
			name:  "draw",
			board: entity.Board{x, o, x, x, o, o, o, x, x},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// When: scanning the board
			winner, won := DetectWinner(tc.board)

			// Then: the expected triple is reported
			require.Equal(t, tc.won, won)
			if tc.won {
				assert.Equal(t, tc.mark, winner.Mark)
				assert.Equal(t, tc.line, winner.Line)
			}
		})
	}
}

// hasUniformLine checks rows, columns and diagonals without WinCombos.
func hasUniformLine(board entity.Board) bool {
	same := func(a, b, c int) bool {
		return board[a] != e && board[a] == board[b] && board[b] == board[c]
	}

	for i := 0; i < 3; i++ {
		if same(i*3, i*3+1, i*3+2) || same(i, i+3, i+6) {
			return true
		}
	}

	return same(0, 4, 8) || same(2, 4, 6)
}

func TestDetectWinner_AllBoards(t *testing.T) {
	// Given: every assignment of Empty/X/O to the nine cells
	marks := [3]entity.Mark{e, x, o}

	for code := 0; code < 19683; code++ {
		var board entity.Board
		rest := code
		for i := range board {
			board[i] = marks[rest%3]
			rest /= 3
		}

		// When: detecting the winner
		winner, won := DetectWinner(board)

		// Then: a result is reported iff some triple is uniformly marked
		require.Equal(t, hasUniformLine(board), won, "board %v", board)
		if won {
			line := winner.Line
			assert.Equal(t, winner.Mark, board[line[0]])
			assert.Equal(t, winner.Mark, board[line[1]])
			assert.Equal(t, winner.Mark, board[line[2]])
		}
	}
}

func TestRandomPlayouts(t *testing.T) {
	// Given: a seeded generator driving both players
	rng := rand.New(rand.NewSource(7)) //nolint: gosec // deterministic test input

	state := NewGame(entity.ModeTwoPlayer)
	completed := 0

	for completed < 200 {
		// Then: the board starts empty with X to move
		require.Equal(t, 0, state.Board.Filled())
		require.Equal(t, x, state.CurrentMover)

		expectedMover := x
		for moves := 1; state.IsOngoing(); moves++ {
			require.Equal(t, expectedMover, state.CurrentMover)

			cell, ok := SelectAiMove(state.Board, rng.Intn)
			require.True(t, ok)

			// When: the mover plays a legal cell
			state = ApplyMove(state, cell)

			// Then: exactly one more cell is marked
			require.Equal(t, moves, state.Board.Filled())
			expectedMover = expectedMover.Opponent()
		}

		completed++

		// Then: the score tally matches the games played so far
		require.Equal(t, completed, state.Scores.Total())
		if state.Outcome.IsWin() {
			require.NotNil(t, state.WinningLine)
		} else {
			require.Nil(t, state.WinningLine)
		}

		state = ResetBoard(state)
	}
}

func TestSelectAiMove(t *testing.T) {
	t.Run("Picks among empty cells by index", func(t *testing.T) {
		// Given: a board with cells 1, 3 and 5 empty
		board := entity.Board{x, e, o, e, x, e, o, x, o}
		next, asked := sequence(2)

		// When: the source returns index 2
		cell, ok := SelectAiMove(board, next)

		// Then: the third empty cell is chosen and the source saw n = 3
		require.True(t, ok)
		assert.Equal(t, 5, cell)
		assert.Equal(t, []int{3}, *asked)
	})

	t.Run("Single empty cell is always chosen", func(t *testing.T) {
		// Given: a board with only cell 6 empty
		board := entity.Board{x, o, x, x, o, o, e, x, o}

		for i := 0; i < 20; i++ {
			rng := rand.New(rand.NewSource(int64(i))) //nolint: gosec // deterministic test input

			// When: selecting with any random source
			cell, ok := SelectAiMove(board, rng.Intn)

			// Then: the only empty cell is returned
			require.True(t, ok)
			assert.Equal(t, 6, cell)
		}
	})

	t.Run("Full board has no move", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}
		next, asked := sequence()

		cell, ok := SelectAiMove(board, next)

		assert.False(t, ok)
		assert.Equal(t, -1, cell)
		assert.Empty(t, *asked)
	})
}

func TestResetBoard(t *testing.T) {
	// Given: X has won in single player mode
	won := play(NewGame(entity.ModeSingle), 0, 3, 1, 4, 2)
	require.Equal(t, 1, won.Scores.X)

	// When: resetting the board
	state := ResetBoard(won)

	// Then: the board is fresh but score and mode survive
	expected := entity.GameState{
		Board:        entity.Board{},
		CurrentMover: x,
		Mode:         entity.ModeSingle,
		Outcome:      entity.OutcomeNone,
		WinningLine:  nil,
		Scores:       entity.Scores{X: 1},
	}
	require.Equal(t, expected, state)
}

func TestSwitchMode(t *testing.T) {
	t.Run("Toggles mode and resets the board", func(t *testing.T) {
		// Given: a game in progress with one draw scored
		state := play(NewGame(entity.ModeTwoPlayer), 0, 1, 2, 4, 3, 5, 7, 6, 8)
		state = play(ResetBoard(state), 4, 0)

		// When: switching mode mid-game
		switched := SwitchMode(state)

		// Then: single player starts on a fresh board with scores kept
		assert.Equal(t, entity.ModeSingle, switched.Mode)
		assert.Equal(t, entity.Board{}, switched.Board)
		assert.Equal(t, x, switched.CurrentMover)
		assert.True(t, switched.IsOngoing())
		assert.Equal(t, entity.Scores{Draws: 1}, switched.Scores)

		// And: switching again returns to two player
		assert.Equal(t, entity.ModeTwoPlayer, SwitchMode(switched).Mode)
	})
}
