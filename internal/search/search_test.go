package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/heuristic"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

func parse(t *testing.T, k int, rows ...string) tictactoe.State {
	t.Helper()

	state, err := tictactoe.Parse(k, rows...)
	require.NoError(t, err)

	return state
}

// randomPositions plays random games on an m x m board and keeps the
// positions reached after at least minPlies moves that are still in play.
func randomPositions(t *testing.T, rng *rand.Rand, m, k, minPlies, count int) []tictactoe.State {
	t.Helper()

	var out []tictactoe.State
	for len(out) < count {
		state, err := tictactoe.New(m, k)
		require.NoError(t, err)

		for ply := 0; !tictactoe.Terminal(state); ply++ {
			if ply >= minPlies {
				out = append(out, state)
				break
			}

			actions := tictactoe.ActionList(state)
			state, err = tictactoe.Result(state, actions[rng.Intn(len(actions))])
			require.NoError(t, err)
		}
	}

	return out
}

func TestMinimax(t *testing.T) {
	t.Run("Opening move on 3x3 is the first optimal cell", func(t *testing.T) {
		// Given: the empty 3x3 board
		state, err := tictactoe.New(3, 3)
		require.NoError(t, err)

		// When: running full minimax
		decision, err := Minimax(state)
		require.NoError(t, err)

		// Then: every opening draws, so the row-major tie-break picks the corner
		assert.Equal(t, tictactoe.Action{Row: 0, Col: 0}, decision.Action)
		assert.Zero(t, decision.Value)
	})

	t.Run("Completes the diagonal when a win is available", func(t *testing.T) {
		// Given: X on (0,0) and (1,1), O on (0,1) and (2,1), X to move
		state := parse(t, 3, "XO.", ".X.", ".O.")
		require.Equal(t, tictactoe.X, state.ToMove())

		// When: running full minimax
		decision, err := Minimax(state)
		require.NoError(t, err)

		// Then: the immediate win beats the slower forced wins that come earlier in order
		assert.Equal(t, tictactoe.Action{Row: 2, Col: 2}, decision.Action)
		assert.Positive(t, decision.Value)
	})

	t.Run("O blocks an open row", func(t *testing.T) {
		state := parse(t, 3, "XX.", "O..", "...")

		decision, err := Minimax(state)
		require.NoError(t, err)

		assert.Equal(t, tictactoe.Action{Row: 0, Col: 2}, decision.Action)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		won := parse(t, 3, "XXX", "OO.", "...")
		drawn := parse(t, 3, "XOX", "XOO", "OXX")

		for _, state := range []tictactoe.State{won, drawn} {
			_, err := Minimax(state)
			require.ErrorIs(t, err, apperror.ErrNoLegalMove)

			_, err = MinimaxAB(state)
			require.ErrorIs(t, err, apperror.ErrNoLegalMove)

			_, err = Search(state, 2, heuristic.Evaluate)
			require.ErrorIs(t, err, apperror.ErrNoLegalMove)
		}
	})
}

func TestMinimaxAB(t *testing.T) {
	t.Run("Matches minimax on the empty board with fewer nodes", func(t *testing.T) {
		state, err := tictactoe.New(3, 3)
		require.NoError(t, err)

		full, err := Minimax(state)
		require.NoError(t, err)
		pruned, err := MinimaxAB(state)
		require.NoError(t, err)

		assert.Equal(t, full.Action, pruned.Action)
		assert.Equal(t, full.Value, pruned.Value)
		assert.Less(t, pruned.Nodes, full.Nodes)
	})

	t.Run("Matches minimax on random 3x3 positions", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		for plies := 1; plies <= 7; plies++ {
			for _, state := range randomPositions(t, rng, 3, 3, plies, 10) {
				full, err := Minimax(state)
				require.NoError(t, err)
				pruned, err := MinimaxAB(state)
				require.NoError(t, err)

				require.Equal(t, full.Action, pruned.Action, state.String())
				require.Equal(t, full.Value, pruned.Value, state.String())
				require.LessOrEqual(t, pruned.Nodes, full.Nodes)
			}
		}
	})

	t.Run("Matches minimax on late 4x4 positions", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))

		for _, state := range randomPositions(t, rng, 4, 3, 8, 15) {
			full, err := Minimax(state)
			require.NoError(t, err)
			pruned, err := MinimaxAB(state)
			require.NoError(t, err)

			require.Equal(t, full.Action, pruned.Action, state.String())
			require.Equal(t, full.Value, pruned.Value, state.String())
		}
	})
}

func TestFullSearchIsDeterministic(t *testing.T) {
	// Given: an early 3x3 position with many equally good replies
	state := parse(t, 3, "X..", "...", "...")

	for name, decide := range map[string]func(tictactoe.State) (Decision, error){
		"minimax":   Minimax,
		"alphabeta": MinimaxAB,
	} {
		// When: the same position is searched twice
		first, err := decide(state)
		require.NoError(t, err, name)
		second, err := decide(state)
		require.NoError(t, err, name)

		// Then: both calls agree on move, value and work done
		assert.Equal(t, first, second, name)
	}
}

func TestSearch(t *testing.T) {
	t.Run("Takes the open row on 4x4 with k=3", func(t *testing.T) {
		// Given: X on (0,0),(0,1), O on (1,0),(1,1), X to move
		state, err := tictactoe.New(4, 3)
		require.NoError(t, err)
		for _, action := range []tictactoe.Action{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}} {
			state, err = tictactoe.Result(state, action)
			require.NoError(t, err)
		}

		// When: searching two plies with the window heuristic
		decision, err := Search(state, 2, heuristic.Evaluate)
		require.NoError(t, err)

		// Then: X completes the row rather than ignoring the threat
		assert.Contains(t, []tictactoe.Action{{Row: 0, Col: 2}, {Row: 1, Col: 2}}, decision.Action)
		assert.Equal(t, tictactoe.Action{Row: 0, Col: 2}, decision.Action)
		assert.Greater(t, decision.Value, heuristic.WinScore)
	})

	t.Run("O blocks instead of losing", func(t *testing.T) {
		state := parse(t, 4, "XXX.", "OO..", "....", "....")
		require.Equal(t, tictactoe.O, state.ToMove())

		decision, err := Search(state, 2, nil)
		require.NoError(t, err)

		assert.Equal(t, tictactoe.Action{Row: 0, Col: 3}, decision.Action)
	})

	t.Run("Uses the supplied evaluation at the horizon", func(t *testing.T) {
		// Given: an evaluation that only likes X in the bottom-right corner
		state, err := tictactoe.New(4, 4)
		require.NoError(t, err)

		corner := func(s tictactoe.State) float64 {
			if s.At(3, 3) == tictactoe.X {
				return 1
			}
			return 0
		}

		// When: searching one ply
		decision, err := Search(state, 1, corner)
		require.NoError(t, err)

		// Then: the move that the evaluation prefers is picked
		assert.Equal(t, tictactoe.Action{Row: 3, Col: 3}, decision.Action)
		assert.Equal(t, 1.0, decision.Value)
	})

	t.Run("Agrees with minimax when the depth reaches the end of the game", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))

		for _, state := range randomPositions(t, rng, 3, 3, 2, 20) {
			full, err := Minimax(state)
			require.NoError(t, err)
			limited, err := Search(state, 9, heuristic.Evaluate)
			require.NoError(t, err)

			require.Equal(t, full.Action, limited.Action, state.String())
			switch {
			case full.Value > 0:
				require.Positive(t, limited.Value)
			case full.Value < 0:
				require.Negative(t, limited.Value)
			default:
				require.Zero(t, limited.Value)
			}
		}
	})

	t.Run("Is deterministic", func(t *testing.T) {
		state := parse(t, 5, ".....", ".X...", "..O..", ".....", ".....")

		first, err := Search(state, 3, heuristic.Evaluate)
		require.NoError(t, err)
		second, err := Search(state, 3, heuristic.Evaluate)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("Error on depth below one", func(t *testing.T) {
		state, err := tictactoe.New(3, 3)
		require.NoError(t, err)

		_, err = Search(state, 0, heuristic.Evaluate)
		require.ErrorIs(t, err, apperror.ErrConfig)
	})
}
