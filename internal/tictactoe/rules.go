package tictactoe

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
)

// Actions yields every empty cell in row-major order. Search relies on this
// order to break ties, so it must stay stable.
func Actions(state State) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for i := 0; i < len(state.cells); i++ {
			if Mark(state.cells[i]) != Empty {
				continue
			}

			if !yield(Action{Row: i / state.size, Col: i % state.size}) {
				return
			}
		}
	}
}

// ActionList collects Actions into a slice.
func ActionList(state State) []Action {
	actions := make([]Action, 0, state.Empty())
	for action := range Actions(state) {
		actions = append(actions, action)
	}

	return actions
}

// Successors pairs each legal action with the position it leads to, in the
// order of Actions.
func Successors(state State) iter.Seq2[Action, State] {
	return func(yield func(Action, State) bool) {
		for action := range Actions(state) {
			if !yield(action, state.play(action.Row*state.size+action.Col)) {
				return
			}
		}
	}
}

// Result places the mark of the side to move on the action's cell and passes
// the turn. The given state is never modified.
func Result(state State, action Action) (State, error) {
	if !state.inBounds(action.Row, action.Col) {
		return State{}, fmt.Errorf("%w: %s is off the %dx%d board", apperror.ErrIllegalMove, action, state.size, state.size)
	}

	idx := action.Row*state.size + action.Col
	if mark := Mark(state.cells[idx]); mark != Empty {
		return State{}, fmt.Errorf("%w: %s is already occupied by %s", apperror.ErrIllegalMove, action, mark)
	}

	return state.play(idx), nil
}

func (that State) play(idx int) State {
	cells := []byte(that.cells)
	cells[idx] = byte(that.toMove)

	return State{
		size:      that.size,
		winLength: that.winLength,
		cells:     string(cells),
		toMove:    that.toMove.Opponent(),
	}
}

// Winner reports the mark owning winLength consecutive cells. Rows are scanned
// first, then columns, then down-right and up-right diagonals, each in
// row-major anchor order; the first run found is returned.
func Winner(state State) (Mark, bool) {
	n, k := state.size, state.winLength
	if n == 0 {
		return Empty, false
	}

	for r := 0; r < n; r++ {
		for c := 0; c+k <= n; c++ {
			if mark, ok := state.run(r, c, 0, 1); ok {
				return mark, true
			}
		}
	}

	for c := 0; c < n; c++ {
		for r := 0; r+k <= n; r++ {
			if mark, ok := state.run(r, c, 1, 0); ok {
				return mark, true
			}
		}
	}

	for r := 0; r+k <= n; r++ {
		for c := 0; c+k <= n; c++ {
			if mark, ok := state.run(r, c, 1, 1); ok {
				return mark, true
			}
		}
	}

	for r := k - 1; r < n; r++ {
		for c := 0; c+k <= n; c++ {
			if mark, ok := state.run(r, c, -1, 1); ok {
				return mark, true
			}
		}
	}

	return Empty, false
}

// run checks the winLength cells starting at (r, c) and stepping by (dr, dc).
// The caller keeps the segment on the board.
func (that State) run(r, c, dr, dc int) (Mark, bool) {
	first := that.At(r, c)
	if first == Empty {
		return Empty, false
	}

	for i := 1; i < that.winLength; i++ {
		if that.At(r+i*dr, c+i*dc) != first {
			return Empty, false
		}
	}

	return first, true
}

// Terminal is true once someone has won or the board is full.
func Terminal(state State) bool {
	if _, ok := Winner(state); ok {
		return true
	}

	return !strings.Contains(state.cells, string(Empty))
}

// Utility scores a finished game from X's point of view: +1, -1 or 0 for a
// draw. The boolean is false for positions that are still in play.
func Utility(state State) (int, bool) {
	if mark, ok := Winner(state); ok {
		if mark == X {
			return 1, true
		}
		return -1, true
	}

	if !strings.Contains(state.cells, string(Empty)) {
		return 0, true
	}

	return 0, false
}
