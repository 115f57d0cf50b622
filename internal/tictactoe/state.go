package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
)

// Mark is the content of a single cell.
type Mark byte

const (
	Empty Mark = '.'
	X     Mark = 'X'
	O     Mark = 'O'
)

func (that Mark) String() string {
	return string(rune(that))
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Action addresses a cell by row and column, both zero based.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// State is an immutable board position. Cells live in a string, so copies
// never share writable memory and two equal positions compare with ==.
type State struct {
	size      int
	winLength int
	cells     string
	toMove    Mark
}

// New returns the empty size x size board where winLength marks in a line win.
// X moves first.
func New(size, winLength int) (State, error) {
	if err := validateDimensions(size, winLength); err != nil {
		return State{}, err
	}

	return State{
		size:      size,
		winLength: winLength,
		cells:     strings.Repeat(string(Empty), size*size),
		toMove:    X,
	}, nil
}

// Parse builds a position from textual rows. 'X' and 'O' are marks, '.', '-'
// and ' ' are empty cells. The side to move is derived from the mark counts.
func Parse(winLength int, rows ...string) (State, error) {
	size := len(rows)
	if err := validateDimensions(size, winLength); err != nil {
		return State{}, err
	}

	var sb strings.Builder
	sb.Grow(size * size)

	var xs, os int
	for r, row := range rows {
		if len(row) != size {
			return State{}, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrConfig, r, len(row), size)
		}

		for c := 0; c < len(row); c++ {
			switch row[c] {
			case 'X', 'x':
				xs++
				sb.WriteByte(byte(X))
			case 'O', 'o':
				os++
				sb.WriteByte(byte(O))
			case '.', '-', ' ':
				sb.WriteByte(byte(Empty))
			default:
				return State{}, fmt.Errorf("%w: unexpected cell %q at (%d,%d)", apperror.ErrConfig, row[c], r, c)
			}
		}
	}

	toMove := X
	switch xs - os {
	case 0:
	case 1:
		toMove = O
	default:
		return State{}, fmt.Errorf("%w: %d X marks and %d O marks cannot occur in play", apperror.ErrConfig, xs, os)
	}

	return State{
		size:      size,
		winLength: winLength,
		cells:     sb.String(),
		toMove:    toMove,
	}, nil
}

// ParseBoard is Parse for a single string with rows separated by '/'.
func ParseBoard(winLength int, board string) (State, error) {
	return Parse(winLength, strings.Split(board, "/")...)
}

func validateDimensions(size, winLength int) error {
	if size <= 0 {
		return fmt.Errorf("%w: board size %d must be positive", apperror.ErrConfig, size)
	}

	if winLength < 1 || winLength > size {
		return fmt.Errorf("%w: win length %d must be within [1, %d]", apperror.ErrConfig, winLength, size)
	}

	return nil
}

func (that State) Size() int {
	return that.size
}

func (that State) WinLength() int {
	return that.winLength
}

// ToMove is the mark that plays next.
func (that State) ToMove() Mark {
	return that.toMove
}

// At returns the mark at (row, col), or Empty when the cell is off the board.
func (that State) At(row, col int) Mark {
	if !that.inBounds(row, col) {
		return Empty
	}

	return Mark(that.cells[row*that.size+col])
}

// Empty counts the unoccupied cells.
func (that State) Empty() int {
	return strings.Count(that.cells, string(Empty))
}

func (that State) inBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// String renders the board one row per line.
func (that State) String() string {
	rows := make([]string, 0, that.size)
	for r := 0; r < that.size; r++ {
		rows = append(rows, that.cells[r*that.size:(r+1)*that.size])
	}

	return strings.Join(rows, "\n")
}
