// Package cli holds the subcommands of the mnk-tictactoe binary.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/muesli/termenv"

	application "github.com/rocketscienceinc/mnk-tictactoe/internal"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/entity"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

// appFrom extracts the App passed to subcommands.Execute.
func appFrom(args []interface{}) (*application.App, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: command started without an app", apperror.ErrConfig)
	}

	app, ok := args[0].(*application.App)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected command argument %T", apperror.ErrConfig, args[0])
	}

	return app, nil
}

// parseAction accepts "r c", "r,c" and "(r,c)".
func parseAction(line string) (tictactoe.Action, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == '(' || r == ')' || unicode.IsSpace(r)
	})
	if len(fields) != 2 {
		return tictactoe.Action{}, fmt.Errorf("expected \"row col\", got %q", strings.TrimSpace(line))
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return tictactoe.Action{}, fmt.Errorf("bad row %q: %w", fields[0], err)
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return tictactoe.Action{}, fmt.Errorf("bad column %q: %w", fields[1], err)
	}

	return tictactoe.Action{Row: row, Col: col}, nil
}

func parseMark(s string) (tictactoe.Mark, error) {
	switch strings.ToUpper(s) {
	case "X":
		return tictactoe.X, nil
	case "O":
		return tictactoe.O, nil
	default:
		return tictactoe.Empty, fmt.Errorf("%w: mark must be X or O, got %q", apperror.ErrConfig, s)
	}
}

func describe(game *entity.Game) string {
	switch {
	case game.IsOngoing():
		return "ongoing"
	case game.Winner == entity.PlayerTie:
		return "draw"
	default:
		return game.Winner + " wins"
	}
}

// printer renders boards, coloring marks when the output is a terminal.
type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: termenv.NewOutput(w)}
}

func (that *printer) printf(format string, args ...any) {
	fmt.Fprintf(that.out, format, args...)
}

func (that *printer) board(state tictactoe.State) {
	var sb strings.Builder

	for r := range state.Size() {
		sb.Reset()
		for c := range state.Size() {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(that.mark(state.At(r, c)))
		}
		that.printf("%s\n", sb.String())
	}
}

func (that *printer) mark(mark tictactoe.Mark) string {
	switch mark {
	case tictactoe.X:
		return that.out.String(mark.String()).Foreground(termenv.ANSIRed).Bold().String()
	case tictactoe.O:
		return that.out.String(mark.String()).Foreground(termenv.ANSIBlue).Bold().String()
	default:
		return that.out.String(mark.String()).Faint().String()
	}
}

// game prints every position of a record followed by its result.
func (that *printer) game(game *entity.Game) error {
	positions, err := game.Positions()
	if err != nil {
		return err
	}

	that.printf("game %s (%dx%d, k=%d)\n", game.ID, game.Size, game.Size, game.WinLength)

	for i, position := range positions {
		if i > 0 {
			move := game.Moves[i-1]
			that.printf("%d. %s (%d,%d)\n", i, move.Mark, move.Row, move.Col)
		}
		that.board(position)
		that.printf("\n")
	}

	that.printf("result: %s\n", describe(game))

	return nil
}
