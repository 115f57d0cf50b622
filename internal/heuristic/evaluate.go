// Package heuristic scores positions that search does not play out to the end.
package heuristic

import (
	"math"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

// WinScore is returned for decided positions. A window holds at most k-1
// marks of one side without being a win, so no realistic sum of partial
// threats reaches it.
const WinScore = 1_000_000.0

type direction struct {
	name   string
	dr, dc int
}

var directions = [...]direction{
	{name: "rows", dr: 0, dc: 1},
	{name: "columns", dr: 1, dc: 0},
	{name: "down-right", dr: 1, dc: 1},
	{name: "up-right", dr: -1, dc: 1},
}

// Evaluate scores a position from X's point of view. Every window of k cells
// on every line adds 10^n when it holds n X marks and no O, and subtracts
// 10^n when it holds n O marks and no X.
func Evaluate(state tictactoe.State) float64 {
	if score, ok := decided(state); ok {
		return score
	}

	line := make([]tictactoe.Mark, 0, state.Size())

	var score float64
	for _, dir := range directions {
		score += scanDirection(state, dir, line)
	}

	return score
}

// Breakdown splits an evaluation by line direction.
type Breakdown struct {
	Winner    tictactoe.Mark
	Rows      float64
	Columns   float64
	DownRight float64
	UpRight   float64
	Total     float64
}

// Explain returns the per-direction terms of Evaluate. For decided positions
// only Winner and Total are set.
func Explain(state tictactoe.State) Breakdown {
	if score, ok := decided(state); ok {
		winner, _ := tictactoe.Winner(state)
		return Breakdown{Winner: winner, Total: score}
	}

	line := make([]tictactoe.Mark, 0, state.Size())
	out := Breakdown{Winner: tictactoe.Empty}
	terms := [...]*float64{&out.Rows, &out.Columns, &out.DownRight, &out.UpRight}
	for i, dir := range directions {
		*terms[i] = scanDirection(state, dir, line)
		out.Total += *terms[i]
	}

	return out
}

func decided(state tictactoe.State) (float64, bool) {
	switch winner, _ := tictactoe.Winner(state); winner {
	case tictactoe.X:
		return WinScore, true
	case tictactoe.O:
		return -WinScore, true
	default:
		return 0, false
	}
}

// scanDirection walks every maximal line running in dir. A cell starts a line
// when the cell one step behind it is off the board.
func scanDirection(state tictactoe.State, dir direction, line []tictactoe.Mark) float64 {
	n, k := state.Size(), state.WinLength()

	var score float64
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if onBoard(n, r-dir.dr, c-dir.dc) {
				continue
			}

			line = line[:0]
			for rr, cc := r, c; onBoard(n, rr, cc); rr, cc = rr+dir.dr, cc+dir.dc {
				line = append(line, state.At(rr, cc))
			}

			if len(line) >= k {
				score += scoreLine(line, k)
			}
		}
	}

	return score
}

func onBoard(n, r, c int) bool {
	return r >= 0 && r < n && c >= 0 && c < n
}

// scoreLine slides a window of k cells along line keeping running counts.
func scoreLine(line []tictactoe.Mark, k int) float64 {
	var score float64
	var xs, os int

	for i, mark := range line {
		switch mark {
		case tictactoe.X:
			xs++
		case tictactoe.O:
			os++
		}

		if i >= k {
			switch line[i-k] {
			case tictactoe.X:
				xs--
			case tictactoe.O:
				os--
			}
		}

		if i >= k-1 {
			score += windowScore(xs, os)
		}
	}

	return score
}

func windowScore(xs, os int) float64 {
	switch {
	case xs > 0 && os == 0:
		return math.Pow10(xs)
	case os > 0 && xs == 0:
		return -math.Pow10(os)
	default:
		return 0
	}
}
