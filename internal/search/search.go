// Package search picks moves by adversarial tree search. X maximizes, O
// minimizes, and among equally good moves the first in row-major order wins.
package search

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/heuristic"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

// EvalFunc scores a position that search stops expanding.
type EvalFunc func(state tictactoe.State) float64

// Decision is the chosen move and the value backing it. Value has the sign of
// the game's utility under best play; see outcome for its magnitude.
type Decision struct {
	Action tictactoe.Action
	Value  float64
	Nodes  int
}

// Minimax searches the whole game tree.
func Minimax(state tictactoe.State) (Decision, error) {
	s := &searcher{}
	return s.decide(state, 0)
}

// MinimaxAB is Minimax with alpha-beta pruning. It returns the same move and
// value as Minimax while visiting fewer nodes.
func MinimaxAB(state tictactoe.State) (Decision, error) {
	s := &searcher{prune: true}
	return s.decide(state, 0)
}

// Search is alpha-beta limited to depth plies. Positions at the horizon that
// are still in play are scored by eval (heuristic.Evaluate when nil). Finished
// positions use their utility scaled past heuristic.WinScore, so an actual
// result always outweighs an estimate.
func Search(state tictactoe.State, depth int, eval EvalFunc) (Decision, error) {
	if depth < 1 {
		return Decision{}, fmt.Errorf("%w: search depth %d must be at least 1", apperror.ErrConfig, depth)
	}

	if eval == nil {
		eval = heuristic.Evaluate
	}

	s := &searcher{prune: true, limited: true, eval: eval}
	return s.decide(state, depth)
}

type searcher struct {
	prune   bool
	limited bool
	eval    EvalFunc
	nodes   int
}

func (that *searcher) decide(state tictactoe.State, depth int) (Decision, error) {
	if tictactoe.Terminal(state) {
		return Decision{}, fmt.Errorf("%w: position is finished\n%s", apperror.ErrNoLegalMove, state)
	}

	that.nodes++
	maximizing := state.ToMove() == tictactoe.X
	alpha, beta := math.Inf(-1), math.Inf(1)

	var best Decision
	found := false
	for action, child := range tictactoe.Successors(state) {
		value := that.value(child, depth-1, alpha, beta)
		if !found || improves(maximizing, value, best.Value) {
			best = Decision{Action: action, Value: value}
			found = true
		}

		if that.prune {
			if maximizing {
				alpha = max(alpha, best.Value)
			} else {
				beta = min(beta, best.Value)
			}
		}
	}

	best.Nodes = that.nodes

	return best, nil
}

// value is fail-soft: a pruned node returns a bound that can never beat the
// sibling that caused the cut, so the root choice matches plain minimax.
func (that *searcher) value(state tictactoe.State, depth int, alpha, beta float64) float64 {
	that.nodes++

	if utility, ok := tictactoe.Utility(state); ok {
		return that.outcome(utility, state.Empty())
	}

	if that.limited && depth <= 0 {
		return that.eval(state)
	}

	if state.ToMove() == tictactoe.X {
		best := math.Inf(-1)
		for _, child := range tictactoe.Successors(state) {
			best = max(best, that.value(child, depth-1, alpha, beta))
			if that.prune {
				if best >= beta {
					return best
				}
				alpha = max(alpha, best)
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, child := range tictactoe.Successors(state) {
		best = min(best, that.value(child, depth-1, alpha, beta))
		if that.prune {
			if best <= alpha {
				return best
			}
			beta = min(beta, best)
		}
	}
	return best
}

// outcome weights a finished game by the cells left empty, so a quicker win
// or a slower loss is worth more. The sign is always the utility's.
func (that *searcher) outcome(utility, empty int) float64 {
	scale := 1.0
	if that.limited {
		scale = heuristic.WinScore
	}

	return float64(utility) * (scale + float64(empty))
}

func improves(maximizing bool, value, best float64) bool {
	if maximizing {
		return value > best
	}
	return value < best
}
