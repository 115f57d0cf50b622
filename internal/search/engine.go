package search

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/heuristic"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

type Strategy string

const (
	StrategyMinimax      Strategy = "minimax"
	StrategyAlphaBeta    Strategy = "alphabeta"
	StrategyDepthLimited Strategy = "depth"
)

type Options struct {
	Strategy Strategy
	Depth    int
	Workers  int
	Eval     EvalFunc
}

// Engine runs one configured strategy. With more than one worker the root
// moves are scored concurrently and merged back in row-major order, so the
// choice is the same as a sequential search.
type Engine struct {
	logger *slog.Logger

	strategy Strategy
	depth    int
	workers  int
	eval     EvalFunc
}

func NewEngine(logger *slog.Logger, opts Options) (*Engine, error) {
	switch opts.Strategy {
	case StrategyMinimax, StrategyAlphaBeta:
	case StrategyDepthLimited:
		if opts.Depth < 1 {
			return nil, fmt.Errorf("%w: search depth %d must be at least 1", apperror.ErrConfig, opts.Depth)
		}
	default:
		return nil, fmt.Errorf("%w: unknown search strategy %q", apperror.ErrConfig, opts.Strategy)
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}

	if opts.Eval == nil {
		opts.Eval = heuristic.Evaluate
	}

	return &Engine{
		logger:   logger.With("component", "search"),
		strategy: opts.Strategy,
		depth:    opts.Depth,
		workers:  opts.Workers,
		eval:     opts.Eval,
	}, nil
}

func (that *Engine) Strategy() Strategy {
	return that.strategy
}

// Decide picks the move for the side to move in state.
func (that *Engine) Decide(state tictactoe.State) (Decision, error) {
	start := time.Now()

	var (
		decision Decision
		err      error
	)

	switch {
	case that.workers > 1:
		decision, err = that.decideParallel(state)
	case that.strategy == StrategyMinimax:
		decision, err = Minimax(state)
	case that.strategy == StrategyAlphaBeta:
		decision, err = MinimaxAB(state)
	default:
		decision, err = Search(state, that.depth, that.eval)
	}

	if err != nil {
		return Decision{}, fmt.Errorf("%s search failed: %w", that.strategy, err)
	}

	that.logger.Debug("move decided",
		"strategy", that.strategy,
		"to_move", state.ToMove().String(),
		"action", decision.Action.String(),
		"value", decision.Value,
		"nodes", decision.Nodes,
		"elapsed", time.Since(start),
	)

	return decision, nil
}

func (that *Engine) newSearcher() *searcher {
	switch that.strategy {
	case StrategyMinimax:
		return &searcher{}
	case StrategyAlphaBeta:
		return &searcher{prune: true}
	default:
		return &searcher{prune: true, limited: true, eval: that.eval}
	}
}

type scored struct {
	action tictactoe.Action
	value  float64
	nodes  int
}

// decideParallel scores every root move with a full window on its own worker.
// Exact child values make the strict-improvement merge identical to the
// sequential root loop.
func (that *Engine) decideParallel(state tictactoe.State) (Decision, error) {
	if tictactoe.Terminal(state) {
		return Decision{}, fmt.Errorf("%w: position is finished\n%s", apperror.ErrNoLegalMove, state)
	}

	actions := tictactoe.ActionList(state)
	results := make([]scored, len(actions))

	var group errgroup.Group
	group.SetLimit(that.workers)

	for i, action := range actions {
		group.Go(func() error {
			child, err := tictactoe.Result(state, action)
			if err != nil {
				return fmt.Errorf("failed to expand %s: %w", action, err)
			}

			s := that.newSearcher()
			value := s.value(child, that.depth-1, math.Inf(-1), math.Inf(1))
			results[i] = scored{action: action, value: value, nodes: s.nodes}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Decision{}, err
	}

	maximizing := state.ToMove() == tictactoe.X
	best := Decision{Action: results[0].action, Value: results[0].value}
	nodes := 1
	for i, r := range results {
		nodes += r.nodes
		if i > 0 && improves(maximizing, r.value, best.Value) {
			best.Action, best.Value = r.action, r.value
		}
	}
	best.Nodes = nodes

	return best, nil
}
