package cli

import (
	"context"
	"flag"
	"io"

	"github.com/google/subcommands"

	application "github.com/rocketscienceinc/mnk-tictactoe/internal"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/heuristic"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

type AnalyzeCommand struct {
	Out io.Writer

	board     string
	winLength int
	strategy  string
	depth     int
	explain   bool
}

func (*AnalyzeCommand) Name() string { return "analyze" }
func (*AnalyzeCommand) Synopsis() string {
	return "Score a position and print the engine's move"
}
func (*AnalyzeCommand) Usage() string {
	return `analyze -board XO./.X./... [-k 3] [-strategy alphabeta] [-depth 4] [-explain]
`
}

func (that *AnalyzeCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&that.board, "board", "", "position as rows separated by '/', '.' for empty cells")
	f.IntVar(&that.winLength, "k", 0, "marks in a row needed to win (defaults to board.win-length)")
	f.StringVar(&that.strategy, "strategy", "", "minimax, alphabeta or depth (defaults to search.strategy)")
	f.IntVar(&that.depth, "depth", 0, "depth limit for the depth strategy (defaults to search.depth)")
	f.BoolVar(&that.explain, "explain", false, "print the heuristic score per line direction")
}

func (that *AnalyzeCommand) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	app, err := appFrom(args)
	if err != nil {
		return subcommands.ExitFailure
	}

	p := newPrinter(that.Out)

	if that.board == "" {
		p.printf("%s", that.Usage())
		return subcommands.ExitUsageError
	}

	winLength := that.winLength
	if winLength == 0 {
		winLength = app.Config.Board.WinLength
	}

	state, err := tictactoe.ParseBoard(winLength, that.board)
	if err != nil {
		p.printf("invalid board: %v\n", err)
		return subcommands.ExitUsageError
	}

	p.board(state)
	p.printf("to move: %s\n", state.ToMove())

	score := heuristic.Explain(state)
	p.printf("heuristic: %g\n", score.Total)
	if that.explain && score.Winner == tictactoe.Empty {
		p.printf("  rows: %g\n  columns: %g\n  down-right: %g\n  up-right: %g\n",
			score.Rows, score.Columns, score.DownRight, score.UpRight)
	}

	if tictactoe.Terminal(state) {
		if winner, ok := tictactoe.Winner(state); ok {
			p.printf("game over: %s wins\n", winner)
		} else {
			p.printf("game over: draw\n")
		}

		return subcommands.ExitSuccess
	}

	conf := app.Config.Search
	if that.strategy != "" {
		conf.Strategy = that.strategy
	}
	if that.depth > 0 {
		conf.Depth = that.depth
	}

	engine, err := application.NewEngine(app.Logger, conf)
	if err != nil {
		p.printf("%v\n", err)
		return subcommands.ExitUsageError
	}

	decision, err := engine.Decide(state)
	if err != nil {
		app.Logger.Error("analysis failed", "error", err)
		return subcommands.ExitFailure
	}

	p.printf("best move: %s value: %g nodes: %d (%s)\n", decision.Action, decision.Value, decision.Nodes, engine.Strategy())

	return subcommands.ExitSuccess
}
