package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"

	"github.com/google/subcommands"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
)

type PlayCommand struct {
	In  io.Reader
	Out io.Writer

	human string
}

func (*PlayCommand) Name() string     { return "play" }
func (*PlayCommand) Synopsis() string { return "Play a game against the engine" }
func (*PlayCommand) Usage() string {
	return `play [-human X|O]

Enter moves as "row col", counting from 0.
`
}

func (that *PlayCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&that.human, "human", "X", "mark played by the human, X moves first")
}

func (that *PlayCommand) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	app, err := appFrom(args)
	if err != nil {
		return subcommands.ExitFailure
	}

	p := newPrinter(that.Out)

	human, err := parseMark(that.human)
	if err != nil {
		p.printf("%v\n", err)
		return subcommands.ExitUsageError
	}

	manager := app.GameManager()

	game, state, err := manager.StartGame(ctx, human)
	if err != nil {
		app.Logger.Error("could not start game", "error", err)
		return subcommands.ExitFailure
	}

	if len(game.Moves) > 0 {
		p.printf("engine plays (%d,%d)\n", game.Moves[0].Row, game.Moves[0].Col)
	}

	in := bufio.NewScanner(that.In)
	for {
		p.board(state)

		if game.IsFinished() {
			p.printf("game over: %s\n", describe(game))
			return subcommands.ExitSuccess
		}

		if ctx.Err() != nil {
			return subcommands.ExitFailure
		}

		p.printf("%s> ", state.ToMove())
		if !in.Scan() {
			p.printf("\n")
			return subcommands.ExitFailure
		}

		action, err := parseAction(in.Text())
		if err != nil {
			p.printf("parse error: %v\n", err)
			continue
		}

		played := len(game.Moves)

		nextGame, nextState, err := manager.MakeTurn(ctx, game.ID, action)
		switch {
		case errors.Is(err, apperror.ErrIllegalMove):
			p.printf("illegal move: %s\n", action)
			continue
		case err != nil:
			app.Logger.Error("turn failed", "game_id", game.ID, "error", err)
			return subcommands.ExitFailure
		}

		game, state = nextGame, nextState

		if len(game.Moves) > played+1 {
			reply := game.Moves[len(game.Moves)-1]
			p.printf("engine plays (%d,%d)\n", reply.Row, reply.Col)
		}
	}
}
