package cli

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/google/subcommands"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
)

type ReplayCommand struct {
	Out io.Writer

	id string
}

func (*ReplayCommand) Name() string     { return "replay" }
func (*ReplayCommand) Synopsis() string { return "Print every position of a stored game" }
func (*ReplayCommand) Usage() string {
	return `replay -id GAME_ID
`
}

func (that *ReplayCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&that.id, "id", "", "id of the stored game")
}

func (that *ReplayCommand) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	app, err := appFrom(args)
	if err != nil {
		return subcommands.ExitFailure
	}

	p := newPrinter(that.Out)

	if that.id == "" {
		p.printf("%s", that.Usage())
		return subcommands.ExitUsageError
	}

	game, err := app.GameManager().GetGame(ctx, that.id)
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		p.printf("game %s not found\n", that.id)
		return subcommands.ExitFailure
	case err != nil:
		app.Logger.Error("could not load game", "game_id", that.id, "error", err)
		return subcommands.ExitFailure
	}

	if err = p.game(game); err != nil {
		app.Logger.Error("could not replay game", "game_id", that.id, "error", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
