package cli

import (
	"context"
	"flag"
	"io"

	"github.com/google/subcommands"
)

type SelfPlayCommand struct {
	Out io.Writer
}

func (*SelfPlayCommand) Name() string     { return "selfplay" }
func (*SelfPlayCommand) Synopsis() string { return "Let the engine play itself" }
func (*SelfPlayCommand) Usage() string {
	return `selfplay
`
}

func (*SelfPlayCommand) SetFlags(*flag.FlagSet) {}

func (that *SelfPlayCommand) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	app, err := appFrom(args)
	if err != nil {
		return subcommands.ExitFailure
	}

	game, err := app.GameManager().SelfPlay(ctx)
	if err != nil {
		app.Logger.Error("self-play failed", "error", err)
		return subcommands.ExitFailure
	}

	if err = newPrinter(that.Out).game(game); err != nil {
		app.Logger.Error("could not print game", "game_id", game.ID, "error", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
