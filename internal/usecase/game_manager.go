package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/entity"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/search"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type decider interface {
	Decide(state tictactoe.State) (search.Decision, error)
}

// GameManager drives games between a human and the engine, or the engine
// against itself, and keeps their records in the repository.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	engine   decider

	size      int
	winLength int
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, engine decider, size, winLength int) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		engine:   engine,

		size:      size,
		winLength: winLength,
	}
}

// StartGame creates a game against the engine. When the human plays O the
// engine makes the opening move before the game is returned.
func (that *GameManager) StartGame(ctx context.Context, humanMark tictactoe.Mark) (*entity.Game, tictactoe.State, error) {
	if humanMark != tictactoe.X && humanMark != tictactoe.O {
		return nil, tictactoe.State{}, fmt.Errorf("%w: human must play X or O, got %q", apperror.ErrConfig, humanMark)
	}

	game, state, err := that.newGame(entity.WithBotType)
	if err != nil {
		return nil, tictactoe.State{}, err
	}
	game.HumanMark = humanMark.String()

	if state.ToMove() != humanMark {
		if state, err = that.engineTurn(game, state); err != nil {
			return nil, tictactoe.State{}, err
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, tictactoe.State{}, err
	}

	that.logger.Info("game started", "game_id", game.ID, "human", game.HumanMark)

	return game, state, nil
}

// MakeTurn plays the human's action and, unless that ends the game, the
// engine's reply.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, action tictactoe.Action) (*entity.Game, tictactoe.State, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, tictactoe.State{}, err
	}

	state, err := game.Replay()
	if err != nil {
		return nil, tictactoe.State{}, fmt.Errorf("failed to replay game: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, state, err
	}

	if !game.IsWithBot() || state.ToMove().String() != game.HumanMark {
		return game, state, apperror.ErrNotYourTurn
	}

	mark := state.ToMove()
	next, err := tictactoe.Result(state, action)
	if err != nil {
		return game, state, fmt.Errorf("failed make turn: %w", err)
	}
	game.AddMove(action, mark, next)

	if !game.IsFinished() {
		if next, err = that.engineTurn(game, next); err != nil {
			return nil, tictactoe.State{}, err
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, tictactoe.State{}, err
	}

	if game.IsFinished() {
		that.logger.Info("game finished", "game_id", game.ID, "winner", game.Winner, "moves", len(game.Moves))
	}

	return game, next, nil
}

// SelfPlay lets the engine play both sides until the game ends.
func (that *GameManager) SelfPlay(ctx context.Context) (*entity.Game, error) {
	game, state, err := that.newGame(entity.SelfPlayType)
	if err != nil {
		return nil, err
	}

	for !game.IsFinished() {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("self-play stopped after %d moves: %w", len(game.Moves), err)
		}

		if state, err = that.engineTurn(game, state); err != nil {
			return nil, err
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("self-play finished", "game_id", game.ID, "winner", game.Winner, "moves", len(game.Moves))

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) newGame(gameType string) (*entity.Game, tictactoe.State, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, tictactoe.State{}, fmt.Errorf("error generating game ID: %w", err)
	}

	game := entity.NewGame(gameID, gameType, that.size, that.winLength)

	state, err := game.Replay()
	if err != nil {
		return nil, tictactoe.State{}, fmt.Errorf("failed to create game: %w", err)
	}

	return game, state, nil
}

func (that *GameManager) engineTurn(game *entity.Game, state tictactoe.State) (tictactoe.State, error) {
	decision, err := that.engine.Decide(state)
	if err != nil {
		return tictactoe.State{}, fmt.Errorf("engine failed to make turn: %w", err)
	}

	next, err := tictactoe.Result(state, decision.Action)
	if err != nil {
		return tictactoe.State{}, fmt.Errorf("engine chose an illegal move: %w", err)
	}
	game.AddMove(decision.Action, state.ToMove(), next)

	that.logger.Debug("engine moved", "game_id", game.ID, "action", decision.Action.String(), "value", decision.Value)

	return next, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
