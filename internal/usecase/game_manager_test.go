package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/entity"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/search"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
	mockedUseCase "github.com/rocketscienceinc/mnk-tictactoe/mocks/usecase"
)

var errRedisDown = errors.New("redis down")

type failingDecider struct{}

func (failingDecider) Decide(tictactoe.State) (search.Decision, error) {
	return search.Decision{}, apperror.ErrNoLegalMove
}

func newManager(t *testing.T) (*GameManager, *mockedUseCase.MockgameRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := search.NewEngine(logger, search.Options{Strategy: search.StrategyAlphaBeta})
	require.NoError(t, err)

	repo := mockedUseCase.NewMockgameRepo(t)

	return NewGameManager(logger, repo, engine, 3, 3), repo
}

func TestGameManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human playing X moves first", func(t *testing.T) {
		// Given: a manager with a working repository
		manager, repo := newManager(t)
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: starting a game as X
		game, state, err := manager.StartGame(ctx, tictactoe.X)

		// Then: the board is empty and X is to move
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, "X", game.HumanMark)
		assert.Empty(t, game.Moves)
		assert.Equal(t, tictactoe.X, state.ToMove())
	})

	t.Run("Engine opens when the human plays O", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.MatchedBy(func(g *entity.Game) bool { return len(g.Moves) == 1 })).
			Return(nil).
			Once()

		game, state, err := manager.StartGame(ctx, tictactoe.O)

		require.NoError(t, err)
		assert.Equal(t, []entity.Move{{Row: 0, Col: 0, Mark: "X"}}, game.Moves)
		assert.Equal(t, tictactoe.O, state.ToMove())
	})

	t.Run("Rejects an empty mark", func(t *testing.T) {
		manager, _ := newManager(t)

		_, _, err := manager.StartGame(ctx, tictactoe.Empty)

		require.ErrorIs(t, err, apperror.ErrConfig)
	})

	t.Run("Returns error when the repository fails", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.Game")).
			Return(errRedisDown).
			Once()

		_, _, err := manager.StartGame(ctx, tictactoe.X)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	botGame := func(moves ...entity.Move) *entity.Game {
		game := entity.NewGame("game1", entity.WithBotType, 3, 3)
		game.HumanMark = "X"
		game.Moves = moves

		return game
	}

	t.Run("Engine replies to the human move", func(t *testing.T) {
		// Given: a fresh game where the human plays X
		manager, repo := newManager(t)
		repo.EXPECT().GetByID(ctx, "game1").Return(botGame(), nil).Once()
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: the human takes the center
		game, state, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 1, Col: 1})

		// Then: the engine answers in the first corner
		require.NoError(t, err)
		expected := []entity.Move{{Row: 1, Col: 1, Mark: "X"}, {Row: 0, Col: 0, Mark: "O"}}
		assert.Equal(t, expected, game.Moves)
		assert.Equal(t, tictactoe.O, state.At(0, 0))
		assert.True(t, game.IsOngoing())
	})

	t.Run("Winning move finishes the game without an engine reply", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().GetByID(ctx, "game1").Return(botGame(
			entity.Move{Row: 0, Col: 0, Mark: "X"}, entity.Move{Row: 1, Col: 0, Mark: "O"},
			entity.Move{Row: 0, Col: 1, Mark: "X"}, entity.Move{Row: 1, Col: 1, Mark: "O"},
		), nil).Once()
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		game, _, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 0, Col: 2})

		require.NoError(t, err)
		assert.Len(t, game.Moves, 5)
		assert.True(t, game.IsFinished())
		assert.Equal(t, "X", game.Winner)
	})

	t.Run("Illegal move is not persisted", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().GetByID(ctx, "game1").Return(botGame(
			entity.Move{Row: 1, Col: 1, Mark: "X"}, entity.Move{Row: 0, Col: 0, Mark: "O"},
		), nil).Once()

		_, _, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Finished game rejects moves", func(t *testing.T) {
		manager, repo := newManager(t)
		game := botGame()
		game.Status = entity.StatusFinished
		repo.EXPECT().GetByID(ctx, "game1").Return(game, nil).Once()

		_, _, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Self-play game does not accept human moves", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().
			GetByID(ctx, "game1").
			Return(entity.NewGame("game1", entity.SelfPlayType, 3, 3), nil).
			Once()

		_, _, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Returns error when the game does not exist", func(t *testing.T) {
		manager, repo := newManager(t)
		repo.EXPECT().
			GetByID(ctx, "missing").
			Return((*entity.Game)(nil), apperror.ErrGameNotFound).
			Once()

		_, _, err := manager.MakeTurn(ctx, "missing", tictactoe.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Engine failure is reported", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(logger, repo, failingDecider{}, 3, 3)
		repo.EXPECT().GetByID(ctx, "game1").Return(botGame(), nil).Once()

		_, _, err := manager.MakeTurn(ctx, "game1", tictactoe.Action{Row: 1, Col: 1})

		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
	})
}

func TestGameManager_SelfPlay(t *testing.T) {
	ctx := context.Background()

	t.Run("Perfect play on 3x3 is a draw", func(t *testing.T) {
		// Given: a manager with a full alpha-beta engine
		manager, repo := newManager(t)
		repo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: the engine plays itself
		game, err := manager.SelfPlay(ctx)

		// Then: the board fills up without a winner
		require.NoError(t, err)
		assert.Len(t, game.Moves, 9)
		assert.Equal(t, entity.PlayerTie, game.Winner)
		assert.Equal(t, entity.SelfPlayType, game.Type)

		positions, err := game.Positions()
		require.NoError(t, err)
		assert.True(t, tictactoe.Terminal(positions[len(positions)-1]))
	})
}

func TestGameManager_SelfPlayCancelled(t *testing.T) {
	// Given: a context that is already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager, _ := newManager(t)

	// When: starting self-play
	game, err := manager.SelfPlay(ctx)

	// Then: no move is searched and nothing is stored
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, game)
}

func TestGameManager_GetGame(t *testing.T) {
	ctx := context.Background()

	manager, repo := newManager(t)
	stored := entity.NewGame("game1", entity.SelfPlayType, 3, 3)
	repo.EXPECT().GetByID(ctx, "game1").Return(stored, nil).Once()

	game, err := manager.GetGame(ctx, "game1")

	require.NoError(t, err)
	assert.Equal(t, stored, game)
}
