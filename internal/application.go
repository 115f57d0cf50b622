package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/config"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/repository"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/search"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// App holds the services shared by every command.
type App struct {
	Logger *slog.Logger
	Config *config.Config
	Engine *search.Engine
	Games  repository.GameRepository

	close func() error
}

// New builds the engine from conf and picks the game store: Redis when
// records are enabled, process memory otherwise.
func New(ctx context.Context, logger *slog.Logger, conf *config.Config) (*App, error) {
	log := logger.With("component", "app")

	engine, err := NewEngine(logger, conf.Search)
	if err != nil {
		return nil, err
	}

	app := &App{
		Logger: logger,
		Config: conf,
		Engine: engine,
		Games:  repository.NewMemoryGameRepository(),
		close:  func() error { return nil },
	}

	if !conf.Records.Enabled {
		return app, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Game records are stored in redis", "addr", redisAddrString)

	app.Games = repository.NewGameRepository(redisStorage)
	app.close = redisStorage.Close

	return app, nil
}

// NewEngine builds a search engine from a search config section.
func NewEngine(logger *slog.Logger, conf config.Search) (*search.Engine, error) {
	engine, err := search.NewEngine(logger, search.Options{
		Strategy: search.Strategy(conf.Strategy),
		Depth:    conf.Depth,
		Workers:  conf.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create search engine: %w", err)
	}

	return engine, nil
}

func (that *App) GameManager() *usecase.GameManager {
	return usecase.NewGameManager(that.Logger, that.Games, that.Engine, that.Config.Board.Size, that.Config.Board.WinLength)
}

func (that *App) Close() error {
	if err := that.close(); err != nil {
		return fmt.Errorf("could not close redis storage: %w", err)
	}

	return nil
}
