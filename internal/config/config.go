package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Board    Board   `yaml:"board"`
	Search   Search  `yaml:"search"`
	Redis    Redis   `yaml:"redis"`
	Records  Records `yaml:"records"`
}

type Board struct {
	Size      int `yaml:"size" env:"BOARD_SIZE" env-default:"3"`
	WinLength int `yaml:"win-length" env:"BOARD_WIN_LENGTH" env-default:"3"`
}

type Search struct {
	Strategy string `yaml:"strategy" env:"SEARCH_STRATEGY" env-default:"alphabeta"`
	Depth    int    `yaml:"depth" env:"SEARCH_DEPTH" env-default:"4"`
	Workers  int    `yaml:"workers" env:"SEARCH_WORKERS" env-default:"1"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Records controls whether finished and ongoing games are written to Redis.
type Records struct {
	Enabled bool `yaml:"enabled" env:"RECORDS_ENABLED" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads path when it exists and the environment otherwise, then validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	case err == nil:
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Board.Size <= 0 {
		return fmt.Errorf("%w: board size %d must be positive", apperror.ErrConfig, that.Board.Size)
	}

	if that.Board.WinLength < 1 || that.Board.WinLength > that.Board.Size {
		return fmt.Errorf("%w: win length %d must be within [1, %d]", apperror.ErrConfig, that.Board.WinLength, that.Board.Size)
	}

	switch that.Search.Strategy {
	case "minimax", "alphabeta":
	case "depth":
		if that.Search.Depth < 1 {
			return fmt.Errorf("%w: search depth %d must be at least 1", apperror.ErrConfig, that.Search.Depth)
		}
	default:
		return fmt.Errorf("%w: unknown search strategy %q", apperror.ErrConfig, that.Search.Strategy)
	}

	if that.Search.Workers < 1 {
		return fmt.Errorf("%w: search workers %d must be at least 1", apperror.ErrConfig, that.Search.Workers)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
