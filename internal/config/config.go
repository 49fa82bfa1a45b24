package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	Storage    string        `yaml:"storage" env:"STORAGE" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
	Game       Game          `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	AIDelay     time.Duration `yaml:"ai-delay" env:"GAME_AI_DELAY" env-default:"500ms"`
	DefaultMode string        `yaml:"default-mode" env:"GAME_DEFAULT_MODE" env-default:"two-player"`
	AIMark      string        `yaml:"ai-mark" env:"GAME_AI_MARK" env-default:"O"`
}

// MustLoad - load all configurations in config.yml file. Variables from a .env file, if any, take part in the override.
func MustLoad(path string) *Config {
	_ = godotenv.Load()

	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

func (that *Config) Validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownStorage, that.Storage)
	}

	if _, err := that.Game.Mode(); err != nil {
		return err
	}

	if _, err := that.Game.Mark(); err != nil {
		return err
	}

	if that.Game.AIDelay < 0 {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidDelay, that.Game.AIDelay)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Game) Mode() (entity.Mode, error) {
	return entity.ParseMode(that.DefaultMode)
}

func (that *Game) Mark() (entity.Mark, error) {
	mark := entity.Mark(that.AIMark)
	if !mark.IsPlayer() {
		return entity.EmptyCell, fmt.Errorf("%w: %q", apperror.ErrUnknownMark, that.AIMark)
	}

	return mark, nil
}
