package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeRepo, err := newSessionRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	seed, err := pkg.NewSeed()
	if err != nil {
		return fmt.Errorf("could not seed AI: %w", err)
	}

	defaultMode, err := conf.Game.Mode()
	if err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}

	aiMark, err := conf.Game.Mark()
	if err != nil {
		return fmt.Errorf("invalid AI mark: %w", err)
	}

	bot := service.NewBotService(pkg.NewIndexSource(seed))
	gameManager := usecase.NewGameManager(logger, sessionRepo, bot, service.NewScheduler(), usecase.Options{
		DefaultMode: defaultMode,
		AIMark:      aiMark,
		AIDelay:     conf.Game.AIDelay,
	})

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameManager).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newSessionRepository - picks the session storage named in the config. The returned func releases it.
func newSessionRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	switch conf.Storage {
	case config.StorageMemory:
		log.Info("Using in-memory session storage")
		return repository.NewMemorySessionRepository(), func() {}, nil

	case config.StorageRedis:
		redisStorage, err := storage.NewRedis(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("Using redis session storage", "addr", conf.Redis.GetRedisAddr(), "ttl", conf.SessionTTL)

		closeFn := func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}

		return repository.NewSessionRepository(redisStorage, conf.SessionTTL), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("session storage %q: %w", conf.Storage, apperror.ErrUnknownStorage)
	}
}
