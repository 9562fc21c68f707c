package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/protocol"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/transport/tcp"
	"github.com/rocketscienceinc/gomoku-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

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

	winFormat, err := protocol.ParseColorFormat(conf.Game.WinFormat)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	snapshots, closeStorage, err := newSnapshotRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer closeStorage()

	// nothing survives a restart
	if err = snapshots.Delete(ctx); err != nil {
		return fmt.Errorf("could not clear session snapshot: %w", err)
	}

	mirror := usecase.NewSnapshotMirror(logger, snapshots)
	go mirror.Run(ctx)

	session := usecase.NewSession(logger, usecase.Options{
		OutboxSize: conf.Game.OutboxSize,
		WinFormat:  winFormat,
	}, mirror)

	errCh := make(chan error, 3)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, snapshots).Start(ctx, conf.HTTPPort); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
		}
	}()

	// run TCP server
	go func() {
		log.Info("Starting TCP server", "port", conf.TCPPort)
		if tcpErr := tcp.New(logger, session).Start(ctx, conf.TCPPort); tcpErr != nil {
			errCh <- fmt.Errorf("TCP server error: %w", tcpErr)
		}
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, session).Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
		}
	}()

	select {
	case err = <-errCh:
		log.Error("server failed", "error", err)
		return err
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newSnapshotRepository - Redis when enabled, process memory otherwise.
func newSnapshotRepository(ctx context.Context, conf *config.Config) (repository.SnapshotRepository, func(), error) {
	if !conf.Redis.Enabled {
		return repository.NewMemorySnapshotRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == ":" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			slog.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewSnapshotRepository(redisStorage), closeStorage, nil
}
