package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/protocol"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const (
	writeTimeout = 10 * time.Second
	bufferSize   = 1024
	maxLineSize  = 1024
	maxFrameSize = 16 * maxLineSize
)

type session interface {
	Admit(id string) (*usecase.Player, error)
	Handle(ctx context.Context, player *usecase.Player, line string)
	Remove(player *usecase.Player)
}

// Server carries the line protocol in WebSocket text frames, one server
// message per frame.
type Server struct {
	logger   *slog.Logger
	session  session
	upgrader websocket.Upgrader

	mu       sync.Mutex
	stopping bool
	wg       sync.WaitGroup
}

func New(logger *slog.Logger, session session) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Start - starts WebSocket server; returns nil after ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.HandleWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// hijacked connections are not tracked by Shutdown
	that.drain()

	return nil
}

// enter - registers a handler unless the server is draining.
func (that *Server) enter() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.stopping {
		return false
	}

	that.wg.Add(1)

	return true
}

// drain - refuses new handlers and waits for the running ones.
func (that *Server) drain() {
	that.mu.Lock()
	that.stopping = true
	that.mu.Unlock()

	that.wg.Wait()
}

// HandleWS - upgrades the request and serves one player until it disconnects.
func (that *Server) HandleWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "HandleWS", "remote", req.RemoteAddr)

	if !that.enter() {
		http.Error(writer, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer that.wg.Done()

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	player, err := that.session.Admit(uuid.NewString())
	if err != nil {
		if errors.Is(err, apperror.ErrSessionFull) {
			that.refuse(conn, log)
		} else {
			log.Error("failed to admit connection", "error", err)
		}

		_ = conn.Close()
		return
	}

	log = log.With("player_id", player.ID)
	log.Info("player connected")

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	written := make(chan struct{})
	go func() {
		defer close(written)
		that.writeLoop(conn, player, log)
	}()

	if err = that.readLoop(ctx, conn, player); err != nil {
		log.Info("connection read error", "error", err)
	}

	that.session.Remove(player)
	_ = conn.Close()
	<-written

	log.Info("player disconnected")
}

func (that *Server) refuse(conn *websocket.Conn, log *slog.Logger) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(protocol.Full())); err != nil {
		log.Warn("failed to send FULL", "error", err)
		return
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "session is full")
	_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeTimeout))
}

// readLoop - a frame may carry several newline separated commands. Oversized
// frames and lines are dropped.
func (that *Server) readLoop(ctx context.Context, conn *websocket.Conn, player *usecase.Player) error {
	log := that.logger.With("method", "readLoop", "player_id", player.ID)

	for {
		messageType, reader, err := conn.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(reader, maxFrameSize+1))
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		if len(data) > maxFrameSize {
			log.DebugContext(ctx, "dropping oversized frame")
			continue
		}

		for _, line := range strings.Split(string(data), protocol.Delimiter) {
			if strings.TrimSpace(line) == "" {
				continue
			}

			if len(line) > maxLineSize {
				log.DebugContext(ctx, "dropping oversized line")
				continue
			}

			that.session.Handle(ctx, player, line)
		}
	}
}

// writeLoop - runs until the session closes the player's outbox.
func (that *Server) writeLoop(conn *websocket.Conn, player *usecase.Player, log *slog.Logger) {
	failed := false

	for msg := range player.Outbox() {
		if failed {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			log.Warn("failed to write message", "error", err)
			failed = true
			_ = conn.Close()
		}
	}

	// an evicted player's reader has to stop as well
	_ = conn.Close()
}
