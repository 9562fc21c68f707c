package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/protocol"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const (
	writeTimeout = 10 * time.Second
	maxLineSize  = 1024
)

type session interface {
	Admit(id string) (*usecase.Player, error)
	Handle(ctx context.Context, player *usecase.Player, line string)
	Remove(player *usecase.Player)
}

// Server speaks the line protocol over raw TCP.
type Server struct {
	logger  *slog.Logger
	session session

	wg sync.WaitGroup
}

func New(logger *slog.Logger, session session) *Server {
	return &Server{
		logger:  logger.With("component", "tcp"),
		session: session,
	}
}

// Start - listens on port until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return that.Serve(ctx, listener)
}

// Serve - accepts connections from listener until ctx is canceled, then waits
// for the open connections to finish.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	log.Info("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				that.wg.Wait()
				log.Info("listener closed")
				return nil
			}

			return fmt.Errorf("failed to accept connection: %w", err)
		}

		that.wg.Add(1)
		go func() {
			defer that.wg.Done()
			that.handleConn(ctx, conn)
		}()
	}
}

func (that *Server) handleConn(ctx context.Context, conn net.Conn) {
	log := that.logger.With("method", "handleConn", "remote", conn.RemoteAddr().String())

	player, err := that.session.Admit(uuid.NewString())
	if err != nil {
		if errors.Is(err, apperror.ErrSessionFull) {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err = io.WriteString(conn, protocol.Full()+protocol.Delimiter); err != nil {
				log.Warn("failed to send FULL", "error", err)
			}
		} else {
			log.Error("failed to admit connection", "error", err)
		}

		_ = conn.Close()
		return
	}

	log = log.With("player_id", player.ID)
	log.Info("player connected")

	// closing the connection on shutdown unblocks the reader
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

// readLoop - lines longer than maxLineSize are dropped up to their newline.
func (that *Server) readLoop(ctx context.Context, conn net.Conn, player *usecase.Player) error {
	reader := bufio.NewReaderSize(conn, maxLineSize)

	for {
		line, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			that.logger.DebugContext(ctx, "dropping oversized line", "player_id", player.ID)

			if err = discardLine(reader); err != nil {
				return readError(err)
			}

			continue
		}

		if len(line) > 0 {
			that.session.Handle(ctx, player, strings.TrimRight(string(line), "\r\n"))
		}

		if err != nil {
			return readError(err)
		}
	}
}

// discardLine - skips the rest of the current line, including its newline.
func discardLine(reader *bufio.Reader) error {
	for {
		_, err := reader.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func readError(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return fmt.Errorf("failed to read line: %w", err)
}

// writeLoop - runs until the session closes the player's outbox.
func (that *Server) writeLoop(conn net.Conn, player *usecase.Player, log *slog.Logger) {
	failed := false

	for msg := range player.Outbox() {
		if failed {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := io.WriteString(conn, msg+protocol.Delimiter); err != nil {
			log.Warn("failed to write message", "error", err)
			failed = true
			_ = conn.Close()
		}
	}

	// an evicted player's reader has to stop as well
	_ = conn.Close()
}
