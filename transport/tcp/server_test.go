package tcp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/protocol"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const readTimeout = 2 * time.Second

type testClient struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func (that *testClient) send(line string) {
	that.t.Helper()

	_, err := io.WriteString(that.conn, line+"\n")
	require.NoError(that.t, err)
}

func (that *testClient) expect(lines ...string) {
	that.t.Helper()

	for _, expected := range lines {
		require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readTimeout)))

		line, err := that.reader.ReadString('\n')
		require.NoError(that.t, err, "waiting for %q", expected)
		assert.Equal(that.t, expected, strings.TrimSuffix(line, "\n"))
	}
}

func (that *testClient) expectClosed() {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readTimeout)))

	_, err := that.reader.ReadString('\n')
	require.ErrorIs(that.t, err, io.EOF)
}

type testServer struct {
	session *usecase.Session
	addr    string

	cancel context.CancelFunc
	done   chan error

	once sync.Once
	err  error
}

// stop - cancels the server and waits for Serve to return.
func (that *testServer) stop(t *testing.T) error {
	t.Helper()

	that.once.Do(func() {
		that.cancel()

		select {
		case that.err = <-that.done:
		case <-time.After(readTimeout):
			t.Fatal("server did not stop")
		}
	})

	return that.err
}

func startServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := usecase.NewSession(logger, usecase.Options{}, nil)
	server := New(logger, session)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, listener)
	}()

	ts := &testServer{session: session, addr: listener.Addr().String(), cancel: cancel, done: done}
	t.Cleanup(func() {
		_ = ts.stop(t)
	})

	return ts
}

func (that *testServer) dial(t *testing.T) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", that.addr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return &testClient{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (that *testServer) waitPlayers(t *testing.T, count int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return that.session.Snapshot().Players == count
	}, readTimeout, 10*time.Millisecond)
}

// seat - connects two clients and starts a game, p1 black.
func (that *testServer) seat(t *testing.T) (*testClient, *testClient) {
	t.Helper()

	p1 := that.dial(t)
	p2 := that.dial(t)
	that.waitPlayers(t, 2)

	p1.send("COLOR,black")
	p1.expect("START,black")
	p2.expect("START,white")

	return p1, p2
}

func TestServer_PlaysAGame(t *testing.T) {
	server := startServer(t)
	p1, p2 := server.seat(t)

	// Given: white's color request after the start is ignored
	p2.send("COLOR,white")

	// When: black builds a row while white plays elsewhere
	for x := 3; x < 7; x++ {
		blackMove := protocol.Move(x, 7)
		p1.send(blackMove)
		p1.expect(blackMove)
		p2.expect(blackMove)

		whiteMove := protocol.Move(x, 9)
		p2.send(whiteMove)
		p1.expect(whiteMove)
		p2.expect(whiteMove)
	}

	p1.send("MOVE,7,7")

	// Then: both players see the win and the reset
	p1.expect("MOVE,7,7", "WIN,black", "RESET")
	p2.expect("MOVE,7,7", "WIN,black", "RESET")
}

func TestServer_IgnoresInvalidInput(t *testing.T) {
	server := startServer(t)
	p1, p2 := server.seat(t)

	// When: garbage and illegal moves arrive
	p1.send("HELLO")
	p1.send("MOVE,x,y")
	p2.send("MOVE,0,0")
	p1.send("MOVE,20,20")

	// Then: the connection stays open and the next valid move goes through
	p1.send("MOVE,0,0")
	p1.expect("MOVE,0,0")
	p2.expect("MOVE,0,0")
}

func TestServer_DropsOversizedLine(t *testing.T) {
	server := startServer(t)
	p1, p2 := server.seat(t)

	p1.send("MOVE,7,7")
	p1.expect("MOVE,7,7")
	p2.expect("MOVE,7,7")

	// When: white sends a line far beyond the line limit
	p2.send(strings.Repeat("X", 2*maxLineSize))

	// Then: the line is dropped, the connection stays open and play goes on
	p2.send("MOVE,0,0")
	p1.expect("MOVE,0,0")
	p2.expect("MOVE,0,0")
	assert.Equal(t, 2, server.session.Snapshot().Players)
	assert.Equal(t, 2, server.session.Snapshot().Moves)
}

func TestServer_RefusesThirdConnection(t *testing.T) {
	server := startServer(t)
	server.seat(t)

	// When: a third client connects
	p3 := server.dial(t)

	// Then: it is told the session is full and disconnected
	p3.expect("FULL")
	p3.expectClosed()
	assert.Equal(t, 2, server.session.Snapshot().Players)
}

func TestServer_DisconnectResetsOpponent(t *testing.T) {
	server := startServer(t)
	p1, p2 := server.seat(t)

	p1.send("MOVE,7,7")
	p2.expect("MOVE,7,7")

	// When: black drops the connection
	require.NoError(t, p1.conn.Close())

	// Then: white gets RESET and the seat is free again
	p2.expect("RESET")
	server.waitPlayers(t, 1)

	p3 := server.dial(t)
	server.waitPlayers(t, 2)
	p3.send("COLOR,white")
	p3.expect("START,white")
	p2.expect("START,black")
}

func TestServer_Shutdown(t *testing.T) {
	server := startServer(t)
	p1 := server.dial(t)
	server.waitPlayers(t, 1)

	require.NoError(t, server.stop(t))

	p1.expectClosed()
	assert.Equal(t, 0, server.session.Snapshot().Players)
}
