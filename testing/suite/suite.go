package suite

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

const maxWaitDuration = 30 * time.Second

type Suite struct {
	*testing.T
	Logger *slog.Logger

	// Game is the fake game server, reachable at URL.
	Game *GameServer
	URL  string
}

// New - starts a fake game server for the duration of the test.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	game := NewGameServer()
	server := httptest.NewServer(game)

	t.Cleanup(func() {
		// a held request would keep Close waiting
		game.releaseHold()
		server.Close()
	})

	return ctx, &Suite{
		T:      t,
		Logger: logger,
		Game:   game,
		URL:    server.URL,
	}
}
