package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-client/internal/config"
	"github.com/rocketscienceinc/tictactoe-client/internal/gateway"
	"github.com/rocketscienceinc/tictactoe-client/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-client/transport/tui"
	"github.com/rocketscienceinc/tictactoe-client/transport/web"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	newSession := sessionFactory(logger, conf)

	switch conf.UI {
	case config.UITerminal:
		session, err := newSession()
		if err != nil {
			return err
		}

		if err = tui.Start(ctx, logger, session, conf.Gateway.Timeout, conf.TUI.NoColor); err != nil {
			return fmt.Errorf("terminal ui error: %w", err)
		}

	case config.UIWeb:
		gin.SetMode(gin.ReleaseMode)

		server := web.New(logger, newSession, web.Config{
			Timeout:     conf.Gateway.Timeout,
			MaxSessions: conf.Web.MaxSessions,
			SessionTTL:  conf.Web.SessionTTL,
		})
		if err := server.Start(ctx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownUI, conf.UI)
	}

	log.Info("Application stopped")

	return nil
}

// sessionFactory builds game sessions, each with its own gateway since the game server
// tracks the board per cookie.
func sessionFactory(logger *slog.Logger, conf *config.Config) web.NewSessionFunc {
	return func() (*usecase.Session, error) {
		gw, err := gateway.New(logger, conf.Gateway.BaseURL, conf.Gateway.Timeout)
		if err != nil {
			return nil, fmt.Errorf("could not create gateway: %w", err)
		}

		return usecase.NewSession(logger, gw, conf.Board.EmptyMarker), nil
	}
}
