package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	lip "github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Start - runs the terminal UI until the player quits or ctx is cancelled.
func Start(ctx context.Context, logger *slog.Logger, session session, timeout time.Duration, noColor bool) error {
	log := logger.With("method", "Start")

	if noColor {
		lip.SetColorProfile(termenv.Ascii)
	}

	program := tea.NewProgram(NewModel(ctx, logger, session, timeout), tea.WithContext(ctx))

	log.Info("starting terminal ui")

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("terminal ui stopped", "reason", ctx.Err())
			return nil
		}

		return fmt.Errorf("terminal ui failed: %w", err)
	}

	return nil
}
