package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	lip "github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
	"github.com/rocketscienceinc/tictactoe-client/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-client/internal/usecase"
)

var (
	headerStyle    = lip.NewStyle().Foreground(lip.Color("#F1FA8C")).Bold(true)
	footerStyle    = lip.NewStyle().Foreground(lip.Color("#6272A4"))
	statusStyle    = lip.NewStyle().Foreground(lip.Color("#50FA7B")).Bold(true)
	errorStyle     = lip.NewStyle().Foreground(lip.Color("#FF5555")).Bold(true)
	xStyle         = lip.NewStyle().Foreground(lip.Color("#8BE9FD"))
	oStyle         = lip.NewStyle().Foreground(lip.Color("#FF79C6"))
	clickableStyle = lip.NewStyle().Foreground(lip.Color("#BD93F9"))
	cursorStyle    = lip.NewStyle().Reverse(true)
)

type session interface {
	BeginMove(row, col int) (usecase.Request, error)
	BeginReset() (usecase.Request, error)
	BeginRetry() (usecase.Request, error)
	Complete(ctx context.Context, req usecase.Request) error
	View() usecase.View
}

// doneMsg is sent when a request started by the model has been completed.
type doneMsg struct {
	req usecase.Request
	err error
}

type Model struct {
	ctx     context.Context
	logger  *slog.Logger
	session session
	timeout time.Duration

	view      usecase.View
	cursorRow int
	cursorCol int
	pending   bool
	quitting  bool
}

// NewModel - the model starts pending: Init always loads the first board. Requests are
// bounded by timeout and cancelled with ctx.
func NewModel(ctx context.Context, logger *slog.Logger, session session, timeout time.Duration) Model {
	return Model{
		ctx:     ctx,
		logger:  logger.With("component", "tui"),
		session: session,
		timeout: timeout,
		view:    session.View(),
		pending: true,
	}
}

// Init loads the first board, the same way a page load does.
func (m Model) Init() tea.Cmd {
	req, err := m.session.BeginReset()
	if err != nil {
		m.logger.Error("initial reset refused", "error", err)
		return func() tea.Msg {
			return doneMsg{err: err}
		}
	}

	return m.complete(req)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.pending = false
		m.view = m.session.View()
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursorRow > 0 {
				m.cursorRow--
			}

		case "down", "j":
			if m.cursorRow < m.rows()-1 {
				m.cursorRow++
			}

		case "left", "h":
			if m.cursorCol > 0 {
				m.cursorCol--
			}

		case "right", "l":
			if m.cursorCol < m.cols()-1 {
				m.cursorCol++
			}

		case "enter", " ":
			return m.start(func() (usecase.Request, error) {
				return m.session.BeginMove(m.cursorRow, m.cursorCol)
			})

		case "r":
			return m.start(m.session.BeginReset)

		case "t":
			return m.start(m.session.BeginRetry)
		}
	}

	return m, nil
}

// start asks the session to accept a request and, if it does, schedules the call.
func (m Model) start(begin func() (usecase.Request, error)) (tea.Model, tea.Cmd) {
	req, err := begin()
	if err != nil {
		if !isExpectedRefusal(err) {
			m.logger.Error("request refused", "error", err)
		}
		return m, nil
	}

	m.pending = true
	m.view = m.session.View()

	return m, m.complete(req)
}

func (m Model) complete(req usecase.Request) tea.Cmd {
	parent := m.ctx
	session := m.session
	timeout := m.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		return doneMsg{req: req, err: session.Complete(ctx, req)}
	}
}

// isExpectedRefusal is true for clicks the board simply doesn't accept.
func isExpectedRefusal(err error) bool {
	return errors.Is(err, apperror.ErrCellNotClickable) ||
		errors.Is(err, apperror.ErrCellOutOfRange) ||
		errors.Is(err, apperror.ErrGameInactive) ||
		errors.Is(err, apperror.ErrAwaitingServer) ||
		errors.Is(err, apperror.ErrNothingToRetry)
}

func (m Model) rows() int {
	return m.view.Board.Rows()
}

func (m Model) cols() int {
	return m.view.Board.Cols()
}

func (m *Model) clampCursor() {
	if m.cursorRow >= m.rows() {
		m.cursorRow = max(m.rows()-1, 0)
	}
	if m.cursorCol >= m.cols() {
		m.cursorCol = max(m.cols()-1, 0)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Tic-Tac-Toe vs AI"))
	b.WriteString("\n\n")

	cols := m.cols()
	for i, cell := range m.view.Cells {
		b.WriteString(m.renderCell(cell))
		if cols > 0 && (i+1)%cols == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	b.WriteString("\n")
	if m.view.Failed || m.view.Status == usecase.StatusInvalidMove {
		b.WriteString(errorStyle.Render(m.view.Status))
	} else {
		b.WriteString(statusStyle.Render(m.view.Status))
	}
	b.WriteString("\n\n")

	help := "arrows/hjkl: move • enter: play • r: reset • q: quit"
	switch {
	case m.pending:
		help = "waiting for the server • q: quit"
	case m.view.Failed:
		help = "arrows/hjkl: move • enter: play • t: retry • r: reset • q: quit"
	}
	b.WriteString(footerStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderCell(cell tictactoe.DisplayCell) string {
	content := cell.Marker
	switch {
	case content == entity.PlayerX:
		content = xStyle.Render(content)
	case content == entity.PlayerO:
		content = oStyle.Render(content)
	case cell.Clickable:
		content = clickableStyle.Render("·")
	default:
		content = cell.Marker
	}

	text := fmt.Sprintf("[%s]", content)
	if cell.Row == m.cursorRow && cell.Col == m.cursorCol {
		return cursorStyle.Render(text)
	}

	return text
}
