package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
	"github.com/rocketscienceinc/tictactoe-client/internal/tictactoe"
)

const (
	StatusYourTurn     = "Your Turn"
	StatusThinking     = "AI is thinking..."
	StatusTie          = "It's a Tie!"
	StatusInvalidMove  = "Invalid move"
	StatusConnection   = "Connection problem, press retry"
	StatusLoading      = "Loading..."
	statusWinnerFormat = "Player %s wins!"
)

type gatewayDep interface {
	SubmitMove(ctx context.Context, row, col int) (*entity.MoveResult, error)
	ResetGame(ctx context.Context) (*entity.ResetResult, error)
}

// RequestKind names the two calls a session can make.
type RequestKind int

const (
	RequestMove RequestKind = iota + 1
	RequestReset
)

func (k RequestKind) String() string {
	switch k {
	case RequestMove:
		return "move"
	case RequestReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Request is a call accepted by Begin* and waiting for Complete.
type Request struct {
	Kind RequestKind
	Cell entity.Cell
}

// View is a snapshot of what a front end has to draw.
type View struct {
	Board  entity.Board            `json:"board"`
	Cells  []tictactoe.DisplayCell `json:"cells"`
	Status string                  `json:"status"`
	Active bool                    `json:"active"`
	Phase  string                  `json:"phase"`
	Failed bool                    `json:"failed"`
}

// Session is one game as seen by one player: the last board, the status line and the
// turn controller. Every transition goes through Begin*/Complete.
type Session struct {
	logger      *slog.Logger
	gateway     gatewayDep
	emptyMarker string

	mu         sync.Mutex
	controller *tictactoe.TurnController
	board      entity.Board
	cells      []tictactoe.DisplayCell
	status     string
	failed     *Request
}

func NewSession(logger *slog.Logger, gateway gatewayDep, emptyMarker string) *Session {
	return &Session{
		logger:      logger.With("component", "session"),
		gateway:     gateway,
		emptyMarker: emptyMarker,
		controller:  tictactoe.NewTurnController(),
		status:      StatusLoading,
	}
}

// BeginMove accepts a click on (row, col) if the cell is clickable right now.
func (that *Session) BeginMove(row, col int) (Request, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.controller.Active() {
		return Request{}, apperror.ErrGameInactive
	}

	if that.controller.Phase() == tictactoe.AwaitingServer {
		return Request{}, apperror.ErrAwaitingServer
	}

	cell, ok := tictactoe.Lookup(that.cells, row, col)
	if !ok {
		return Request{}, fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOutOfRange, row, col)
	}

	if !cell.Clickable {
		return Request{}, fmt.Errorf("%w: (%d,%d) holds %q", apperror.ErrCellNotClickable, row, col, cell.Marker)
	}

	req := Request{Kind: RequestMove, Cell: entity.Cell{Row: row, Col: col}}
	if err := that.begin(req); err != nil {
		return Request{}, err
	}

	return req, nil
}

// BeginReset accepts a reset unless another request is outstanding.
func (that *Session) BeginReset() (Request, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	req := Request{Kind: RequestReset}
	if err := that.begin(req); err != nil {
		return Request{}, err
	}

	return req, nil
}

// begin must be called with mu held.
func (that *Session) begin(req Request) error {
	if err := that.controller.BeginRequest(); err != nil {
		return err
	}

	if req.Kind == RequestMove {
		that.status = StatusThinking
	}
	that.render()

	return nil
}

// Complete runs the gateway call for req and applies the answer. On failure the board
// stays as it was, input is re-enabled and the request is kept for Retry.
func (that *Session) Complete(ctx context.Context, req Request) error {
	log := that.logger.With("method", "Complete", "request", req.Kind.String())

	var (
		move  *entity.MoveResult
		reset *entity.ResetResult
		err   error
	)

	switch req.Kind {
	case RequestMove:
		move, err = that.gateway.SubmitMove(ctx, req.Cell.Row, req.Cell.Col)
	case RequestReset:
		reset, err = that.gateway.ResetGame(ctx)
	default:
		err = fmt.Errorf("unknown request kind %d", req.Kind)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.controller.FinishRequest()

	if err != nil {
		log.Error("request failed", "row", req.Cell.Row, "col", req.Cell.Col, "error", err)
		that.fail(req, err)

		return fmt.Errorf("%s failed: %w", req.Kind, err)
	}

	that.failed = nil

	switch req.Kind {
	case RequestMove:
		that.applyMove(move)
	case RequestReset:
		that.applyReset(reset)
	}

	log.Debug("request applied", "status", that.status, "active", that.controller.Active())

	return nil
}

// Move - BeginMove followed by Complete.
func (that *Session) Move(ctx context.Context, row, col int) error {
	req, err := that.BeginMove(row, col)
	if err != nil {
		return err
	}

	return that.Complete(ctx, req)
}

// Reset - BeginReset followed by Complete.
func (that *Session) Reset(ctx context.Context) error {
	req, err := that.BeginReset()
	if err != nil {
		return err
	}

	return that.Complete(ctx, req)
}

// BeginRetry re-arms the last failed request.
func (that *Session) BeginRetry() (Request, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.failed == nil {
		return Request{}, apperror.ErrNothingToRetry
	}

	req := *that.failed
	if req.Kind == RequestMove && !that.controller.Active() {
		return Request{}, apperror.ErrGameInactive
	}

	if err := that.begin(req); err != nil {
		return Request{}, err
	}

	return req, nil
}

func (that *Session) Retry(ctx context.Context) error {
	req, err := that.BeginRetry()
	if err != nil {
		return err
	}

	return that.Complete(ctx, req)
}

func (that *Session) View() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	cells := make([]tictactoe.DisplayCell, len(that.cells))
	copy(cells, that.cells)

	return View{
		Board:  that.board.Clone(),
		Cells:  cells,
		Status: that.status,
		Active: that.controller.Active(),
		Phase:  that.controller.Phase().String(),
		Failed: that.failed != nil,
	}
}

func (that *Session) applyMove(result *entity.MoveResult) {
	that.board = result.Board.Clone()

	switch {
	case result.IsGameOver() && result.IsTie():
		that.controller.EndGame()
		that.status = StatusTie
	case result.IsGameOver():
		that.controller.EndGame()
		that.status = fmt.Sprintf(statusWinnerFormat, result.Winner)
	default:
		that.status = StatusYourTurn
	}

	that.render()
}

func (that *Session) applyReset(result *entity.ResetResult) {
	that.board = result.Board.Clone()
	that.controller.Restart()
	that.status = StatusYourTurn
	that.render()
}

func (that *Session) fail(req Request, err error) {
	// a rejected move would be rejected again
	if errors.Is(err, apperror.ErrMoveRejected) {
		that.failed = nil
		that.status = StatusInvalidMove
	} else {
		that.failed = &req
		that.status = StatusConnection
	}

	that.render()
}

// render rebuilds the display cells from scratch.
func (that *Session) render() {
	that.cells = tictactoe.Render(that.board, that.emptyMarker, that.controller.CanSubmit())
}
