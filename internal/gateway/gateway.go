package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const (
	pathMove  = "/move"
	pathReset = "/reset"

	headerRequestID = "X-Request-ID"

	// the server answers "success" for a move that did not end the game
	statusSuccess = "success"
	statusError   = "error"

	maxBodySize = 1 << 20
)

var ErrEmptyBaseURL = errors.New("gateway base url is empty")

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type serverResponse struct {
	Board   entity.Board `json:"board"`
	Status  string       `json:"status"`
	Winner  string       `json:"winner"`
	Message string       `json:"message"`
}

// Gateway talks to the game server. The server keeps the board in its session
// cookie, so each game session needs its own Gateway.
type Gateway struct {
	logger  *slog.Logger
	baseURL *url.URL
	client  *http.Client
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration) (*Gateway, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Gateway{
		logger:  logger.With("component", "gateway"),
		baseURL: parsed,
		client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// SubmitMove - POST /move with the clicked cell.
func (that *Gateway) SubmitMove(ctx context.Context, row, col int) (*entity.MoveResult, error) {
	body, err := json.Marshal(moveRequest{Row: row, Col: col})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	resp, err := that.post(ctx, pathMove, body)
	if err != nil {
		return nil, err
	}

	result := &entity.MoveResult{Board: resp.Board, Winner: resp.Winner}

	switch resp.Status {
	case entity.StatusInProgress, statusSuccess:
		result.Status = entity.StatusInProgress
		result.Winner = ""
	case entity.StatusGameOver:
		if resp.Winner == "" {
			return nil, fmt.Errorf("%w: game over without winner", apperror.ErrMalformedResponse)
		}
		result.Status = entity.StatusGameOver
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrMalformedResponse, resp.Status)
	}

	return result, nil
}

// ResetGame - POST /reset, returns the fresh board.
func (that *Gateway) ResetGame(ctx context.Context) (*entity.ResetResult, error) {
	resp, err := that.post(ctx, pathReset, nil)
	if err != nil {
		return nil, err
	}

	return &entity.ResetResult{Board: resp.Board}, nil
}

func (that *Gateway) post(ctx context.Context, path string, body []byte) (*serverResponse, error) {
	requestID := uuid.NewString()
	log := that.logger.With("path", path, "request_id", requestID)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	log.Debug("server answered", "status", resp.StatusCode, "elapsed", time.Since(started))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}

	var decoded serverResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode == http.StatusBadRequest && decodeErr == nil && decoded.Status == statusError {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMoveRejected, decoded.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s answered %d", apperror.ErrUnexpectedStatus, path, resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedResponse, decodeErr)
	}

	if err = decoded.Board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedResponse, err)
	}

	return &decoded, nil
}
