package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/usecase"
)

const (
	cookieName   = "client_session"
	pageTemplate = "index"
)

type pageData struct {
	View  usecase.View
	Cols  int
	Error bool
}

// page renders the board. A browser without a known session gets a new one, and the
// new session loads its first board with a reset.
func (that *Server) page(c *gin.Context) {
	log := that.logger.With("method", "page")

	session, ok := that.lookup(c)
	if !ok {
		id, created, err := that.sessions.create()
		if err != nil {
			log.Error("failed to create session", "error", err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, 0, "/", "", false, true)
		session = created

		ctx, cancel := that.requestContext(c)
		defer cancel()

		if err = session.Reset(ctx); err != nil {
			log.Error("initial reset failed", "session", id, "error", err)
		}
	}

	view := session.View()

	c.HTML(http.StatusOK, pageTemplate, pageData{
		View:  view,
		Cols:  max(view.Board.Cols(), 1),
		Error: view.Failed || view.Status == usecase.StatusInvalidMove,
	})
}

func (that *Server) state(c *gin.Context) {
	session, ok := that.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no game session"})
		return
	}

	c.JSON(http.StatusOK, session.View())
}

func (that *Server) move(c *gin.Context) {
	row, rowErr := strconv.Atoi(c.PostForm("row"))
	col, colErr := strconv.Atoi(c.PostForm("col"))
	if rowErr != nil || colErr != nil {
		c.String(http.StatusBadRequest, "row and col must be integers")
		return
	}

	that.act(c, "move", func(ctx context.Context, session *usecase.Session) error {
		return session.Move(ctx, row, col)
	})
}

func (that *Server) reset(c *gin.Context) {
	that.act(c, "reset", func(ctx context.Context, session *usecase.Session) error {
		return session.Reset(ctx)
	})
}

func (that *Server) retry(c *gin.Context) {
	that.act(c, "retry", func(ctx context.Context, session *usecase.Session) error {
		return session.Retry(ctx)
	})
}

// act runs one session operation and answers with a redirect to the page, or with the
// session view when the caller asked for JSON.
func (that *Server) act(c *gin.Context, method string, run func(context.Context, *usecase.Session) error) {
	log := that.logger.With("method", method)

	session, ok := that.lookup(c)
	if !ok {
		if wantsJSON(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game session"})
			return
		}

		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ctx, cancel := that.requestContext(c)
	defer cancel()

	err := run(ctx, session)
	if err != nil && !isRefusal(err) {
		log.Warn("operation failed", "error", err)
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err != nil {
		c.JSON(statusCode(err), gin.H{"error": err.Error(), "view": session.View()})
		return
	}

	c.JSON(http.StatusOK, session.View())
}

func (that *Server) lookup(c *gin.Context) (*usecase.Session, bool) {
	id, err := c.Cookie(cookieName)
	if err != nil || id == "" {
		return nil, false
	}

	return that.sessions.get(id)
}

func (that *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), that.timeout)
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// isRefusal is true for operations the session declined without calling the server.
func isRefusal(err error) bool {
	return errors.Is(err, apperror.ErrAwaitingServer) ||
		errors.Is(err, apperror.ErrGameInactive) ||
		errors.Is(err, apperror.ErrCellNotClickable) ||
		errors.Is(err, apperror.ErrCellOutOfRange) ||
		errors.Is(err, apperror.ErrNothingToRetry)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrCellOutOfRange):
		return http.StatusBadRequest
	case isRefusal(err):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrMoveRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
