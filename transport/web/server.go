package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// shutdownGrace is added to the request timeout so in-flight games can finish.
const shutdownGrace = 5 * time.Second

// Config - limits of the browser front end.
type Config struct {
	// Timeout bounds every call to the game server.
	Timeout     time.Duration
	MaxSessions int
	SessionTTL  time.Duration
}

//go:embed templates/index.html
var indexHTML string

type Server struct {
	logger       *slog.Logger
	sessions     *registry
	timeout      time.Duration
	shutdownWait time.Duration
	engine       *gin.Engine
}

// New - builds the browser front end. Every browser gets its own game session from newSession.
func New(logger *slog.Logger, newSession NewSessionFunc, conf Config) *Server {
	that := &Server{
		logger:       logger.With("component", "web"),
		sessions:     newRegistry(newSession, conf.MaxSessions, conf.SessionTTL),
		timeout:      conf.Timeout,
		shutdownWait: conf.Timeout + shutdownGrace,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), that.requestLogger())
	engine.SetHTMLTemplate(template.Must(template.New(pageTemplate).Parse(indexHTML)))

	engine.GET("/", that.page)
	engine.GET("/state", that.state)
	engine.POST("/move", that.move)
	engine.POST("/reset", that.reset)
	engine.POST("/retry", that.retry)
	engine.GET("/ping", PingHandler)

	that.engine = engine

	return that
}

func (that *Server) Handler() http.Handler {
	return that.engine
}

// Start - serves on port until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(ctx, listener)
}

// Serve - serves on listener until ctx is cancelled, then waits for in-flight requests.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve")

	srv := &http.Server{
		Handler:      that.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: that.timeout + 10*time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), that.shutdownWait)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		log.Warn("requests still running at shutdown", "waited", that.shutdownWait)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	log.Info("http server stopped")

	return nil
}

func (that *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		that.logger.Debug("request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
