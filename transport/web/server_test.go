package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
	"github.com/rocketscienceinc/tictactoe-client/internal/gateway"
	"github.com/rocketscienceinc/tictactoe-client/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-client/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-client/testing/suite"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, *suite.GameServer) {
	t.Helper()

	return newTestServerConfig(t, Config{Timeout: 5 * time.Second, MaxSessions: 100, SessionTTL: time.Hour})
}

func newTestServerConfig(t *testing.T, conf Config) (*Server, *suite.GameServer) {
	t.Helper()

	_, st := suite.New(t)

	newSession := func() (*usecase.Session, error) {
		gw, err := gateway.New(st.Logger, st.URL, 5*time.Second)
		if err != nil {
			return nil, err
		}

		return usecase.NewSession(st.Logger, gw, entity.EmptyCell), nil
	}

	return New(st.Logger, newSession, conf), st.Game
}

type call struct {
	method string
	target string
	form   url.Values
	cookie *http.Cookie
	json   bool
}

func serve(t *testing.T, srv *Server, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if c.form != nil {
		body = strings.NewReader(c.form.Encode())
	}

	req := httptest.NewRequest(c.method, c.target, body)
	if c.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.json {
		req.Header.Set("Accept", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

// open loads the page as a new browser and returns its session cookie.
func open(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()

	rec := serve(t, srv, call{method: http.MethodGet, target: "/"})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == cookieName {
			return cookie
		}
	}

	require.FailNow(t, "no session cookie set")

	return nil
}

func moveForm(row, col string) url.Values {
	return url.Values{"row": {row}, "col": {col}}
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) usecase.View {
	t.Helper()

	var view usecase.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	return view
}

func TestServer_Ping(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(t, srv, call{method: http.MethodGet, target: "/ping"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Page(t *testing.T) {
	t.Run("New browser gets a session and a fresh board", func(t *testing.T) {
		// Given: a running front end
		srv, game := newTestServer(t)

		// When: the page is loaded without a cookie
		rec := serve(t, srv, call{method: http.MethodGet, target: "/"})

		// Then: a session is created and the board is loaded with a reset
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cookieName, cookies[0].Name)
		_, err := uuid.Parse(cookies[0].Value)
		require.NoError(t, err)

		assert.Equal(t, 1, srv.sessions.count())
		assert.Equal(t, 1, game.Resets())

		body := rec.Body.String()
		assert.Contains(t, body, `id="board"`)
		assert.Equal(t, 9, strings.Count(body, `class="cell"`))
		assert.Equal(t, 9, strings.Count(body, `data-clickable="true"`))
		assert.Contains(t, body, `data-row="2" data-col="1"`)
		assert.Contains(t, body, `<p id="status">Your Turn</p>`)
		assert.Contains(t, body, `id="reset-button"`)
		assert.NotContains(t, body, `id="retry-button"`)
	})

	t.Run("Known browser keeps its game", func(t *testing.T) {
		// Given: a browser that already played a move
		srv, game := newTestServer(t)
		cookie := open(t, srv)

		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0"), cookie: cookie})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		// When: the page is loaded again
		rec = serve(t, srv, call{method: http.MethodGet, target: "/", cookie: cookie})

		// Then: no new session or reset happens and the move is shown
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, 1, srv.sessions.count())
		assert.Equal(t, 1, game.Resets())
		assert.Contains(t, rec.Body.String(), `<div class="cell" data-row="0" data-col="0">O</div>`)
		assert.Contains(t, rec.Body.String(), `<div class="cell" data-row="0" data-col="1">X</div>`)
		assert.Equal(t, 7, strings.Count(rec.Body.String(), `data-clickable="true"`))
	})

	t.Run("Unknown cookie starts over", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := serve(t, srv, call{
			method: http.MethodGet,
			target: "/",
			cookie: &http.Cookie{Name: cookieName, Value: uuid.NewString()},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Result().Cookies(), 1)
		assert.Equal(t, 1, srv.sessions.count())
	})

	t.Run("Server down on first load shows retry", func(t *testing.T) {
		// Given: a game server that fails
		srv, game := newTestServer(t)
		game.SetDown(true)

		// When: the page is loaded
		rec := serve(t, srv, call{method: http.MethodGet, target: "/"})

		// Then: the page still renders with the problem and a retry button
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `<p id="status" class="error">`+usecase.StatusConnection+`</p>`)
		assert.Contains(t, body, `id="retry-button"`)
		assert.Zero(t, strings.Count(body, `class="cell"`))
	})
}

func TestServer_Move(t *testing.T) {
	t.Run("Form post redirects and updates the board", func(t *testing.T) {
		// Given: a loaded page
		srv, _ := newTestServer(t)
		cookie := open(t, srv)

		// When: a cell is clicked
		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("1", "2"), cookie: cookie})

		// Then: the browser is sent back to the page and the state holds the move
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		rec = serve(t, srv, call{method: http.MethodGet, target: "/state", cookie: cookie})
		require.Equal(t, http.StatusOK, rec.Code)

		view := decodeView(t, rec)
		assert.Equal(t, entity.PlayerO, view.Board[1][2])
		assert.Equal(t, entity.PlayerX, view.Board[0][0])
		assert.Equal(t, usecase.StatusYourTurn, view.Status)
		assert.True(t, view.Active)
		assert.Equal(t, 7, tictactoe.ClickableCount(view.Cells))
	})

	t.Run("Game over stops further moves", func(t *testing.T) {
		// Given: a server that ends the game on the next move
		srv, game := newTestServer(t)
		cookie := open(t, srv)
		game.ForceWinner(entity.PlayerX)

		// When: a move is played
		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0"), cookie: cookie, json: true})

		// Then: the winner is announced and nothing is clickable
		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeView(t, rec)
		assert.Equal(t, "Player X wins!", view.Status)
		assert.False(t, view.Active)
		assert.Zero(t, tictactoe.ClickableCount(view.Cells))

		// When: another move is played
		rec = serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("2", "2"), cookie: cookie, json: true})

		// Then: it is refused
		assert.Equal(t, http.StatusConflict, rec.Code)

		// When: the game is reset
		rec = serve(t, srv, call{method: http.MethodPost, target: "/reset", cookie: cookie, json: true})

		// Then: every cell is playable again
		require.Equal(t, http.StatusOK, rec.Code)
		view = decodeView(t, rec)
		assert.True(t, view.Active)
		assert.Equal(t, 9, tictactoe.ClickableCount(view.Cells))
		assert.Equal(t, 2, game.Resets())
	})

	t.Run("Bad coordinates", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookie := open(t, srv)

		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("a", "0"), cookie: cookie})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("5", "0"), cookie: cookie, json: true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("No session", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0")})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		rec = serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0"), json: true})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = serve(t, srv, call{method: http.MethodGet, target: "/state"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Second click while waiting is refused", func(t *testing.T) {
		// Given: a server that holds the answer to the first move
		srv, game := newTestServer(t)
		cookie := open(t, srv)

		release := game.Hold()

		first := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			first <- serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0"), cookie: cookie, json: true})
		}()

		require.Eventually(t, func() bool {
			rec := serve(t, srv, call{method: http.MethodGet, target: "/state", cookie: cookie})
			return decodeView(t, rec).Phase == tictactoe.AwaitingServer.String()
		}, 2*time.Second, 10*time.Millisecond)

		// When: another cell is clicked
		rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("1", "1"), cookie: cookie, json: true})

		// Then: it is refused and the first move completes alone
		assert.Equal(t, http.StatusConflict, rec.Code)

		release()
		rec = <-first
		require.Equal(t, http.StatusOK, rec.Code)

		view := decodeView(t, rec)
		assert.Equal(t, entity.PlayerO, view.Board[0][0])
		assert.Equal(t, entity.EmptyCell, view.Board[1][1])
		assert.Equal(t, 1, game.Moves())
	})
}

func TestServer_Retry(t *testing.T) {
	// Given: a move that failed because the server went down
	srv, game := newTestServer(t)
	cookie := open(t, srv)
	game.SetDown(true)

	rec := serve(t, srv, call{method: http.MethodPost, target: "/move", form: moveForm("0", "0"), cookie: cookie, json: true})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var failed struct {
		Error string       `json:"error"`
		View  usecase.View `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.NotEmpty(t, failed.Error)
	assert.True(t, failed.View.Failed)
	assert.Equal(t, usecase.StatusConnection, failed.View.Status)
	assert.Equal(t, 9, tictactoe.ClickableCount(failed.View.Cells))

	// When: the server is back and the player retries
	game.SetDown(false)
	rec = serve(t, srv, call{method: http.MethodPost, target: "/retry", cookie: cookie})

	// Then: the move goes through
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(t, srv, call{method: http.MethodGet, target: "/state", cookie: cookie})
	view := decodeView(t, rec)
	assert.False(t, view.Failed)
	assert.Equal(t, entity.PlayerO, view.Board[0][0])

	// When: retry is pressed with nothing to retry
	rec = serve(t, srv, call{method: http.MethodPost, target: "/retry", cookie: cookie, json: true})

	// Then: it is refused
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Start(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx, "0")
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_SessionsAreBounded(t *testing.T) {
	// Given: a front end that keeps at most 5 sessions
	srv, game := newTestServerConfig(t, Config{Timeout: 5 * time.Second, MaxSessions: 5, SessionTTL: time.Hour})

	// When: 20 browsers without cookies load the page
	var last *http.Cookie
	for range 20 {
		last = open(t, srv)
	}

	// Then: only the bound is kept and the newest browser still has its game
	assert.Equal(t, 5, srv.sessions.count())
	assert.Equal(t, 20, game.Resets())

	rec := serve(t, srv, call{method: http.MethodGet, target: "/state", cookie: last})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ShutdownWithRequestInFlight(t *testing.T) {
	// Given: a served front end with a move held by the game server
	srv, game := newTestServerConfig(t, Config{Timeout: 2 * time.Second, MaxSessions: 10, SessionTTL: time.Hour})
	srv.shutdownWait = 50 * time.Millisecond

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, listener)
	}()

	base := "http://" + listener.Addr().String()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp, err := client.Get(base + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	release := game.Hold()

	moved := make(chan struct{})
	go func() {
		defer close(moved)
		if resp, err := client.PostForm(base+"/move", moveForm("0", "0")); err == nil {
			_ = resp.Body.Close()
		}
	}()

	require.Eventually(t, func() bool {
		resp, err := client.Get(base + "/state")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var view usecase.View
		if err = json.NewDecoder(resp.Body).Decode(&view); err != nil {
			return false
		}

		return view.Phase == tictactoe.AwaitingServer.String()
	}, 2*time.Second, 10*time.Millisecond)

	// When: the server is stopped while the move is still running
	cancel()

	// Then: the shutdown is not reported as a failure
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	release()
	<-moved
}
