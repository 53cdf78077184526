package suite

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const (
	sessionCookie = "session"
	boardSize     = 3
)

// GameServer behaves like the real game server: it keeps one board per session cookie,
// places the human "O" and answers with an "X" on the first free cell. It has no win
// detection; a game ends on a full board (tie) or when a winner is forced.
type GameServer struct {
	mu     sync.Mutex
	mux    *http.ServeMux
	boards map[string]entity.Board
	resets int
	moves  int
	winner string
	down   bool
	hold   chan struct{}
}

func NewGameServer() *GameServer {
	that := &GameServer{boards: map[string]entity.Board{}}

	that.mux = http.NewServeMux()
	that.mux.HandleFunc("POST /reset", that.handleReset)
	that.mux.HandleFunc("POST /move", that.handleMove)

	return that
}

func (that *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.mux.ServeHTTP(w, r)
}

// SetDown makes every endpoint answer 500.
func (that *GameServer) SetDown(down bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.down = down
}

// ForceWinner ends the game with winner on the next move.
func (that *GameServer) ForceWinner(winner string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.winner = winner
}

// Hold keeps move answers waiting until the returned func is called.
func (that *GameServer) Hold() (release func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.hold = make(chan struct{})

	return that.releaseHold
}

func (that *GameServer) releaseHold() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.hold != nil {
		close(that.hold)
		that.hold = nil
	}
}

func (that *GameServer) Resets() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.resets
}

func (that *GameServer) Moves() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.moves
}

// session must be called with mu held.
func (that *GameServer) session(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})

	return id
}

func (that *GameServer) handleReset(w http.ResponseWriter, r *http.Request) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.down {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := that.session(w, r)
	that.boards[id] = entity.NewBoard(boardSize, boardSize, entity.EmptyCell)
	that.winner = ""
	that.resets++

	writeJSON(w, http.StatusOK, map[string]any{"board": that.boards[id]})
}

func (that *GameServer) handleMove(w http.ResponseWriter, r *http.Request) {
	that.mu.Lock()
	hold := that.hold
	that.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	var move struct {
		Row int `json:"row"`
		Col int `json:"col"`
	}
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		writeError(w)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.down {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := that.session(w, r)

	board, ok := that.boards[id]
	if !ok {
		board = entity.NewBoard(boardSize, boardSize, entity.EmptyCell)
		that.boards[id] = board
	}

	if marker, err := board.Marker(entity.Cell{Row: move.Row, Col: move.Col}); err != nil || marker != entity.EmptyCell {
		writeError(w)
		return
	}

	that.moves++
	board[move.Row][move.Col] = entity.PlayerO

	if that.winner != "" {
		writeJSON(w, http.StatusOK, map[string]any{"board": board, "status": entity.StatusGameOver, "winner": that.winner})
		return
	}

	for i := range board {
		for j := range board[i] {
			if board[i][j] == entity.EmptyCell {
				board[i][j] = entity.PlayerX
				writeJSON(w, http.StatusOK, map[string]any{"board": board, "status": "success"})
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"board": board, "status": entity.StatusGameOver, "winner": entity.PlayerTie})
}

func writeError(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "Invalid move"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
