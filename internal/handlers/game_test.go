package handlers

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

type fixture struct {
	sessions *session.Registry
	dir      string
	mux      *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	session.Log.SetOutput(io.Discard)

	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	f := &fixture{
		sessions: session.NewRegistry(rand.New(rand.NewPCG(1, 2))),
		dir:      dir,
		mux:      http.NewServeMux(),
	}
	ws := config.Config{Mode: "development"}.NewWebSocket()
	h := NewGameHandler(logger, f.sessions, store, ws)

	f.mux.HandleFunc("POST /v1/game", h.NewGame)
	f.mux.HandleFunc("POST /v1/game/load", h.Load)
	f.mux.HandleFunc("GET /v1/game/{id}", h.Fetch)
	f.mux.HandleFunc("POST /v1/game/{id}/move", h.MakeAMove)
	f.mux.HandleFunc("POST /v1/game/{id}/forfeit", h.Forfeit)
	f.mux.HandleFunc("POST /v1/game/{id}/save", h.Save)
	f.mux.HandleFunc("/v1/game/{id}/connect", h.ConnectWS)
	f.mux.HandleFunc("GET /v1/saves", h.ListSaves)
	return f
}

// centerMine adds a 3x3 game with its only mine in the middle.
func (f *fixture) centerMine(t *testing.T) string {
	t.Helper()
	b, err := mines.NewBoardWithMines(3, []mines.Point{{Row: 1, Col: 1}})
	require.NoError(t, err)
	return f.sessions.Add(mines.NewGameFromBoard(b)).ID
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type sessionBody struct {
	ID             string     `json:"game_session_id"`
	Size           int        `json:"size"`
	MineCount      int        `json:"mine_count"`
	MinesRemaining int        `json:"mines_remaining"`
	Status         string     `json:"status"`
	Grid           [][]string `json:"grid"`
	EndedAt        *int64     `json:"ended_at"`
}

type moveBody struct {
	sessionBody
	Outcome   string `json:"outcome"`
	Effective bool   `json:"effective"`
	Message   string `json:"message"`
}

func TestNewGame(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/game?size=5")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[sessionBody](t, rec)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, 5, body.Size)
	assert.Equal(t, mines.MineCount(5), body.MineCount)
	assert.Equal(t, "playing", body.Status)
	assert.Nil(t, body.EndedAt)
	require.Len(t, body.Grid, 5)
	for _, row := range body.Grid {
		assert.Equal(t, []string{"~", "~", "~", "~", "~"}, row)
	}

	rec = f.do(t, http.MethodPost, "/v1/game")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mines.DefaultSize, decode[sessionBody](t, rec).Size)

	for _, target := range []string{"/v1/game?size=0", "/v1/game?size=100", "/v1/game?size=abc"} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, target).Code)
		})
	}
}

func TestFetch(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)

	rec := f.do(t, http.MethodGet, "/v1/game/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[sessionBody](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/v1/game/nope").Code)
}

func TestMakeAMove(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)
	move := func(query string) *httptest.ResponseRecorder {
		return f.do(t, http.MethodPost, "/v1/game/"+id+"/move?"+query)
	}

	rec := move("action=reveal&row=0&col=0")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[moveBody](t, rec)
	assert.True(t, body.Effective)
	assert.Equal(t, "continue", body.Outcome)
	assert.Equal(t, "1", body.Grid[0][0])
	assert.Equal(t, "~", body.Grid[0][1])

	rec = move("action=r&row=0&col=0")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[moveBody](t, rec)
	assert.False(t, body.Effective)
	assert.NotEmpty(t, body.Message)

	t.Run("bad input", func(t *testing.T) {
		for _, query := range []string{
			"action=reveal&row=3&col=0",
			"action=reveal&row=0&col=-1",
			"action=poke&row=0&col=0",
			"action=reveal&col=0",
			"action=reveal&row=x&col=0",
		} {
			assert.Equal(t, http.StatusBadRequest, move(query).Code, query)
		}
	})

	rec = move("action=flag&row=1&col=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[moveBody](t, rec).MinesRemaining)

	for _, p := range []string{"0&col=1", "0&col=2", "1&col=0", "1&col=2", "2&col=0", "2&col=1"} {
		require.Equal(t, http.StatusOK, move("action=reveal&row="+p).Code)
	}
	rec = move("action=reveal&row=2&col=2")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[moveBody](t, rec)
	assert.Equal(t, "victory", body.Outcome)
	assert.Equal(t, "won", body.Status)
	assert.NotNil(t, body.EndedAt)
	assert.Equal(t, "*", body.Grid[1][1])

	assert.Equal(t, http.StatusConflict, move("action=unflag&row=1&col=1").Code)
}

func TestExplosion(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)

	rec := f.do(t, http.MethodPost, "/v1/game/"+id+"/move?action=reveal&row=1&col=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[moveBody](t, rec)
	assert.Equal(t, "explosion", body.Outcome)
	assert.Equal(t, "lost", body.Status)
	assert.NotNil(t, body.EndedAt)
	assert.Equal(t, "1", body.Grid[0][0], "finished games show the solution")
}

func TestForfeit(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)

	rec := f.do(t, http.MethodPost, "/v1/game/"+id+"/forfeit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lost", decode[sessionBody](t, rec).Status)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/v1/game/nope/forfeit").Code)
}

func TestSaveAndLoad(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)
	require.Equal(t, http.StatusOK,
		f.do(t, http.MethodPost, "/v1/game/"+id+"/move?action=flag&row=2&col=2").Code)

	rec := f.do(t, http.MethodPost, "/v1/game/"+id+"/save?name=first")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.FileExists(t, filepath.Join(f.dir, "first.yaml"))

	rec = f.do(t, http.MethodPost, "/v1/game/load?name=first")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[sessionBody](t, rec)
	assert.NotEqual(t, id, body.ID)
	assert.Equal(t, "F", body.Grid[2][2])
	assert.Equal(t, "playing", body.Status)

	rec = f.do(t, http.MethodGet, "/v1/saves")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"first"}, decode[map[string][]string](t, rec)["saves"])

	t.Run("errors", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(f.dir, "junk.yaml"), []byte("size: [nope"), 0o644))

		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/game/"+id+"/save?name=a/b").Code)
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/game/"+id+"/save").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/v1/game/nope/save?name=x").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/v1/game/load?name=missing").Code)
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/game/load?name=..").Code)
		assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPost, "/v1/game/load?name=junk").Code)
	})
}

func TestConnectWS(t *testing.T) {
	f := newFixture(t)
	id := f.centerMine(t)
	server := httptest.NewServer(f.mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/game/" + id + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	send := func(text string) map[string]any {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
		var reply map[string]any
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := send("r 0 0")
	assert.Equal(t, true, reply["effective"])
	assert.Equal(t, "continue", reply["outcome"])

	reply = send("poke 0 0")
	assert.Contains(t, reply["error"], "unknown command")

	reply = send("r 9 9")
	assert.NotEmpty(t, reply["error"])

	reply = send("h")
	assert.NotEmpty(t, reply["help"])

	reply = send("s from-ws")
	assert.Equal(t, "from-ws", reply["saved"])
	assert.FileExists(t, filepath.Join(f.dir, "from-ws.yaml"))

	reply = send("r 1,1")
	assert.Equal(t, "explosion", reply["outcome"])
	assert.Equal(t, "lost", reply["status"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("q")))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	t.Run("unknown session", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/game/nope/connect"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
