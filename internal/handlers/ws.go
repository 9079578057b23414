package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/prompt"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

var errQuit = errors.New("quit")

type wsReply struct {
	*MoveResultDTO
	Error string `json:"error,omitempty"`
	Help  string `json:"help,omitempty"`
	Saved string `json:"saved,omitempty"`
}

// execute runs one line of player input. Only a failing store or quit ends the
// connection; bad input is reported back to the client.
func (g GameHandler) execute(ctx context.Context, s *session.Session, size int, line string) (*wsReply, error) {
	cmd, err := prompt.Parse(line, size)
	if errors.Is(err, prompt.ErrEmpty) {
		return nil, nil
	} else if err != nil {
		return &wsReply{Error: err.Error()}, nil
	}

	switch cmd.Kind {
	case prompt.KindQuit:
		return nil, errQuit
	case prompt.KindHelp:
		return &wsReply{Help: prompt.Help}, nil
	case prompt.KindSave:
		var snap *mines.Snapshot
		s.Do(func(game *mines.Game) error {
			snap = game.Snapshot()
			return nil
		})
		if err := g.store.Save(ctx, cmd.Name, snap); errors.Is(err, storage.ErrBadName) {
			return &wsReply{Error: err.Error()}, nil
		} else if err != nil {
			return nil, fmt.Errorf("unable to save game: %w", err)
		}
		return &wsReply{Saved: cmd.Name}, nil
	}

	res, err := applyMove(s, cmd.Move)
	if errors.Is(err, mines.ErrInvalidCoordinate) || errors.Is(err, mines.ErrGameOver) {
		return &wsReply{Error: err.Error()}, nil
	} else if err != nil {
		return nil, err
	}
	return &wsReply{MoveResultDTO: res}, nil
}

func (g GameHandler) wsRunGameLoop(ctx context.Context, conn *websocket.Conn, s *session.Session) error {
	var size int
	s.Do(func(game *mines.Game) error {
		size = game.Size()
		return nil
	})

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		message := strings.TrimSpace(string(buf))
		for line := range prompt.Lines(message) {
			reply, err := g.execute(ctx, s, size, line)
			if err != nil {
				return err
			}
			if reply == nil {
				continue
			}
			if err := conn.WriteJSON(reply); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
		}
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	logger := g.logger.WithField("id", s.ID)
	logger.Debug("established WS connection")

	err = g.wsRunGameLoop(r.Context(), conn, s)
	switch {
	case errors.Is(err, errQuit):
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	case err == nil,
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
	default:
		logger.WithError(err).Warn("error in ws loop")
	}
	logger.WithFields(logrus.Fields{"remote": r.RemoteAddr}).Debug("closed WS connection")
}
