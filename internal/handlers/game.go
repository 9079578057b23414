package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

type GameHandler struct {
	logger   logrus.FieldLogger
	sessions *session.Registry
	store    storage.Store
	ws       *config.WebSocket
}

func NewGameHandler(
	logger logrus.FieldLogger,
	sessions *session.Registry,
	store storage.Store,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		store:    store,
		ws:       ws,
	}
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := g.sessions.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	return s, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if !mines.ValidSize(dto.Size) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %d", mines.ErrInvalidSize, dto.Size))
		return
	}

	s, err := g.sessions.Create(dto.Size)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to create a new game")
		return
	}
	g.logger.WithFields(logrus.Fields{
		"id":   s.ID,
		"size": dto.Size,
	}).Info("new game")

	g.respond(w, s)
}

func (g GameHandler) respond(w http.ResponseWriter, s *session.Session) {
	var dto *GameSessionDTO
	s.Update(nil, func(game *mines.Game, endedAt time.Time) {
		dto = NewGameSessionDTO(s, game, endedAt)
	})
	sendJSONOrLog(w, g.logger, dto)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	g.respond(w, s)
}

// applyMove validates and applies m. Illegal transitions are not errors at
// this level; they come back with Effective unset.
func applyMove(s *session.Session, m mines.Move) (*MoveResultDTO, error) {
	res := &MoveResultDTO{Effective: true}
	err := s.Update(func(game *mines.Game) error {
		if err := game.Validate(m); err != nil {
			return err
		}
		outcome, err := game.Apply(m)
		res.Outcome = outcome
		if errors.Is(err, mines.ErrIllegalTransition) {
			res.Effective = false
			res.Message = err.Error()
			return nil
		}
		return err
	}, func(game *mines.Game, endedAt time.Time) {
		res.GameSessionDTO = NewGameSessionDTO(s, game, endedAt)
	})
	return res, err
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	move, err := ParseMove(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	s, ok := g.session(w, r)
	if !ok {
		return
	}

	res, err := applyMove(s, move)
	switch {
	case errors.Is(err, mines.ErrInvalidCoordinate):
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	case errors.Is(err, mines.ErrGameOver):
		sendErrorOrLog(w, g.logger, http.StatusConflict, err)
		return
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to apply move")
		return
	}

	g.logger.WithFields(logrus.Fields{
		"id":        s.ID,
		"move":      move.String(),
		"outcome":   res.Outcome.String(),
		"effective": res.Effective,
	}).Debug("move")
	sendJSONOrLog(w, g.logger, res)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	s.Do(func(game *mines.Game) error {
		game.Forfeit()
		return nil
	})
	g.respond(w, s)
}

func (g GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseSaveDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	s, ok := g.session(w, r)
	if !ok {
		return
	}

	var snap *mines.Snapshot
	s.Do(func(game *mines.Game) error {
		snap = game.Snapshot()
		return nil
	})
	err = g.store.Save(r.Context(), dto.Name, snap)
	if errors.Is(err, storage.ErrBadName) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to save game")
		return
	}

	g.logger.WithFields(logrus.Fields{"id": s.ID, "name": dto.Name}).Info("game saved")
	sendJSONOrLog(w, g.logger, map[string]string{"name": dto.Name})
}

func (g GameHandler) Load(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseSaveDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	game, err := storage.LoadGame(r.Context(), g.store, dto.Name)
	switch {
	case errors.Is(err, storage.ErrBadName):
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	case errors.Is(err, storage.ErrNotFound):
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return
	case errors.Is(err, mines.ErrMalformedSave):
		g.logger.WithError(err).WithField("name", dto.Name).Warn("malformed save")
		sendErrorOrLog(w, g.logger, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to load game")
		return
	}

	s := g.sessions.Add(game)
	g.logger.WithFields(logrus.Fields{"id": s.ID, "name": dto.Name}).Info("game loaded")
	g.respond(w, s)
}

func (g GameHandler) ListSaves(w http.ResponseWriter, r *http.Request) {
	names, err := g.store.List(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to list saves")
		return
	}
	sendJSONOrLog(w, g.logger, map[string][]string{"saves": names})
}
