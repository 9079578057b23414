package handlers

import (
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
	"github.com/vancomm/sweeper/internal/session"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type NewGameDTO struct {
	Size int `schema:"size"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	dto := NewGameDTO{Size: mines.DefaultSize}
	err := decoder.Decode(&dto, src)
	return dto, err
}

type MoveDTO struct {
	Action string `schema:"action,required"`
	Row    int    `schema:"row,required"`
	Col    int    `schema:"col,required"`
}

func ParseMove(src map[string][]string) (mines.Move, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Move{}, err
	}
	action, err := mines.ParseAction(dto.Action)
	if err != nil {
		return mines.Move{}, err
	}
	return mines.Move{
		Point:  mines.Point{Row: dto.Row, Col: dto.Col},
		Action: action,
	}, nil
}

type SaveDTO struct {
	Name string `schema:"name,required"`
}

func ParseSaveDTO(src map[string][]string) (SaveDTO, error) {
	var dto SaveDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionID  string       `json:"game_session_id"`
	Size           int          `json:"size"`
	MineCount      int          `json:"mine_count"`
	MinesRemaining int          `json:"mines_remaining"`
	Status         mines.Status `json:"status"`
	Grid           [][]string   `json:"grid"`
	StartedAt      int64        `json:"started_at"`
	EndedAt        *int64       `json:"ended_at,omitempty"`
}

// NewGameSessionDTO shows the player view while the game is running and the
// full board once it is over. Callers hold the session lock.
func NewGameSessionDTO(s *session.Session, g *mines.Game, endedAt time.Time) *GameSessionDTO {
	symbol := render.PlayerSymbol
	if g.Over() {
		symbol = render.SecretSymbol
	}
	var endedAtInt *int64
	if !endedAt.IsZero() {
		e := endedAt.UnixMilli()
		endedAtInt = &e
	}
	return &GameSessionDTO{
		GameSessionID:  s.ID,
		Size:           g.Size(),
		MineCount:      mines.MineCount(g.Size()),
		MinesRemaining: g.MinesRemaining(),
		Status:         g.Status(),
		Grid:           render.Grid(g.Board(), symbol),
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAtInt,
	}
}

type MoveResultDTO struct {
	*GameSessionDTO
	Outcome   mines.Outcome `json:"outcome"`
	Effective bool          `json:"effective"`
	Message   string        `json:"message,omitempty"`
}
