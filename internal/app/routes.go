package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/sweeper/internal/handlers"
)

// createRand seeds from seed when it is set, and randomly otherwise.
func createRand(seed uint64) *rand.Rand {
	if seed != 0 {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.sessions, a.store, a.ws,
	)

	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("POST /v1/game/load", game.Load)
	a.router.HandleFunc("GET /v1/game/{id}", game.Fetch)
	a.router.HandleFunc("POST /v1/game/{id}/move", game.MakeAMove)
	a.router.HandleFunc("POST /v1/game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("POST /v1/game/{id}/save", game.Save)
	a.router.HandleFunc("/v1/game/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET /v1/saves", game.ListSaves)
}
