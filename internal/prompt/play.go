package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
	"github.com/vancomm/sweeper/internal/storage"
)

var Log = logrus.New()

type Player struct {
	in    *bufio.Scanner
	out   io.Writer
	store storage.Store
	// Debug prints the solved board before the first move.
	Debug bool
}

func NewPlayer(in io.Reader, out io.Writer, store storage.Store) *Player {
	return &Player{
		in:    bufio.NewScanner(in),
		out:   out,
		store: store,
	}
}

func (p *Player) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// LoadOrNew restores the named save, or starts a new game of size n when
// name is empty or the save cannot be used.
func (p *Player) LoadOrNew(ctx context.Context, name string, n int, r *rand.Rand) (*mines.Game, error) {
	if name != "" {
		g, err := storage.LoadGame(ctx, p.store, name)
		switch {
		case err == nil:
			p.printf("Loaded %q.\n", name)
			Log.WithField("name", name).Info("game loaded")
			return g, nil
		case errors.Is(err, storage.ErrNotFound),
			errors.Is(err, storage.ErrBadName),
			errors.Is(err, mines.ErrMalformedSave):
			p.printf("Could not load %q: %s\nStarting a new game.\n", name, err)
			Log.WithField("name", name).WithError(err).Warn("falling back to new game")
		default:
			return nil, err
		}
	}
	g, err := mines.NewGame(n, r)
	if err != nil {
		return nil, err
	}
	Log.WithField("size", n).Info("new game")
	return g, nil
}

func (p *Player) board(g *mines.Game) {
	render.Player(p.out, g.Board())
	p.printf("mines left: %d\n", g.MinesRemaining())
}

func (p *Player) readCommand(size int) (Command, error) {
	for {
		p.printf("> ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return Command{}, err
			}
			return Command{}, io.EOF
		}
		cmd, err := Parse(p.in.Text(), size)
		switch {
		case err == nil:
			return cmd, nil
		case errors.Is(err, ErrEmpty):
		case errors.Is(err, ErrUnknownCommand):
			p.printf("%s (type 'h' for help)\n", err)
		default:
			p.printf("%s\n", err)
		}
	}
}

// Play runs the game until it ends, the player quits or input runs out. It
// returns the last outcome; quitting leaves it at [mines.Continue].
func (p *Player) Play(ctx context.Context, g *mines.Game) (mines.Outcome, error) {
	if p.Debug {
		p.printf("\nInitial board:\n")
		render.Secret(p.out, g.Board())
	}
	p.printf("\n")
	p.board(g)

	if g.Over() {
		p.printf("This game is already over (%s).\n", g.Status())
		return mines.Continue, mines.ErrGameOver
	}

	for {
		if err := ctx.Err(); err != nil {
			return mines.Continue, err
		}
		cmd, err := p.readCommand(g.Size())
		if errors.Is(err, io.EOF) {
			p.printf("\n")
			return mines.Continue, nil
		} else if err != nil {
			return mines.Continue, err
		}

		switch cmd.Kind {
		case KindHelp:
			p.printf("%s\n", Help)
		case KindQuit:
			Log.Info("player quit")
			return mines.Continue, nil
		case KindSave:
			if err := storage.SaveGame(ctx, p.store, cmd.Name, g); err != nil {
				p.printf("Could not save: %s\n", err)
				Log.WithError(err).Error("save failed")
				continue
			}
			p.printf("Saved as %q.\n", cmd.Name)
			Log.WithField("name", cmd.Name).Info("game saved")
		case KindMove:
			if err := g.Validate(cmd.Move); err != nil {
				p.printf("%s\n", err)
				continue
			}
			outcome, err := g.Apply(cmd.Move)
			if errors.Is(err, mines.ErrIllegalTransition) {
				p.printf("%s\n", err)
				continue
			} else if err != nil {
				return outcome, err
			}
			Log.WithFields(logrus.Fields{
				"move":    cmd.Move.String(),
				"outcome": outcome.String(),
			}).Debug("move applied")

			switch outcome {
			case mines.Explosion:
				p.printf("\nKABOOOOOOOOOOOOOM!!!\n\n")
				p.board(g)
				p.printf("\n")
				render.Secret(p.out, g.Board())
				return outcome, nil
			case mines.Victory:
				p.board(g)
				p.printf("Winner.\n")
				return outcome, nil
			default:
				p.board(g)
			}
		}
	}
}
