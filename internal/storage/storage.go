// Package storage keeps saved games under player-chosen names.
package storage

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var Log = logrus.New()

var (
	ErrBadName  = errors.New("bad save name")
	ErrNotFound = errors.New("save not found")
)

type Store interface {
	// Save inserts a new save or replaces an existing one.
	Save(ctx context.Context, name string, s *mines.Snapshot) error
	// Load returns [ErrNotFound] for unknown names and an error wrapping
	// [mines.ErrMalformedSave] for unreadable data.
	Load(ctx context.Context, name string) (*mines.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	// Delete does not fail for missing names.
	Delete(ctx context.Context, name string) error
}

const maxNameLen = 64

func isNameChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '_'
}

// ValidName reports whether name is usable as a save name in every store:
// 1 to 64 ASCII letters, digits, dashes and underscores.
func ValidName(name string) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	for _, c := range name {
		if !isNameChar(c) {
			return false
		}
	}
	return true
}

// LoadGame loads and restores a saved game.
func LoadGame(ctx context.Context, s Store, name string) (*mines.Game, error) {
	snap, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return mines.Restore(snap)
}

// SaveGame snapshots g and saves it under name.
func SaveGame(ctx context.Context, s Store, name string, g *mines.Game) error {
	return s.Save(ctx, name, g.Snapshot())
}
