package mines

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const SnapshotVersion = 1

// Snapshot is the saved form of a game: the board size and one record per
// cell in row-major order.
type Snapshot struct {
	Version   int          `json:"version" yaml:"version"`
	Size      int          `json:"size" yaml:"size"`
	Forfeited bool         `json:"forfeited,omitempty" yaml:"forfeited,omitempty"`
	Cells     []CellRecord `json:"cells" yaml:"cells"`
}

type CellRecord struct {
	Row      int  `json:"row" yaml:"row"`
	Col      int  `json:"col" yaml:"col"`
	Mine     bool `json:"mine" yaml:"mine"`
	Flagged  bool `json:"flagged" yaml:"flagged"`
	Revealed bool `json:"revealed" yaml:"revealed"`
	Adjacent int  `json:"adjacent" yaml:"adjacent"`
}

// Snapshot captures the current state. It must not be taken while a move is
// being applied.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Size:      g.board.size,
		Forfeited: g.forfeited,
		Cells:     make([]CellRecord, 0, len(g.board.cells)),
	}
	for _, c := range g.board.cells {
		s.Cells = append(s.Cells, CellRecord{
			Row:      c.row,
			Col:      c.col,
			Mine:     c.mine,
			Flagged:  c.flagged,
			Revealed: c.revealed,
			Adjacent: c.adjacent,
		})
	}
	return s
}

func malformed(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSave, fmt.Sprintf(format, a...))
}

// Restore rebuilds a game from a snapshot, checking it against the board
// invariants. Any inconsistency is reported as [ErrMalformedSave].
func Restore(s *Snapshot) (*Game, error) {
	if s == nil {
		return nil, malformed("empty snapshot")
	}
	if s.Version != SnapshotVersion {
		return nil, malformed("unsupported version %d", s.Version)
	}
	b, err := newEmptyBoard(s.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSave, err)
	}
	if len(s.Cells) != s.Size*s.Size {
		return nil, malformed("%d cells for a board of size %d", len(s.Cells), s.Size)
	}

	seen := make([]bool, len(b.cells))
	mines := 0
	for _, rec := range s.Cells {
		if !b.InBounds(rec.Row, rec.Col) {
			return nil, malformed("cell %d,%d out of range", rec.Row, rec.Col)
		}
		i := b.index(rec.Row, rec.Col)
		if seen[i] {
			return nil, malformed("duplicate cell %d,%d", rec.Row, rec.Col)
		}
		seen[i] = true
		if rec.Flagged && rec.Revealed {
			return nil, malformed("cell %d,%d both flagged and revealed", rec.Row, rec.Col)
		}
		c := &b.cells[i]
		c.setMine(rec.Mine)
		c.flagged = rec.Flagged
		c.revealed = rec.Revealed
		if rec.Mine {
			mines++
		}
	}
	if want := MineCount(s.Size); mines != want {
		return nil, malformed("%d mines, want %d", mines, want)
	}

	b.computeAdjacent()
	for _, rec := range s.Cells {
		c := b.Cell(rec.Row, rec.Col)
		if !rec.Mine && c.adjacent != rec.Adjacent {
			return nil, malformed("cell %d,%d adjacent count %d, want %d",
				rec.Row, rec.Col, rec.Adjacent, c.adjacent)
		}
	}

	g := NewGameFromBoard(b)
	if s.Forfeited && g.status == Playing {
		g.status = Lost
		g.forfeited = true
	}
	return g, nil
}

// Encode writes the snapshot as YAML.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Snapshot) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot reads a YAML snapshot. Unknown fields are rejected.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("empty input")
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedSave, err)
	}
	return &s, nil
}

// Serialize returns the saved form of g.
func Serialize(g *Game) ([]byte, error) {
	return g.Snapshot().Bytes()
}

// Deserialize reconstructs a game from bytes produced by [Serialize].
func Deserialize(data []byte) (*Game, error) {
	s, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Restore(s)
}
