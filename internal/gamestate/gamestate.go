// Package gamestate models the session object the game persists in local
// storage, and names the DOM class markers the game renders for it.
//
// Verifiers build a State, write it under StorageKey, reload the page and
// then look for the markers. The game itself is never simulated here.
package gamestate

import (
	"encoding/json"
	"fmt"

	"github.com/kuitang/tile-verify/internal/errs"
)

// StorageKey is the local storage slot the game restores its session from.
const StorageKey = "gameState"

// DefaultSize is the board edge length the game ships with.
const DefaultSize = 4

// Position is a zero-indexed board coordinate: X is the column, Y the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a single occupied cell.
type Tile struct {
	Position Position `json:"position"`
	Value    int      `json:"value"`
}

// Grid is the board. Cells are indexed Cells[x][y], matching how the game
// rebuilds its grid from storage; empty slots are nil and encode as null.
type Grid struct {
	Size  int       `json:"size"`
	Cells [][]*Tile `json:"cells"`
}

// State is the persisted session object.
type State struct {
	Grid        Grid `json:"grid"`
	Score       int  `json:"score"`
	Over        bool `json:"over"`
	Won         bool `json:"won"`
	KeepPlaying bool `json:"keepPlaying"`
}

// New returns an empty in-progress session on a size×size board.
func New(size int) (*State, error) {
	if size <= 0 {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("gamestate: board size must be positive, got %d", size))
	}
	cells := make([][]*Tile, size)
	for x := range cells {
		cells[x] = make([]*Tile, size)
	}
	return &State{Grid: Grid{Size: size, Cells: cells}}, nil
}

// Place puts a tile of value at column x, row y, replacing any occupant.
func (s *State) Place(x, y, value int) error {
	if x < 0 || y < 0 || x >= s.Grid.Size || y >= s.Grid.Size {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("gamestate: cell (%d,%d) is outside a %dx%d board", x, y, s.Grid.Size, s.Grid.Size))
	}
	if !IsTileValue(value) {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("gamestate: tile value %d is not a positive power of two", value))
	}
	s.Grid.Cells[x][y] = &Tile{Position: Position{X: x, Y: y}, Value: value}
	return nil
}

// Tiles returns the occupied cells column by column.
func (s *State) Tiles() []Tile {
	var tiles []Tile
	for _, column := range s.Grid.Cells {
		for _, cell := range column {
			if cell != nil {
				tiles = append(tiles, *cell)
			}
		}
	}
	return tiles
}

// JSON returns the value written to local storage.
func (s *State) JSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("gamestate: encode: %w", err)
	}
	return data, nil
}

// IsTileValue reports whether v is a value the game can render.
func IsTileValue(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// MergePairs is two columns each holding an equal pair stacked at the top,
// so a single upward move merges both: 1024+1024 in column 0 and
// 262144+262144 in column 1.
func MergePairs() *State {
	s := mustNew(DefaultSize)
	for _, t := range []struct{ x, y, v int }{
		{0, 0, 1024}, {0, 1, 1024},
		{1, 0, 262144}, {1, 1, 262144},
	} {
		mustPlace(s, t.x, t.y, t.v)
	}
	return s
}

// SingleTile is one 2 tile in the top-left corner.
func SingleTile() *State {
	s := mustNew(DefaultSize)
	mustPlace(s, 0, 0, 2)
	return s
}

func mustNew(size int) *State {
	s, err := New(size)
	if err != nil {
		panic(err)
	}
	return s
}

func mustPlace(s *State, x, y, v int) {
	if err := s.Place(x, y, v); err != nil {
		panic(err)
	}
}
