package gamestate

import (
	"strconv"
	"strings"
)

// Class-name contract the game's actuator renders. Verifiers only match
// through these helpers so a naming change on the page is a one-line edit here.
const (
	tileClassPrefix     = "tile-"
	mergedClassPrefix   = "tile-merged-"
	positionClassPrefix = "tile-position-"

	// ContainerSelector is the game surface that receives pointer input.
	ContainerSelector = ".game-container"
	// CanvasSelector is the particle rendering surface inside the container.
	CanvasSelector = ContainerSelector + " canvas"

	// EffectManagerGlobal is the window property holding the effect manager.
	EffectManagerGlobal = "effectManager"
	// ExplodeMethod is the effect manager's explosion entry point: explode(element, value).
	ExplodeMethod = "explode"
)

// TileClass is the value class every tile of value v carries.
func TileClass(v int) string {
	return tileClassPrefix + strconv.Itoa(v)
}

// MergedClass is the value-scoped merge marker applied to a freshly merged tile.
func MergedClass(v int) string {
	return mergedClassPrefix + strconv.Itoa(v)
}

// PositionClass is the marker for column x, row y. The class is 1-indexed.
func PositionClass(x, y int) string {
	return positionClassPrefix + strconv.Itoa(x+1) + "-" + strconv.Itoa(y+1)
}

// Selector joins classes into a compound CSS selector matching all of them.
func Selector(classes ...string) string {
	var b strings.Builder
	for _, c := range classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	return b.String()
}

// TileSelector matches any tile of value v.
func TileSelector(v int) string {
	return Selector(TileClass(v))
}

// MergedSelector matches a tile of value v that carries its merge marker.
func MergedSelector(v int) string {
	return Selector(TileClass(v), MergedClass(v))
}

// PositionSelector matches the tile rendered at column x, row y.
func PositionSelector(x, y int) string {
	return Selector(PositionClass(x, y))
}
