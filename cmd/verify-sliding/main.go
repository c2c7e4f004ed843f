// verify-sliding checks the tile slide transition and that both a keyboard
// move and a pointer drag carry a single tile to the board edge.
package main

import (
	"os"

	"github.com/kuitang/tile-verify/internal/verify"
)

func main() {
	os.Exit(verify.Main("verify-sliding", verify.Sliding))
}
