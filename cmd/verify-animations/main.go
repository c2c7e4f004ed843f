// verify-animations seeds two mergeable tile pairs, moves up, and checks the
// merged tiles carry their value-scoped merge marker. Evidence screenshots are
// written before, during and after the merge.
package main

import (
	"os"

	"github.com/kuitang/tile-verify/internal/verify"
)

func main() {
	os.Exit(verify.Main("verify-animations", verify.Animations))
}
