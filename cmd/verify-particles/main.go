// verify-particles checks the particle canvas and the page's effect manager
// exist, then fires one explosion. Any failure exits non-zero.
package main

import (
	"os"

	"github.com/kuitang/tile-verify/internal/verify"
)

func main() {
	os.Exit(verify.Main("verify-particles", verify.Particles))
}
