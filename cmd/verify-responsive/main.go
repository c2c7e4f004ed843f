// verify-responsive captures desktop (1280x720) and mobile (375x667)
// screenshots of the page for manual layout review.
package main

import (
	"os"

	"github.com/kuitang/tile-verify/internal/verify"
)

func main() {
	os.Exit(verify.Main("verify-responsive", verify.Responsive))
}
