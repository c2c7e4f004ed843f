package verify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/gamestate"
	"github.com/kuitang/tile-verify/internal/obs"
)

// TileTransition is the slide duration the page's stylesheet gives tiles.
const TileTransition = 70 * time.Millisecond

// swipeInset keeps the drag inside the container's edges.
const swipeInset = 10

// Sliding checks the tile transition style, then that a keyboard move and a
// pointer drag from the same origin each land the tile on the board edge.
func Sliding(ctx context.Context, env *Env) error {
	cfg := env.Config

	page, err := env.Session.NewPage(browser.PageOptions{HasTouch: true})
	if err != nil {
		return err
	}
	defer page.Close()
	browser.ForwardConsole(page, env.Console)

	if err := browser.Navigate(page, cfg.PageURL()); err != nil {
		return err
	}
	seeded := gamestate.SingleTile()
	if err := browser.SeedState(page, seeded); err != nil {
		return err
	}
	origin := seeded.Tiles()[0]

	// Transition style
	tile, err := browser.WaitVisible(page, gamestate.TileSelector(origin.Value), cfg.SetupTimeout)
	if err != nil {
		return errs.Wrap(errs.SetupFailed, "seeded tile did not render", err)
	}
	duration, err := browser.ComputedStyle(tile, "transitionDuration")
	if err != nil {
		return err
	}
	env.Report.Info("Transition computed style: %s", duration)
	env.Report.Check(TransitionMatches(duration, TileTransition),
		"CSS transition property looks correct.",
		"CSS transition property not applied correctly.")

	// Keyboard
	kctx := obs.WithScenario(ctx, "keyboard")
	if err := browser.PressKey(page, browser.KeyRight); err != nil {
		return err
	}
	last := seeded.Grid.Size - 1
	env.Report.Check(markerAppears(kctx, page, gamestate.PositionSelector(last, origin.Position.Y), cfg.MoveTimeout),
		"Keyboard move worked.",
		"Keyboard move failed.")

	// Reset to the same seed; the tile must be back at its origin.
	if err := browser.SeedState(page, seeded); err != nil {
		return err
	}
	if _, err := browser.WaitAttached(page, gamestate.PositionSelector(origin.Position.X, origin.Position.Y), cfg.SetupTimeout); err != nil {
		env.Report.Failure("Tile did not return to origin after reseeding.")
		return errs.Wrap(errs.SetupFailed, "reset to origin failed", err)
	}

	// Pointer drag
	sctx := obs.WithScenario(ctx, "swipe")
	box, err := browser.BoundingBox(page, gamestate.ContainerSelector)
	if err != nil {
		return err
	}
	drag := browser.VerticalSwipe(box, swipeInset, cfg.SwipeSteps, cfg.SwipeStepDelay)
	if err := browser.PerformDrag(page, drag); err != nil {
		return err
	}
	env.Report.Check(markerAppears(sctx, page, gamestate.PositionSelector(origin.Position.X, last), cfg.MoveTimeout),
		"Swipe move worked.",
		"Swipe move failed.")
	return nil
}

func markerAppears(ctx context.Context, page playwright.Page, selector string, timeout time.Duration) bool {
	if _, err := browser.WaitAttached(page, selector, timeout); err != nil {
		obs.From(ctx).Debug("position marker missing", "selector", selector, "error", err)
		return false
	}
	return true
}

// DurationEncodings returns the two CSS spellings of d: fractional seconds
// ("0.07s") and milliseconds ("70ms").
func DurationEncodings(d time.Duration) []string {
	return []string{
		strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s",
		strconv.FormatInt(d.Milliseconds(), 10) + "ms",
	}
}

// TransitionMatches reports whether a computed transition-duration list
// contains want in either encoding.
func TransitionMatches(computed string, want time.Duration) bool {
	encodings := DurationEncodings(want)
	for _, part := range strings.Split(computed, ",") {
		part = strings.TrimSpace(part)
		for _, enc := range encodings {
			if part == enc {
				return true
			}
		}
	}
	return false
}
