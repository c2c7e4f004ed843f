package verify

import (
	"context"
	"time"

	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/gamestate"
	"github.com/kuitang/tile-verify/internal/obs"
)

// Animations seeds two mergeable pairs, moves up, and checks each merged tile
// carries its value-scoped merge marker.
func Animations(ctx context.Context, env *Env) error {
	ctx = obs.WithScenario(ctx, "merge")
	log := obs.From(ctx)
	cfg := env.Config

	page, err := env.Session.NewPage(browser.PageOptions{})
	if err != nil {
		return err
	}
	defer page.Close()

	// Storage is per-origin, so the page must be open before seeding.
	if err := browser.Navigate(page, cfg.PageURL()); err != nil {
		return err
	}
	seeded := gamestate.MergePairs()
	if err := browser.SeedState(page, seeded); err != nil {
		return err
	}

	values := distinctValues(seeded)
	for _, v := range values {
		if _, err := browser.WaitVisible(page, gamestate.TileSelector(v), cfg.SetupTimeout); err != nil {
			env.Report.Info("Failed to find initial tiles. Maybe local storage didn't persist or the page ignored it.")
			if _, shotErr := env.Session.Screenshot(page, "failed_load.png", false); shotErr != nil {
				log.Warn("diagnostic screenshot failed", "error", shotErr)
			}
			return errs.Wrap(errs.SetupFailed, "initial tiles did not render", err)
		}
	}
	env.Report.Info("Initial state loaded.")
	if _, err := env.Session.Screenshot(page, "before_merge.png", false); err != nil {
		return err
	}

	if err := browser.PressKey(page, browser.KeyUp); err != nil {
		return err
	}
	time.Sleep(cfg.MergeSettle)

	dumped := false
	for _, v := range values {
		merged := v * 2
		found, err := browser.Exists(page, gamestate.MergedSelector(merged))
		if err != nil {
			return err
		}
		if found {
			env.Report.Success("Found merged %d tile with animation class.", merged)
			continue
		}
		env.Report.Failure("Did not find merged %d tile.", merged)
		if !dumped {
			dumped = true
			if _, err := env.Session.DumpHTML(page, "dump.html"); err != nil {
				log.Warn("html dump failed", "error", err)
			}
		}
	}

	if _, err := env.Session.Screenshot(page, "during_animation.png", false); err != nil {
		return err
	}
	time.Sleep(cfg.AnimationSettle)
	if _, err := env.Session.Screenshot(page, "after_merge.png", false); err != nil {
		return err
	}
	return nil
}

// distinctValues lists each tile value of s once, in first-seen order.
func distinctValues(s *gamestate.State) []int {
	seen := make(map[int]bool)
	var values []int
	for _, t := range s.Tiles() {
		if seen[t.Value] {
			continue
		}
		seen[t.Value] = true
		values = append(values, t.Value)
	}
	return values
}
