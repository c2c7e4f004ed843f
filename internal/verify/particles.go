package verify

import (
	"context"

	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/gamestate"
	"github.com/kuitang/tile-verify/internal/obs"
)

// sampleExplosionValue is the tile value passed to the explosion call.
const sampleExplosionValue = 1024

// explodeScript attaches a throwaway 100x100 target to the container, fires
// the effect manager at it and always detaches it again.
const explodeScript = `({ container, global, method, value }) => {
	const host = document.querySelector(container);
	const target = document.createElement('div');
	Object.assign(target.style, {
		width: '100px',
		height: '100px',
		position: 'absolute',
		top: '10px',
		left: '10px',
	});
	host.appendChild(target);
	try {
		window[global][method](target, value);
	} finally {
		host.removeChild(target);
	}
}`

// Particles checks the effect canvas and manager exist on a fresh load and
// that an explosion can be triggered without the page throwing. Any failure
// ends the run.
func Particles(ctx context.Context, env *Env) error {
	ctx = obs.WithScenario(ctx, "explode")
	log := obs.From(ctx)

	page, err := env.Session.NewPage(browser.PageOptions{})
	if err != nil {
		return err
	}
	defer page.Close()

	if err := browser.Navigate(page, env.Config.PageURL()); err != nil {
		return err
	}

	hasCanvas, err := browser.Exists(page, gamestate.CanvasSelector)
	if err != nil {
		return err
	}
	if !hasCanvas {
		env.Report.Failure("Canvas element not found.")
		return errs.New(errs.AssertionFailed, "particle canvas missing")
	}
	env.Report.Success("Canvas element found in %s.", gamestate.ContainerSelector)

	hasManager, err := browser.GlobalDefined(page, gamestate.EffectManagerGlobal)
	if err != nil {
		return err
	}
	if !hasManager {
		env.Report.Failure("window.%s is missing.", gamestate.EffectManagerGlobal)
		return errs.New(errs.AssertionFailed, "effect manager missing")
	}
	env.Report.Success("window.%s is initialized.", gamestate.EffectManagerGlobal)

	call := gamestate.EffectManagerGlobal + "." + gamestate.ExplodeMethod + "()"
	if _, err := page.Evaluate(explodeScript, map[string]any{
		"container": gamestate.ContainerSelector,
		"global":    gamestate.EffectManagerGlobal,
		"method":    gamestate.ExplodeMethod,
		"value":     sampleExplosionValue,
	}); err != nil {
		log.Debug("explosion call threw", "error", err)
		env.Report.Failure("Error calling %s: %v", call, err)
		return errs.Wrap(errs.AssertionFailed, "explosion call failed", err)
	}
	env.Report.Success("%s called without error.", call)
	return nil
}
