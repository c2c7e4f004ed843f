package verify

import (
	"context"
	"time"

	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/obs"
)

type viewportProfile struct {
	name   string // file prefix
	label  string
	width  int
	height int
}

var layoutProfiles = []viewportProfile{
	{name: "desktop", label: "Desktop", width: 1280, height: 720},
	{name: "mobile", label: "Mobile", width: 375, height: 667},
}

// Responsive captures a full-page screenshot of the page at each layout
// profile for manual review. Nothing is asserted beyond a successful capture.
func Responsive(ctx context.Context, env *Env) error {
	for _, p := range layoutProfiles {
		if err := captureLayout(obs.WithScenario(ctx, p.name), env, p); err != nil {
			return err
		}
	}
	return nil
}

func captureLayout(ctx context.Context, env *Env, p viewportProfile) error {
	page, err := env.Session.NewPage(browser.PageOptions{Width: p.width, Height: p.height})
	if err != nil {
		return err
	}
	defer page.Close()

	if err := browser.Navigate(page, env.Config.PageURL()); err != nil {
		return err
	}
	time.Sleep(env.Config.LayoutSettle)

	path, err := env.Session.Screenshot(page, p.name+"_layout.png", true)
	if err != nil {
		return err
	}
	obs.From(ctx).Debug("layout captured", "width", p.width, "height", p.height, "path", path)
	env.Report.Info("%s screenshot saved.", p.label)
	return nil
}
