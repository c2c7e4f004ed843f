package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/tile-verify/internal/gamestate"
	"github.com/kuitang/tile-verify/internal/logutil"
)

const seedStateScript = `({ key, value }) => window.localStorage.setItem(key, value)`

// Navigate opens url and waits for the load event.
func Navigate(page playwright.Page, url string) error {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// SeedState writes state into the page's persisted storage slot and reloads
// so the game restores from it. The page must already be on the game's origin.
func SeedState(page playwright.Page, state *gamestate.State) error {
	data, err := state.JSON()
	if err != nil {
		return err
	}
	if _, err := page.Evaluate(seedStateScript, map[string]any{
		"key":   gamestate.StorageKey,
		"value": string(data),
	}); err != nil {
		return fmt.Errorf("write %s to local storage: %w", gamestate.StorageKey, err)
	}
	if _, err := page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("reload after seeding: %w", err)
	}
	return nil
}

// WaitVisible waits until the first element matching selector is visible.
func WaitVisible(page playwright.Page, selector string, timeout time.Duration) (playwright.Locator, error) {
	return waitFor(page, selector, playwright.WaitForSelectorStateVisible, timeout)
}

// WaitAttached waits until an element matching selector is in the DOM,
// visible or not.
func WaitAttached(page playwright.Page, selector string, timeout time.Duration) (playwright.Locator, error) {
	return waitFor(page, selector, playwright.WaitForSelectorStateAttached, timeout)
}

func waitFor(page playwright.Page, selector string, state *playwright.WaitForSelectorState, timeout time.Duration) (playwright.Locator, error) {
	first := page.Locator(selector).First()
	err := first.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return first, nil
}

// Exists reports whether any element currently matches selector.
func Exists(page playwright.Page, selector string) (bool, error) {
	count, err := page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("query %s: %w", selector, err)
	}
	return count > 0, nil
}

// ComputedStyle returns a computed CSS property of the element behind locator.
func ComputedStyle(locator playwright.Locator, property string) (string, error) {
	v, err := locator.Evaluate(`(el, prop) => getComputedStyle(el)[prop]`, property)
	if err != nil {
		return "", fmt.Errorf("computed style %s: %w", property, err)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("computed style %s: unexpected %T", property, v)
	}
	return s, nil
}

// GlobalDefined reports whether window[name] is truthy.
func GlobalDefined(page playwright.Page, name string) (bool, error) {
	v, err := page.Evaluate(`(name) => !!window[name]`, name)
	if err != nil {
		return false, fmt.Errorf("check window.%s: %w", name, err)
	}
	ok, _ := v.(bool)
	return ok, nil
}

// ForwardConsole echoes the page's console messages and uncaught errors to w.
func ForwardConsole(page playwright.Page, w io.Writer) {
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		fmt.Fprintln(w, logutil.ConsoleLine(msg.Text()))
	})
	page.OnPageError(func(err error) {
		fmt.Fprintln(w, logutil.PageErrorLine(err.Error()))
	})
}
