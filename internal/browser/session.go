// Package browser drives a headless Chromium through Playwright for the
// verifiers. A Session owns one driver process and one browser, records
// every evidence file it writes, and is closed once at the end of a run.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/obs"
)

// Page-level defaults. Element waits pass their own bounds.
const (
	navigationTimeoutMS = 10000
	defaultTimeoutMS    = 5000
)

// Options configures a Session.
type Options struct {
	Headless  bool
	OutputDir string // evidence directory, created on first write
}

// PageOptions configures a new page.
type PageOptions struct {
	Width    int // viewport width; zero keeps the browser default
	Height   int
	HasTouch bool
}

// Session is one launched browser plus the evidence written during the run.
type Session struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	outputDir string
	log       *slog.Logger

	mu       sync.Mutex
	evidence []string
}

// Launch starts the Playwright driver and a Chromium instance.
// A missing driver or browser is reported as errs.Unavailable.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	log := obs.Pkg("browser").With("run_id", obs.RunIDFromContext(ctx))

	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "playwright driver not available", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Unavailable, "could not launch chromium", err)
	}
	log.Debug("browser launched", "headless", opts.Headless, "version", b.Version())

	return &Session{
		pw:        pw,
		browser:   b,
		outputDir: opts.OutputDir,
		log:       log,
	}, nil
}

// Close shuts down the browser and the driver.
func (s *Session) Close() error {
	var firstErr error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			firstErr = fmt.Errorf("close browser: %w", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop playwright: %w", err)
		}
	}
	return firstErr
}

// NewPage opens a page in a fresh context with the given viewport and touch support.
func (s *Session) NewPage(opts PageOptions) (playwright.Page, error) {
	pageOpts := playwright.BrowserNewPageOptions{}
	if opts.Width > 0 && opts.Height > 0 {
		pageOpts.Viewport = &playwright.Size{Width: opts.Width, Height: opts.Height}
	}
	if opts.HasTouch {
		pageOpts.HasTouch = playwright.Bool(true)
	}

	page, err := s.browser.NewPage(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	page.SetDefaultTimeout(defaultTimeoutMS)
	page.SetDefaultNavigationTimeout(navigationTimeoutMS)
	return page, nil
}

// Evidence returns the evidence files written so far, in write order.
func (s *Session) Evidence() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.evidence...)
}

// Screenshot captures page to name inside the evidence directory.
func (s *Session) Screenshot(page playwright.Page, name string, fullPage bool) (string, error) {
	path, err := s.evidencePath(name)
	if err != nil {
		return "", err
	}
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage),
	}); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	s.record(path)
	return path, nil
}

// DumpHTML writes the page's current document to name inside the evidence directory.
func (s *Session) DumpHTML(page playwright.Page, name string) (string, error) {
	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	path, err := s.evidencePath(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	s.record(path)
	return path, nil
}

func (s *Session) evidencePath(name string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create evidence directory %s: %w", s.outputDir, err)
	}
	return filepath.Join(s.outputDir, filepath.Base(name)), nil
}

func (s *Session) record(path string) {
	s.mu.Lock()
	s.evidence = append(s.evidence, path)
	s.mu.Unlock()
	s.log.Debug("evidence written", "path", path)
}
