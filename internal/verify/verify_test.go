package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/config"
	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/obs"
	"github.com/kuitang/tile-verify/internal/report"
)

// testEnv launches a browser against a fixture page under testdata/.
// Browser tests skip in short mode or when Playwright is not installed.
type testEnv struct {
	*Env
	out     *bytes.Buffer
	console *syncBuffer
}

// syncBuffer collects console lines written from Playwright's event goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupTestEnv(t *testing.T, fixture string) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	page, err := filepath.Abs(filepath.Join("testdata", fixture))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.PagePath = page
	cfg.OutputDir = filepath.Join(t.TempDir(), "verification")
	cfg.AnimationSettle = 50 * time.Millisecond
	cfg.LayoutSettle = 50 * time.Millisecond
	require.NoError(t, cfg.Validate())

	session, err := browser.Launch(context.Background(), browser.Options{
		Headless:  true,
		OutputDir: cfg.OutputDir,
	})
	if errs.CodeOf(err) == errs.Unavailable {
		t.Skip("Playwright not available:", err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	out := &bytes.Buffer{}
	console := &syncBuffer{}
	return &testEnv{
		Env: &Env{
			Config:  &cfg,
			Session: session,
			Report:  report.New(out),
			Console: console,
		},
		out:     out,
		console: console,
	}
}

func testContext(verifier string) context.Context {
	return obs.StartRun(context.Background(), verifier)
}

func requireEvidence(t *testing.T, env *testEnv, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(env.Config.OutputDir, name)
		info, err := os.Stat(path)
		require.NoError(t, err, "evidence %s missing", name)
		require.Positive(t, info.Size(), "evidence %s is empty", name)
	}
}

func countEvidence(env *testEnv, name string) int {
	n := 0
	for _, path := range env.Session.Evidence() {
		if filepath.Base(path) == name {
			n++
		}
	}
	return n
}

func TestAnimations_MergedTilesCarryMarkers(t *testing.T) {
	env := setupTestEnv(t, "index.html")

	err := Animations(testContext("animations"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "Initial state loaded.")
	require.Contains(t, out, "SUCCESS: Found merged 2048 tile with animation class.")
	require.Contains(t, out, "SUCCESS: Found merged 524288 tile with animation class.")
	require.False(t, env.Report.Failed(), "unexpected failures: %v", env.Report.Failures())
	requireEvidence(t, env, "before_merge.png", "during_animation.png", "after_merge.png")
}

func TestAnimations_InitialTilesMissingIsFatal(t *testing.T) {
	env := setupTestEnv(t, "bare.html")
	env.Config.SetupTimeout = 300 * time.Millisecond

	err := Animations(testContext("animations"), env.Env)
	require.Error(t, err)
	require.Equal(t, errs.SetupFailed, errs.CodeOf(err))
	require.Equal(t, 2, errs.ExitCode(err))
	require.Contains(t, env.out.String(), "Failed to find initial tiles.")
	requireEvidence(t, env, "failed_load.png")
}

func TestAnimations_UnmarkedMergesReportAndContinue(t *testing.T) {
	env := setupTestEnv(t, "unmarked_merges.html")

	err := Animations(testContext("animations"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "FAILURE: Did not find merged 2048 tile.")
	require.Contains(t, out, "FAILURE: Did not find merged 524288 tile.")
	require.NotContains(t, out, "SUCCESS:")
	require.Equal(t, []string{"Did not find merged 2048 tile.", "Did not find merged 524288 tile."}, env.Report.Failures())
	requireEvidence(t, env, "dump.html", "during_animation.png", "after_merge.png")
	require.Equal(t, 1, countEvidence(env, "dump.html"))
}

func TestAnimations_PartialMergeFailure(t *testing.T) {
	env := setupTestEnv(t, "partial_merges.html")

	err := Animations(testContext("animations"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "SUCCESS: Found merged 2048 tile with animation class.")
	require.Contains(t, out, "FAILURE: Did not find merged 524288 tile.")
	require.Equal(t, 1, env.Report.Passed())
	require.Len(t, env.Report.Failures(), 1)
	requireEvidence(t, env, "dump.html", "after_merge.png")
	require.Equal(t, 1, countEvidence(env, "dump.html"))
}

func TestParticles_ExplodeCompletes(t *testing.T) {
	env := setupTestEnv(t, "index.html")

	err := Particles(testContext("particles"), env.Env)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	require.Equal(t, []string{
		"SUCCESS: Canvas element found in .game-container.",
		"SUCCESS: window.effectManager is initialized.",
		"SUCCESS: effectManager.explode() called without error.",
	}, lines)
	require.Empty(t, env.Session.Evidence())
}

func TestParticles_MissingManagerFails(t *testing.T) {
	env := setupTestEnv(t, "bare.html")

	err := Particles(testContext("particles"), env.Env)
	require.Equal(t, errs.AssertionFailed, errs.CodeOf(err))
	require.Equal(t, 1, errs.ExitCode(err))
	require.Contains(t, env.out.String(), "SUCCESS: Canvas element found")
	require.Contains(t, env.out.String(), "FAILURE: window.effectManager is missing.")
}

func TestResponsive_CapturesBothProfiles(t *testing.T) {
	env := setupTestEnv(t, "index.html")

	err := Responsive(testContext("responsive"), env.Env)
	require.NoError(t, err)
	require.Equal(t, "Desktop screenshot saved.\nMobile screenshot saved.\n", env.out.String())
	requireEvidence(t, env, "desktop_layout.png", "mobile_layout.png")
	require.Len(t, env.Session.Evidence(), 2)
}

func TestSliding_KeyboardAndSwipeReachEdges(t *testing.T) {
	env := setupTestEnv(t, "index.html")

	err := Sliding(testContext("sliding"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "Transition computed style: 0.07s")
	require.Contains(t, out, "SUCCESS: CSS transition property looks correct.")
	require.Contains(t, out, "SUCCESS: Keyboard move worked.")
	require.Contains(t, out, "SUCCESS: Swipe move worked.")
	require.False(t, env.Report.Failed(), "unexpected failures: %v", env.Report.Failures())
}

func TestSliding_WrongTransitionReportsAndContinues(t *testing.T) {
	env := setupTestEnv(t, "slow_slide.html")

	err := Sliding(testContext("sliding"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "Transition computed style: 0.2s")
	require.Contains(t, out, "FAILURE: CSS transition property not applied correctly.")
	require.Contains(t, out, "SUCCESS: Keyboard move worked.")
	require.Contains(t, out, "SUCCESS: Swipe move worked.")
	require.Len(t, env.Report.Failures(), 1)
}

func TestSliding_IgnoredInputReportsBothMoves(t *testing.T) {
	env := setupTestEnv(t, "inert.html")
	env.Config.MoveTimeout = 300 * time.Millisecond

	err := Sliding(testContext("sliding"), env.Env)
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "SUCCESS: CSS transition property looks correct.")
	require.Contains(t, out, "FAILURE: Keyboard move failed.")
	require.Contains(t, out, "FAILURE: Swipe move failed.")
	require.Len(t, env.Report.Failures(), 2)
}

func TestSliding_TileNotBackAtOriginIsFatal(t *testing.T) {
	env := setupTestEnv(t, "sticky.html")
	env.Config.SetupTimeout = 300 * time.Millisecond

	err := Sliding(testContext("sliding"), env.Env)
	require.Error(t, err)
	require.Equal(t, errs.SetupFailed, errs.CodeOf(err))
	require.Equal(t, 2, errs.ExitCode(err))

	out := env.out.String()
	require.Contains(t, out, "SUCCESS: Keyboard move worked.")
	require.Contains(t, out, "FAILURE: Tile did not return to origin after reseeding.")
	require.NotContains(t, out, "Swipe move")
}

func TestSliding_ForwardsConsole(t *testing.T) {
	env := setupTestEnv(t, "index.html")
	page, err := env.Session.NewPage(browser.PageOptions{})
	require.NoError(t, err)
	defer page.Close()
	browser.ForwardConsole(page, env.console)

	require.NoError(t, browser.Navigate(page, env.Config.PageURL()))
	_, err = page.Evaluate(`() => console.log('hello from page')`)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(env.console.String(), "CONSOLE: hello from page")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRun_ReturnsProcedureError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	page, err := filepath.Abs(filepath.Join("testdata", "index.html"))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.PagePath = page
	cfg.OutputDir = t.TempDir()

	want := errs.New(errs.AssertionFailed, "boom")
	var ran bool
	err = Run(testContext("run"), &cfg, report.New(&bytes.Buffer{}), &bytes.Buffer{}, func(ctx context.Context, env *Env) error {
		ran = true
		require.NotNil(t, env.Session)
		return want
	})
	if errs.CodeOf(err) == errs.Unavailable {
		t.Skip("Playwright not available:", err)
	}
	require.True(t, ran)
	require.ErrorIs(t, err, want)
}

func TestMain_AbortLogCarriesCodedMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	page, err := filepath.Abs(filepath.Join("testdata", "index.html"))
	require.NoError(t, err)
	t.Setenv("VERIFY_PAGE", page)
	t.Setenv("VERIFY_OUTPUT_DIR", t.TempDir())
	t.Setenv("VERIFY_ARTIFACT_BUCKET", "")

	logs := &syncBuffer{}
	restore := obs.SetOutputForTests(logs)
	defer restore()

	code := Main("verify-test", func(ctx context.Context, env *Env) error {
		return errs.Wrap(errs.AssertionFailed, "marker missing", errors.New("locator timeout"))
	})
	if code == 3 {
		t.Skip("Playwright not available")
	}
	require.Equal(t, 1, code)
	require.Contains(t, logs.String(), `"msg":"verification aborted"`)
	require.Contains(t, logs.String(), `"message":"marker missing"`)
	require.Contains(t, logs.String(), `"code":"assertion_failed"`)
}

func TestMain_InvalidConfigExitsOneWithoutBrowser(t *testing.T) {
	t.Setenv("VERIFY_PAGE", filepath.Join(t.TempDir(), "missing.html"))
	t.Setenv("VERIFY_ARTIFACT_BUCKET", "")

	logs := &syncBuffer{}
	restore := obs.SetOutputForTests(logs)
	defer restore()

	ran := false
	code := Main("verify-test", func(ctx context.Context, env *Env) error {
		ran = true
		return nil
	})
	require.Equal(t, 1, code)
	require.False(t, ran)
	require.Contains(t, logs.String(), `"msg":"configuration invalid"`)
}
