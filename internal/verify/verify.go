// Package verify holds the four browser verification procedures. Each one is
// a straight sequence of steps against a single Session; checks report
// through the Reporter and keep going, while setup failures end the run.
package verify

import (
	"context"
	"io"
	"os"

	"github.com/kuitang/tile-verify/internal/artifacts"
	"github.com/kuitang/tile-verify/internal/browser"
	"github.com/kuitang/tile-verify/internal/config"
	"github.com/kuitang/tile-verify/internal/errs"
	"github.com/kuitang/tile-verify/internal/obs"
	"github.com/kuitang/tile-verify/internal/report"
)

// Env is what a procedure runs against.
type Env struct {
	Config  *config.Config
	Session *browser.Session
	Report  *report.Reporter
	// Console receives forwarded browser console output.
	Console io.Writer
}

// Procedure is one verification run.
type Procedure func(ctx context.Context, env *Env) error

// Main loads configuration, launches the browser, runs proc and returns the
// process exit status. It is the whole body of each cmd/verify-* binary.
func Main(name string, proc Procedure) int {
	obs.Init()
	ctx := obs.StartRun(context.Background(), name)
	log := obs.From(ctx)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("configuration invalid", "error", err)
		return errs.ExitCode(errs.Wrap(errs.InvalidArgument, "load configuration", err))
	}
	cfg.PrintStartupSummary(name)

	err = Run(ctx, cfg, report.Stdout(), os.Stdout, proc)
	if err != nil {
		log.Error("verification aborted",
			"code", errs.CodeOf(err),
			"message", errs.MessageOf(err),
			"error", err,
		)
	}
	return errs.ExitCode(err)
}

// Run owns the browser for the duration of proc and uploads the evidence
// afterwards when configured. The returned error is proc's.
func Run(ctx context.Context, cfg *config.Config, rep *report.Reporter, console io.Writer, proc Procedure) error {
	log := obs.From(ctx)

	session, err := browser.Launch(ctx, browser.Options{
		Headless:  cfg.Headless,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("browser shutdown failed", "error", cerr)
		}
	}()

	runErr := proc(ctx, &Env{
		Config:  cfg,
		Session: session,
		Report:  rep,
		Console: console,
	})

	if cfg.UploadsEnabled() {
		uploadEvidence(ctx, cfg, session.Evidence())
	}
	log.Info("verification finished",
		"passed", rep.Passed(),
		"failed", len(rep.Failures()),
		"evidence", len(session.Evidence()),
	)
	return runErr
}

func uploadEvidence(ctx context.Context, cfg *config.Config, paths []string) {
	log := obs.From(ctx)
	if len(paths) == 0 {
		return
	}
	client, err := artifacts.New(ctx, artifacts.Config{
		Endpoint:        cfg.AWSEndpointS3,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		BucketName:      cfg.ArtifactBucket,
		UsePathStyle:    cfg.AWSEndpointS3 != "",
	})
	if err != nil {
		log.Error("evidence upload unavailable", "error", err)
		return
	}
	keys, err := client.UploadFiles(ctx, obs.RunIDFromContext(ctx), obs.RunFromContext(ctx).Verifier, paths)
	if err != nil {
		log.Error("evidence upload failed", "uploaded", len(keys), "error", err)
		return
	}
	log.Info("evidence uploaded", "bucket", client.BucketName(), "objects", len(keys))
}
