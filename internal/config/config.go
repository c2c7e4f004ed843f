// Package config provides centralized configuration for the verifier binaries.
// The binaries take no flags; everything comes from environment variables
// with defaults that reproduce a plain run from the game's checkout.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPagePath  = "index.html"
	defaultOutputDir = "verification"
	defaultAWSRegion = "us-east-1"
)

// Config holds all verifier configuration.
type Config struct {
	// Page under test
	PagePath  string // absolute path of the page document
	OutputDir string // evidence directory (screenshots, HTML dumps)
	Headless  bool

	// Bounded waits
	SetupTimeout time.Duration // initial tiles must render within this
	MoveTimeout  time.Duration // post-move position marker wait

	// Settle delays
	MergeSettle     time.Duration
	AnimationSettle time.Duration
	LayoutSettle    time.Duration

	// Pointer drag
	SwipeSteps     int
	SwipeStepDelay time.Duration

	// Optional evidence upload (disabled when ArtifactBucket is empty)
	ArtifactBucket     string // VERIFY_ARTIFACT_BUCKET
	AWSEndpointS3      string // AWS_ENDPOINT_URL_S3
	AWSRegion          string // AWS_REGION
	AWSAccessKeyID     string // AWS_ACCESS_KEY_ID
	AWSSecretAccessKey string // AWS_SECRET_ACCESS_KEY
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Default returns the configuration used when no environment variables are set.
// PagePath is left relative; LoadConfig resolves it.
func Default() Config {
	return Config{
		PagePath:        defaultPagePath,
		OutputDir:       defaultOutputDir,
		Headless:        true,
		SetupTimeout:    2 * time.Second,
		MoveTimeout:     time.Second,
		MergeSettle:     100 * time.Millisecond,
		AnimationSettle: time.Second,
		LayoutSettle:    time.Second,
		SwipeSteps:      5,
		SwipeStepDelay:  20 * time.Millisecond,
		AWSRegion:       defaultAWSRegion,
	}
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	def := Default()
	cfg := &Config{}

	pagePath := getEnvOrDefault("VERIFY_PAGE", def.PagePath)
	abs, err := filepath.Abs(pagePath)
	if err != nil {
		return nil, fmt.Errorf("resolve page path %q: %w", pagePath, err)
	}
	cfg.PagePath = abs
	cfg.OutputDir = getEnvOrDefault("VERIFY_OUTPUT_DIR", def.OutputDir)
	cfg.Headless = parseBoolOrDefault("VERIFY_HEADLESS", def.Headless)

	cfg.SetupTimeout = parseDurationOrDefault("VERIFY_SETUP_TIMEOUT", def.SetupTimeout)
	cfg.MoveTimeout = parseDurationOrDefault("VERIFY_MOVE_TIMEOUT", def.MoveTimeout)
	cfg.MergeSettle = parseDurationOrDefault("VERIFY_MERGE_SETTLE", def.MergeSettle)
	cfg.AnimationSettle = parseDurationOrDefault("VERIFY_ANIMATION_SETTLE", def.AnimationSettle)
	cfg.LayoutSettle = parseDurationOrDefault("VERIFY_LAYOUT_SETTLE", def.LayoutSettle)
	cfg.SwipeSteps = parseIntOrDefault("VERIFY_SWIPE_STEPS", def.SwipeSteps)
	cfg.SwipeStepDelay = parseDurationOrDefault("VERIFY_SWIPE_STEP_DELAY", def.SwipeStepDelay)

	cfg.ArtifactBucket = strings.TrimSpace(os.Getenv("VERIFY_ARTIFACT_BUCKET"))
	cfg.AWSEndpointS3 = strings.TrimSpace(os.Getenv("AWS_ENDPOINT_URL_S3"))
	cfg.AWSRegion = getEnvOrDefault("AWS_REGION", def.AWSRegion)
	cfg.AWSAccessKeyID = strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	cfg.AWSSecretAccessKey = strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the page exists and every wait is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.PagePath == "" {
		errs = append(errs, "VERIFY_PAGE must not be empty")
	} else if info, err := os.Stat(c.PagePath); err != nil {
		errs = append(errs, fmt.Sprintf("VERIFY_PAGE %s is not readable (run from the game checkout or set VERIFY_PAGE)", c.PagePath))
	} else if info.IsDir() {
		errs = append(errs, fmt.Sprintf("VERIFY_PAGE %s is a directory", c.PagePath))
	}

	if c.OutputDir == "" {
		errs = append(errs, "VERIFY_OUTPUT_DIR must not be empty")
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"VERIFY_SETUP_TIMEOUT", c.SetupTimeout},
		{"VERIFY_MOVE_TIMEOUT", c.MoveTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, p.name+" must be positive")
		}
	}

	nonNegative := []struct {
		name  string
		value time.Duration
	}{
		{"VERIFY_MERGE_SETTLE", c.MergeSettle},
		{"VERIFY_ANIMATION_SETTLE", c.AnimationSettle},
		{"VERIFY_LAYOUT_SETTLE", c.LayoutSettle},
		{"VERIFY_SWIPE_STEP_DELAY", c.SwipeStepDelay},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			errs = append(errs, n.name+" must not be negative")
		}
	}

	if c.SwipeSteps < 1 {
		errs = append(errs, "VERIFY_SWIPE_STEPS must be at least 1")
	}

	// Static keys are optional (SDK default chain otherwise) but come as a pair.
	if c.ArtifactBucket != "" && (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		errs = append(errs, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// PageURL returns the page as an absolute file URL.
func (c *Config) PageURL() string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(c.PagePath)}
	return u.String()
}

// UploadsEnabled reports whether evidence should be pushed to object storage.
func (c *Config) UploadsEnabled() bool {
	return c.ArtifactBucket != ""
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary(verifier string) {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "%s starting...\n", verifier)
	fmt.Fprintf(os.Stderr, "  Page:     %s\n", c.PageURL())
	fmt.Fprintf(os.Stderr, "  Evidence: %s\n", c.OutputDir)
	if c.Headless {
		fmt.Fprintln(os.Stderr, "  Browser:  Chromium (headless)")
	} else {
		fmt.Fprintln(os.Stderr, "  Browser:  Chromium (headed, VERIFY_HEADLESS=false)")
	}
	if c.UploadsEnabled() {
		fmt.Fprintf(os.Stderr, "  Upload:   s3://%s\n", c.ArtifactBucket)
	} else {
		fmt.Fprintln(os.Stderr, "  Upload:   disabled")
	}
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
