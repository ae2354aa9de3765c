package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser Browser
	Capture Capture
	Output  Output
	Engine  Engine
	Log     Log
}

// Browser controls the Rod browser instance.
type Browser struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// Proxy is the proxy URL used by both engines.
	Proxy string

	// Stealth injects anti-detection JS before navigation.
	Stealth bool // default: false

	// BlockedResources lists resource classes to block while rendering.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResources []string

	// BlockAds additionally blocks well-known ad/tracking hosts.
	BlockAds bool // default: true
}

// Capture controls the overview capture sequence.
type Capture struct {
	// TabLabel is the visible text of the tab that loads the overview.
	TabLabel string // default: "Overview"

	// Selectors are extra CSS selectors tried before the built-in list
	// in the DOM fallback tier.
	Selectors []string

	// Timeout is the deadline for one page fetch.
	Timeout time.Duration // default: 30s

	// MaxTimeout caps the timeout a caller may request.
	MaxTimeout time.Duration // default: 120s

	// SettleDelay is the pause after the document body exists.
	SettleDelay time.Duration // default: 100ms

	// SniffWindow is how long to wait for late fragment responses after
	// the tab click attempt.
	SniffWindow time.Duration // default: 1400ms

	// ClickBudget is the per-attempt deadline for the tab click.
	ClickBudget time.Duration // default: 3s
}

// Output controls where and how the snapshot is written.
type Output struct {
	// Dir is the output directory.
	Dir string // default: "overview"

	// Format is the output format: "html", "markdown" or "article".
	Format string // default: "html"
}

// Engine controls the fetch-engine ladder.
type Engine struct {
	// Order lists engines in fallback order. Valid names: "browser", "http".
	// default: ["browser", "http"]
	Order []string
}

// Log controls structured logging.
type Log struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: Browser{
			Headless:  envBoolOr("OVGRAB_HEADLESS", true),
			NoSandbox: envBoolOr("OVGRAB_NO_SANDBOX", false),
			Bin:       os.Getenv("OVGRAB_BROWSER_BIN"),
			Proxy:     os.Getenv("OVGRAB_PROXY"),
			Stealth:   envBoolOr("OVGRAB_STEALTH", false),
			BlockedResources: envSliceOr("OVGRAB_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			BlockAds: envBoolOr("OVGRAB_BLOCK_ADS", true),
		},
		Capture: Capture{
			TabLabel:    envOr("OVGRAB_TAB_LABEL", "Overview"),
			Selectors:   envSliceOr("OVGRAB_SELECTORS", nil),
			Timeout:     envDurationOr("OVGRAB_TIMEOUT", 30*time.Second),
			MaxTimeout:  envDurationOr("OVGRAB_MAX_TIMEOUT", 120*time.Second),
			SettleDelay: envDurationOr("OVGRAB_SETTLE_DELAY", 100*time.Millisecond),
			SniffWindow: envDurationOr("OVGRAB_SNIFF_WINDOW", 1400*time.Millisecond),
			ClickBudget: envDurationOr("OVGRAB_CLICK_BUDGET", 3*time.Second),
		},
		Output: Output{
			Dir:    envOr("OVGRAB_OUT_DIR", "overview"),
			Format: envOr("OVGRAB_FORMAT", "html"),
		},
		Engine: Engine{
			Order: envSliceOr("OVGRAB_ENGINES", []string{"browser", "http"}),
		},
		Log: Log{
			Level:  envOr("OVGRAB_LOG_LEVEL", "info"),
			Format: envOr("OVGRAB_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
