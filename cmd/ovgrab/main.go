// Command ovgrab fetches a single e-commerce product page, isolates its
// "overview" fragment (network sniffing, DOM selectors, full page — in that
// order) and writes the result to a timestamped file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/ovgrab/capture"
	"github.com/use-agent/ovgrab/config"
	"github.com/use-agent/ovgrab/engine"
	"github.com/use-agent/ovgrab/fragment"
	"github.com/use-agent/ovgrab/models"
	"github.com/use-agent/ovgrab/scraper"
	"github.com/use-agent/ovgrab/store"
)

var (
	flagOutDir    string
	flagFormat    string
	flagEngine    string
	flagTabLabel  string
	flagProxy     string
	flagSelectors []string
	flagTimeout   time.Duration
	flagHeadless  bool
	flagNoSandbox bool
	flagStealth   bool
	flagBlockAds  bool
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ovgrab <product-url>",
	Short: "Snapshot the overview fragment of a product page",
	Long: `ovgrab renders one product page in a headless browser, isolates the
"overview" content fragment via three best-effort fallback tiers (network
response sniffing, DOM selectors, full page) and saves the HTML to a
timestamped file under the output directory.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagOutDir, "out-dir", "o", "overview", "output directory")
	f.StringVarP(&flagFormat, "format", "f", "html", "output format: html, markdown or article")
	f.StringVar(&flagEngine, "engine", "", "fetch engine: browser (default), http, or auto (http first, escalate to browser)")
	f.StringVar(&flagTabLabel, "tab", "Overview", "visible text of the tab that loads the overview")
	f.StringVar(&flagProxy, "proxy", "", "proxy URL for both engines")
	f.StringSliceVarP(&flagSelectors, "selector", "s", nil, "extra CSS selector for the DOM tier (repeatable, tried first)")
	f.DurationVar(&flagTimeout, "timeout", 30*time.Second, "deadline for the page fetch")
	f.BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	f.BoolVar(&flagNoSandbox, "no-sandbox", false, "disable the Chromium sandbox (Docker)")
	f.BoolVar(&flagStealth, "stealth", false, "inject anti-detection JS before navigation")
	f.BoolVar(&flagBlockAds, "block-ads", true, "block known ad/tracking hosts while rendering")
	f.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flagLogFormat, "log-format", "", "log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("ovgrab failed", "error", err)
		var capErr *models.CaptureError
		if errors.As(err, &capErr) && capErr.Code == models.ErrCodeInvalidInput {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, cfg)
	initLogger(cfg.Log)

	rawURL := args[0]
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return models.NewCaptureError(models.ErrCodeInvalidInput,
			fmt.Sprintf("not an http(s) URL: %q", rawURL), err)
	}
	switch cfg.Output.Format {
	case "html", "markdown", "article":
	default:
		return models.NewCaptureError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown format %q", cfg.Output.Format), nil)
	}

	slog.Info("ovgrab starting",
		"url", rawURL,
		"engines", cfg.Engine.Order,
		"outDir", cfg.Output.Dir,
		"format", cfg.Output.Format,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The browser launches lazily so the http-only and auto orders never
	// pay for Chromium unless the ladder reaches the browser engine. The
	// closure keeps engine/ free of a scraper import.
	var scr *scraper.Scraper
	defer func() {
		if scr != nil {
			scr.Close()
		}
	}()
	browserFetch := func(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error) {
		if scr == nil {
			s, newErr := scraper.New(cfg.Browser, cfg.Capture)
			if newErr != nil {
				return nil, newErr
			}
			scr = s
		}
		return scr.Render(ctx, req)
	}

	var engines []engine.Engine
	for _, name := range cfg.Engine.Order {
		switch name {
		case engine.NameBrowser:
			engines = append(engines, engine.NewBrowserEngine(browserFetch))
		case engine.NameHTTP:
			engines = append(engines, engine.NewHTTPEngine(cfg.Browser.Proxy))
		default:
			slog.Warn("unknown engine in order, skipping", "engine", name)
		}
	}

	req := &models.FetchRequest{
		URL:         rawURL,
		Proxy:       cfg.Browser.Proxy,
		Timeout:     cfg.Capture.Timeout,
		Stealth:     cfg.Browser.Stealth,
		TabLabel:    cfg.Capture.TabLabel,
		SettleDelay: cfg.Capture.SettleDelay,
		SniffWindow: cfg.Capture.SniffWindow,
		ClickBudget: cfg.Capture.ClickBudget,
	}
	req.Defaults()

	result, err := engine.NewLadder(engines...).Fetch(ctx, req)
	if err != nil {
		return err
	}

	selectors := append(append([]string{}, cfg.Capture.Selectors...), fragment.DefaultSelectors...)
	frag := capture.Resolve(result, selectors)

	content, ext := frag.HTML, ".html"
	switch cfg.Output.Format {
	case "markdown":
		md, mdErr := fragment.ToMarkdown(frag.HTML, result.FinalURL)
		if mdErr != nil {
			slog.Warn("markdown conversion failed, saving HTML instead", "error", mdErr)
		} else {
			content, ext = md, ".md"
		}
	case "article":
		content, _ = fragment.ToArticle(frag.HTML, result.FinalURL)
	}

	path, err := store.New(cfg.Output.Dir).Save(content, result.FinalURL, ext, store.Manifest{
		SourceURL: rawURL,
		FinalURL:  result.FinalURL,
		Engine:    result.EngineName,
		Tier:      frag.Tier,
		Source:    frag.Source,
		Status:    result.StatusCode,
		Page:      fragment.PageMeta(result.PageHTML),
	})
	if err != nil {
		return err
	}

	slog.Info("saved overview HTML",
		"path", path,
		"tier", frag.Tier,
		"engine", result.EngineName,
		"bytes", len(content),
	)
	fmt.Println(path)
	return nil
}

// applyFlagOverrides layers explicitly set flags over the env-sourced config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("out-dir") {
		cfg.Output.Dir = flagOutDir
	}
	if f.Changed("format") {
		cfg.Output.Format = flagFormat
	}
	if f.Changed("engine") {
		switch flagEngine {
		case "browser":
			cfg.Engine.Order = []string{engine.NameBrowser, engine.NameHTTP}
		case "http":
			cfg.Engine.Order = []string{engine.NameHTTP}
		case "auto":
			cfg.Engine.Order = []string{engine.NameHTTP, engine.NameBrowser}
		default:
			slog.Warn("unknown --engine value, keeping configured order", "engine", flagEngine)
		}
	}
	if f.Changed("tab") {
		cfg.Capture.TabLabel = flagTabLabel
	}
	if f.Changed("proxy") {
		cfg.Browser.Proxy = flagProxy
	}
	if f.Changed("selector") {
		cfg.Capture.Selectors = flagSelectors
	}
	if f.Changed("timeout") {
		cfg.Capture.Timeout = flagTimeout
	}
	if f.Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if f.Changed("no-sandbox") {
		cfg.Browser.NoSandbox = flagNoSandbox
	}
	if f.Changed("stealth") {
		cfg.Browser.Stealth = flagStealth
	}
	if f.Changed("block-ads") {
		cfg.Browser.BlockAds = flagBlockAds
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
}

// initLogger configures slog based on the Log config.
func initLogger(cfg config.Log) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
