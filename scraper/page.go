package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/ovgrab/models"
	"github.com/ysmood/gson"
)

// Render fetches one product page in the browser and captures the overview
// fragment from the network where possible.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard       – hard deadline on the entire operation
//  2. Open page           – one tab per run, closed on return
//  3. Stealth injection   – mask navigator.webdriver etc. (before navigation!)
//  4. Headers + blocklist – Referer default, resource/ad blocking
//  5. Navigate            – triggers page load
//  6. Wait                – body element exists + settle delay
//  7. Sniff window        – response listener + tab click + late-response wait
//  8. Extract             – page HTML, title, final URL, sniffed fragment
//
// Why this order matters:
//   - Step 3 and 4 MUST happen before step 5: stealth JS and blocked URL
//     patterns only take effect for navigations after they are installed.
//   - The sniffer starts AFTER the document has loaded (step 7, not before
//     step 5) so the main document response is never mistaken for the
//     overview fragment; only responses triggered by the tab interaction
//     are candidates.
func (s *Scraper) Render(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	timeout := req.Timeout
	if timeout > s.captureCfg.MaxTimeout {
		timeout = s.captureCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ── 2. Open page ──────────────────────────────────────────────────
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewCaptureError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}
	// Close uses the original page reference so cleanup succeeds even if
	// the request context has expired.
	defer func() { _ = page.Close() }()

	// ── 3. Stealth injection ──────────────────────────────────────────
	if req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4. Extra headers (custom + Google Referer) ───────────────────
	extraHeaders := make(map[string]string, len(req.Headers)+1)
	if _, hasReferer := req.Headers["Referer"]; !hasReferer {
		if u, parseErr := url.Parse(req.URL); parseErr == nil {
			extraHeaders["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range req.Headers {
		extraHeaders[k] = v
	}
	if len(extraHeaders) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(extraHeaders),
		}.Call(page)
	}

	// ── 4b. Resource/ad blocking ──────────────────────────────────────
	applyBlocklist(page, s.browserCfg.BlockedResources, s.browserCfg.BlockAds)

	// ── 5. Navigate ───────────────────────────────────────────────────
	p := page.Context(ctx)
	if navErr := p.Navigate(req.URL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	// ── 6. Wait for body + settle ─────────────────────────────────────
	if _, waitErr := p.Element("body"); waitErr != nil {
		return nil, categorizeError(waitErr, "document body never appeared")
	}
	if err := sleepCtx(ctx, req.SettleDelay); err != nil {
		return nil, categorizeError(err, "interrupted while settling")
	}

	// ── 7. Sniff window: listener + tab click + late responses ───────
	sn := startSniffer(ctx, page)
	clickTab(p, req.TabLabel, req.ClickBudget)
	if err := sleepCtx(ctx, req.SniffWindow); err != nil {
		return nil, categorizeError(err, "interrupted while sniffing responses")
	}
	fragmentHTML, fragmentURL := sn.Fragment()

	// ── 8. Extract rendered HTML ──────────────────────────────────────
	pageHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	// Status code via the performance navigation entry: no CDP event
	// listeners needed, so it cannot clash with the sniffer.
	statusCode := 0
	if res, evalErr := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); evalErr == nil {
		statusCode = res.Value.Int()
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &models.RenderResult{
		PageHTML:     pageHTML,
		Title:        title,
		StatusCode:   statusCode,
		FinalURL:     finalURL,
		EngineName:   "browser",
		FragmentHTML: fragmentHTML,
		FragmentURL:  fragmentURL,
	}, nil
}

// clickTab tries to click the tab whose visible text equals label, so the
// page requests the overview fragment. Both attempts are best-effort: a page
// without the tab still renders the overview in the DOM or not at all, and
// the later tiers handle that.
func clickTab(p *rod.Page, label string, budget time.Duration) {
	pattern := "/^\\s*" + regexp.QuoteMeta(label) + "\\s*$/i"

	if el, err := p.Timeout(budget).ElementR(`button, a, [role="tab"], span`, pattern); err == nil {
		if clickErr := el.Click(proto.InputMouseButtonLeft, 1); clickErr == nil {
			slog.Info("clicked overview tab", "label", label)
			return
		}
	}

	// PrimeVue tab headers wrap the label in a dedicated span.
	if el, err := p.Timeout(budget).ElementR("span.p-tabview-title", pattern); err == nil {
		if clickErr := el.Click(proto.InputMouseButtonLeft, 1); clickErr == nil {
			slog.Info("clicked overview tab via tabview title", "label", label)
			return
		}
	}

	slog.Info("could not click overview tab, continuing", "label", label)
}

// sleepCtx pauses for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed CaptureErrors so main can map
// them to exit codes.
func categorizeError(err error, msg string) *models.CaptureError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCaptureError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCaptureError(models.ErrCodeTimeout, "fetch canceled", err)
	default:
		return models.NewCaptureError(models.ErrCodeNavigation, msg, err)
	}
}
