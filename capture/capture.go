// Package capture resolves which HTML fragment a run persists.
//
// Tier priority is fixed: a fragment sniffed from a network response beats
// a DOM selector match, which beats the full page. Every tier is
// best-effort; the chain always resolves because the full page is always
// available once an engine produced a result.
package capture

import (
	"log/slog"
	"strings"

	"github.com/use-agent/ovgrab/fragment"
	"github.com/use-agent/ovgrab/models"
)

// Tier names recorded in the run manifest.
const (
	TierNetwork = "network"
	TierDOM     = "dom"
	TierPage    = "page"
)

// Result is the resolved fragment plus its provenance.
type Result struct {
	// HTML is the chosen fragment.
	HTML string

	// Tier is which fallback tier produced it.
	Tier string

	// Source is the sniffed response URL (network tier) or the matched
	// CSS selector (dom tier). Empty for the page tier.
	Source string
}

// Resolve applies the three-tier fallback chain to a render result.
// selectors is the full ordered list for the DOM tier (user selectors
// first, then fragment.DefaultSelectors).
func Resolve(r *models.RenderResult, selectors []string) Result {
	if strings.TrimSpace(r.FragmentHTML) != "" {
		slog.Info("capture: using network-sniffed fragment",
			"response_url", r.FragmentURL, "bytes", len(r.FragmentHTML))
		return Result{HTML: r.FragmentHTML, Tier: TierNetwork, Source: r.FragmentURL}
	}

	domHTML, matched, err := fragment.Select(r.PageHTML, selectors)
	if err != nil {
		slog.Warn("capture: DOM tier failed, falling back to full page", "error", err)
	} else if domHTML != "" {
		slog.Info("capture: found overview in DOM", "selector", matched)
		return Result{HTML: domHTML, Tier: TierDOM, Source: matched}
	}

	slog.Warn("capture: overview not found by network or DOM selectors, " +
		"falling back to full page HTML")
	return Result{HTML: r.PageHTML, Tier: TierPage}
}
