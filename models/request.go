package models

import "time"

// FetchRequest describes one page fetch. It is shared by all engines; the
// capture-related fields (TabLabel, SettleDelay, SniffWindow, ClickBudget)
// only apply to the browser engine, which is the only one that can observe
// network responses.
type FetchRequest struct {
	// URL is the product page to fetch.
	URL string

	// Headers are extra HTTP headers sent with the request.
	Headers map[string]string

	// Proxy overrides the default proxy for this request.
	Proxy string

	// Timeout is the hard deadline for the whole fetch.
	Timeout time.Duration

	// Stealth injects anti-detection JS before navigation (browser only).
	Stealth bool

	// TabLabel is the visible text of the tab to click so the overview
	// fragment gets requested (e.g. "Overview").
	TabLabel string

	// SettleDelay is the pause after the document body exists, before any
	// interaction.
	SettleDelay time.Duration

	// SniffWindow is how long to keep listening for late fragment
	// responses after the tab click attempt.
	SniffWindow time.Duration

	// ClickBudget is the per-attempt deadline for locating and clicking
	// the tab.
	ClickBudget time.Duration
}

// Defaults fills zero-valued fields with sane defaults.
func (r *FetchRequest) Defaults() {
	if r.Timeout <= 0 {
		r.Timeout = 30 * time.Second
	}
	if r.TabLabel == "" {
		r.TabLabel = "Overview"
	}
	if r.SettleDelay <= 0 {
		r.SettleDelay = 100 * time.Millisecond
	}
	if r.SniffWindow <= 0 {
		r.SniffWindow = 1400 * time.Millisecond
	}
	if r.ClickBudget <= 0 {
		r.ClickBudget = 3 * time.Second
	}
}
