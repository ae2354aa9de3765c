package engine

import (
	"context"

	"github.com/use-agent/ovgrab/models"
)

// FetchFunc is the browser render callback. The closure is wired in main so
// this package never imports scraper (and the browser only launches if the
// ladder actually reaches this engine).
type FetchFunc func(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error)

// BrowserEngine fetches pages through the rod-driven browser. It is the only
// engine that can feed the network-sniffing capture tier.
type BrowserEngine struct {
	fetch FetchFunc
}

// NewBrowserEngine creates a BrowserEngine around the render callback.
func NewBrowserEngine(fetch FetchFunc) *BrowserEngine {
	return &BrowserEngine{fetch: fetch}
}

func (e *BrowserEngine) Name() string { return NameBrowser }

func (e *BrowserEngine) Fetch(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error) {
	return e.fetch(ctx, req)
}
