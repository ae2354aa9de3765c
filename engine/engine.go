// Package engine provides the fetch engines and the fallback ladder that
// orders them.
package engine

import (
	"context"

	"github.com/use-agent/ovgrab/models"
)

// Engine names.
const (
	NameBrowser = "browser"
	NameHTTP    = "http"
)

// Engine is the interface all fetch engines implement.
type Engine interface {
	// Name returns the engine identifier ("browser" or "http").
	Name() string

	// Fetch retrieves the page for the given request.
	Fetch(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error)
}
