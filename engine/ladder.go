package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/use-agent/ovgrab/models"
)

// Ladder tries engines in order and degrades on failure. Unlike a racing
// dispatcher, order is a correctness property here: only the browser engine
// can feed the network capture tier, so when it comes first it must be given
// its full chance before anything else runs.
//
// When the HTTP engine succeeds but its body trips the needs-browser
// heuristics and a later engine remains, the ladder escalates and keeps the
// HTTP result as a fallback in case the browser then fails.
type Ladder struct {
	engines []Engine
}

// NewLadder creates a Ladder over the given engines, tried in order.
func NewLadder(engines ...Engine) *Ladder {
	return &Ladder{engines: engines}
}

// Fetch runs the ladder and returns the first acceptable result. If every
// engine fails it returns the last error.
func (l *Ladder) Fetch(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error) {
	var lastErr error
	var fallback *models.RenderResult

	for i, eng := range l.engines {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		slog.Debug("engine starting", "engine", eng.Name(), "url", req.URL)
		result, err := eng.Fetch(ctx, req)
		if err != nil {
			slog.Warn("engine failed, escalating", "engine", eng.Name(),
				"url", req.URL, "error", err)
			lastErr = err
			continue
		}

		if eng.Name() == NameHTTP && i < len(l.engines)-1 && NeedsBrowser([]byte(result.PageHTML)) {
			slog.Info("static HTML looks JS-dependent, escalating to browser",
				"url", req.URL)
			fallback = result
			continue
		}

		slog.Info("engine produced page", "engine", eng.Name(), "url", req.URL)
		return result, nil
	}

	if fallback != nil {
		slog.Warn("later engines failed, keeping earlier HTTP result",
			"url", req.URL)
		return fallback, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no engines configured for %s", req.URL)
	}
	return nil, lastErr
}
