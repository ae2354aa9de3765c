package fragment

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultSelectors is the ordered fallback list for locating the overview
// panel in a rendered product page: the active PrimeVue tab panel first,
// then progressively looser containers.
var DefaultSelectors = []string{
	"div.p-tabview-panels div.p-tabview-panel.p-tabview-panel-active",
	"div.p-tabview-panels",
	"section#overview",
	"div.overview",
	"div#overview",
}

// Select parses rawHTML and tries the selectors in order, returning the
// outer HTML of the first match and the selector that produced it.
//
// A selector that matches nothing falls through to the next one; a selector
// that does not parse is logged and skipped. When nothing matches at all,
// Select returns empty strings so the caller can fall back to the full page.
func Select(rawHTML string, selectors []string) (string, string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", "", err
	}

	for _, selector := range selectors {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			slog.Warn("fragment: skipping unparsable selector",
				"selector", selector, "error", err)
			continue
		}

		node := cascadia.Query(doc, sel)
		if node == nil {
			continue
		}

		var buf bytes.Buffer
		if err := html.Render(&buf, node); err != nil {
			return "", "", err
		}
		return buf.String(), selector, nil
	}

	return "", "", nil
}
