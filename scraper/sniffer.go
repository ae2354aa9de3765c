package scraper

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// sniffer listens for network responses that look like the overview
// fragment. It runs on the Network domain (not a Fetch-domain hijack) so it
// can coexist with NetworkSetBlockedURLs on recent Chromium.
type sniffer struct {
	page *rod.Page

	mu         sync.Mutex
	last       *proto.NetworkResponseReceived
	candidates int
}

// startSniffer subscribes to response events on the page. The subscription
// ends when ctx is done; responses seen before startSniffer (notably the
// main document) are never candidates.
func startSniffer(ctx context.Context, page *rod.Page) *sniffer {
	s := &sniffer{page: page}

	wait := page.Context(ctx).EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Response == nil || !isCandidate(e.Response.URL, e.Response.MIMEType) {
			return
		}
		s.mu.Lock()
		s.last = e
		s.candidates++
		s.mu.Unlock()
		slog.Info("sniffer: candidate response captured", "url", e.Response.URL)
	})
	go wait()

	return s
}

// Fragment returns the body and URL of the last candidate response, or empty
// strings when nothing was captured or the body could not be read.
func (s *sniffer) Fragment() (string, string) {
	s.mu.Lock()
	e := s.last
	n := s.candidates
	s.mu.Unlock()

	if e == nil {
		return "", ""
	}
	slog.Debug("sniffer: reading last candidate", "url", e.Response.URL, "candidates", n)

	res, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(s.page)
	if err != nil {
		slog.Warn("sniffer: failed to read response body",
			"url", e.Response.URL, "error", err)
		return "", ""
	}

	body := res.Body
	if res.Base64Encoded {
		decoded, decErr := base64.StdEncoding.DecodeString(res.Body)
		if decErr != nil {
			slog.Warn("sniffer: failed to decode response body",
				"url", e.Response.URL, "error", decErr)
			return "", ""
		}
		body = string(decoded)
	}

	slog.Info("captured overview HTML from response", "url", e.Response.URL)
	return body, e.Response.URL
}

// isCandidate reports whether a response looks like the overview fragment:
// the URL mentions "overview", or it serves a .html file, or it carries an
// HTML content type.
func isCandidate(rawURL, mimeType string) bool {
	u := strings.ToLower(rawURL)
	if strings.Contains(u, "overview") {
		return true
	}
	if strings.HasSuffix(u, ".html") {
		return true
	}
	return strings.Contains(strings.ToLower(mimeType), "text/html")
}
