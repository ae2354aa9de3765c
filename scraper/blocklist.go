package scraper

import (
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourcePatterns maps human-readable config names to URL patterns for
// proto.NetworkSetBlockedURLs. Blocking by URL pattern on the Network domain
// leaves the Fetch domain free for the response sniffer.
var resourcePatterns = map[string][]string{
	"Image": {
		"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
		"*.avif", "*.apng", "*.bmp", "*.tif", "*.tiff",
	},
	"Stylesheet": {"*.css"},
	"Font":       {"*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf"},
	"Media": {
		"*.mp4", "*.webm", "*.m4v", "*.mov", "*.avi",
		"*.mp3", "*.aac", "*.m4a", "*.ogg", "*.wav", "*.flac",
	},
}

// adPatterns are well-known ad and tracking hosts, blocked when BlockAds is
// enabled.
var adPatterns = []string{
	"*doubleclick*",
	"*googlesyndication*",
	"*googleadservices*",
	"*google-analytics*",
	"*googletagmanager*",
	"*googletagservices*",
	"*connect.facebook.net*",
	"*adnxs*",
	"*adsrvr*",
	"*amazon-adsystem*",
	"*criteo*",
	"*outbrain*",
	"*taboola*",
	"*moatads*",
	"*pubmatic*",
	"*rubiconproject*",
	"*scorecardresearch*",
	"*quantserve*",
	"*hotjar*",
	"*mixpanel*",
	"*segment.io*",
	"*chartbeat*",
	"*optimizely*",
	"*sharethis*",
	"*addthis*",
}

// blockPatterns builds the full URL pattern list for the given resource
// classes. Unknown class names are ignored.
func blockPatterns(blockedTypes []string, blockAds bool) []string {
	var patterns []string
	for _, name := range blockedTypes {
		patterns = append(patterns, resourcePatterns[name]...)
	}
	if blockAds {
		patterns = append(patterns, adPatterns...)
	}
	return patterns
}

// applyBlocklist installs the blocked URL patterns on the page. Failures are
// logged and ignored: blocking is bandwidth hygiene, not correctness.
func applyBlocklist(page *rod.Page, blockedTypes []string, blockAds bool) {
	patterns := blockPatterns(blockedTypes, blockAds)
	if len(patterns) == 0 {
		return
	}
	if err := (proto.NetworkSetBlockedURLs{Urls: patterns}).Call(page); err != nil {
		slog.Warn("failed to set blocked URLs", "error", err)
	}
}
