package fragment

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minArticleLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and keep the raw fragment.
const minArticleLength = 50

// ToArticle runs the Mozilla Readability algorithm on the captured HTML and
// returns the cleaned content. The second return value reports whether
// extraction succeeded; on any failure (bad URL, extraction error, content
// too short) the raw HTML comes back unchanged so the snapshot is never lost
// to an over-eager cleaner.
func ToArticle(rawHTML string, sourceURL string) (string, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("article: invalid source URL, keeping raw fragment",
			"url", sourceURL, "error", err)
		return rawHTML, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("article: extraction failed, keeping raw fragment",
			"url", sourceURL, "error", err)
		return rawHTML, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minArticleLength {
		slog.Warn("article: extracted content too short, keeping raw fragment",
			"url", sourceURL, "length", len(article.TextContent))
		return rawHTML, false
	}

	return article.Content, true
}
