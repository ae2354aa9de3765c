package fragment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta holds the page metadata recorded in the run manifest.
type Meta struct {
	Title         string `json:"title,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	OGType        string `json:"og_type,omitempty"`
}

// PageMeta extracts the document title and Open Graph meta tags from the
// full page HTML. Parsing failures yield an empty Meta; the manifest is
// best-effort metadata, never a reason to fail a run.
func PageMeta(rawHTML string) Meta {
	m := Meta{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return m
	}

	m.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		switch prop {
		case "og:title":
			m.OGTitle = content
		case "og:description":
			m.OGDescription = content
		case "og:image":
			m.OGImage = content
		case "og:type":
			m.OGType = content
		}
	})

	return m
}
