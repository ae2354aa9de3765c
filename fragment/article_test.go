package fragment

import (
	"strings"
	"testing"
)

func TestToArticle_ShortContentKeepsRawFragment(t *testing.T) {
	raw := `<div class="overview"><p>tiny</p></div>`

	got, ok := ToArticle(raw, "https://shop.example.com/product/iphone-15")
	if ok {
		t.Error("extraction should be reported as failed for near-empty content")
	}
	if got != raw {
		t.Errorf("raw fragment must come back unchanged, got %q", got)
	}
}

func TestToArticle_InvalidURLKeepsRawFragment(t *testing.T) {
	raw := `<div><p>some overview body text</p></div>`

	got, ok := ToArticle(raw, "://not-a-url")
	if ok {
		t.Error("extraction should be reported as failed for an invalid URL")
	}
	if got != raw {
		t.Errorf("raw fragment must come back unchanged, got %q", got)
	}
}

func TestToArticle_ExtractsMainContent(t *testing.T) {
	var body strings.Builder
	body.WriteString(`<html><head><title>Product overview</title></head><body><nav><a href="/">home</a></nav><article><h1>iPhone 15 overview</h1>`)
	for i := 0; i < 8; i++ {
		body.WriteString(`<p>The iPhone 15 ships with a 6.1 inch display, a 48 megapixel main camera and the A16 chip. Battery life reaches up to twenty hours of video playback under typical use.</p>`)
	}
	body.WriteString(`</article><footer>terms and conditions</footer></body></html>`)

	got, ok := ToArticle(body.String(), "https://shop.example.com/product/iphone-15")
	if !ok {
		t.Fatal("expected successful extraction for a substantial article")
	}
	if !strings.Contains(got, "48 megapixel") {
		t.Errorf("extracted content lost the article body: %q", got)
	}
}
