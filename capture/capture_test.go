package capture

import (
	"strings"
	"testing"

	"github.com/use-agent/ovgrab/fragment"
	"github.com/use-agent/ovgrab/models"
)

const pageWithOverview = `<html><body>
<div class="overview"><p>dom overview</p></div>
<p>rest of page</p>
</body></html>`

func TestResolve_NetworkFragmentWins(t *testing.T) {
	r := &models.RenderResult{
		PageHTML:     pageWithOverview,
		FragmentHTML: `<div>sniffed overview</div>`,
		FragmentURL:  "https://shop.example.com/api/overview",
	}

	got := Resolve(r, fragment.DefaultSelectors)

	if got.Tier != TierNetwork {
		t.Fatalf("Tier = %q, want %q", got.Tier, TierNetwork)
	}
	if got.HTML != r.FragmentHTML {
		t.Errorf("HTML = %q, want the sniffed fragment", got.HTML)
	}
	if got.Source != r.FragmentURL {
		t.Errorf("Source = %q, want the response URL", got.Source)
	}
}

func TestResolve_EmptyNetworkFallsToDOM(t *testing.T) {
	r := &models.RenderResult{PageHTML: pageWithOverview}

	got := Resolve(r, fragment.DefaultSelectors)

	if got.Tier != TierDOM {
		t.Fatalf("Tier = %q, want %q", got.Tier, TierDOM)
	}
	if !strings.Contains(got.HTML, "dom overview") {
		t.Errorf("HTML = %q, want the overview div", got.HTML)
	}
	if got.Source != "div.overview" {
		t.Errorf("Source = %q, want the matched selector", got.Source)
	}
}

func TestResolve_WhitespaceFragmentCountsAsEmpty(t *testing.T) {
	r := &models.RenderResult{
		PageHTML:     pageWithOverview,
		FragmentHTML: "  \n\t ",
	}

	got := Resolve(r, fragment.DefaultSelectors)

	if got.Tier != TierDOM {
		t.Errorf("Tier = %q, want %q (whitespace fragment is empty)", got.Tier, TierDOM)
	}
}

func TestResolve_NothingMatchesFallsToFullPage(t *testing.T) {
	r := &models.RenderResult{
		PageHTML: `<html><body><p>no overview anywhere</p></body></html>`,
	}

	got := Resolve(r, fragment.DefaultSelectors)

	if got.Tier != TierPage {
		t.Fatalf("Tier = %q, want %q", got.Tier, TierPage)
	}
	if got.HTML != r.PageHTML {
		t.Errorf("HTML should be the full page, got %q", got.HTML)
	}
	if got.Source != "" {
		t.Errorf("Source = %q, want empty for the page tier", got.Source)
	}
}
