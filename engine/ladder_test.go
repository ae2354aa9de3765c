package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/ovgrab/models"
)

type fakeEngine struct {
	name   string
	result *models.RenderResult
	err    error
	calls  int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(ctx context.Context, req *models.FetchRequest) (*models.RenderResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// richPage has enough visible text that NeedsBrowser stays quiet.
var richPage = "<html><body><main>" +
	strings.Repeat("<p>plenty of rendered product copy right here</p>", 10) +
	"</main></body></html>"

func TestLadder_FirstEngineWins(t *testing.T) {
	first := &fakeEngine{name: NameBrowser, result: &models.RenderResult{PageHTML: richPage, EngineName: NameBrowser}}
	second := &fakeEngine{name: NameHTTP}

	got, err := NewLadder(first, second).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != NameBrowser {
		t.Errorf("EngineName = %q, want browser", got.EngineName)
	}
	if second.calls != 0 {
		t.Error("second engine should not run when the first succeeds")
	}
}

func TestLadder_FailureEscalates(t *testing.T) {
	first := &fakeEngine{name: NameBrowser, err: errors.New("launch failed")}
	second := &fakeEngine{name: NameHTTP, result: &models.RenderResult{PageHTML: richPage, EngineName: NameHTTP}}

	got, err := NewLadder(first, second).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != NameHTTP {
		t.Errorf("EngineName = %q, want http", got.EngineName)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", first.calls, second.calls)
	}
}

func TestLadder_AllFailReturnsLastError(t *testing.T) {
	wantErr := errors.New("http down too")
	first := &fakeEngine{name: NameBrowser, err: errors.New("launch failed")}
	second := &fakeEngine{name: NameHTTP, err: wantErr}

	_, err := NewLadder(first, second).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want the last engine's error", err)
	}
}

func TestLadder_HTTPShellEscalatesToBrowser(t *testing.T) {
	shell := &fakeEngine{name: NameHTTP, result: &models.RenderResult{
		PageHTML:   `<html><body><div id="root"></div></body></html>`,
		EngineName: NameHTTP,
	}}
	browser := &fakeEngine{name: NameBrowser, result: &models.RenderResult{
		PageHTML:   richPage,
		EngineName: NameBrowser,
	}}

	got, err := NewLadder(shell, browser).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != NameBrowser {
		t.Errorf("EngineName = %q, want browser after SPA-shell escalation", got.EngineName)
	}
}

func TestLadder_ShellResultKeptWhenBrowserFails(t *testing.T) {
	shellHTML := `<html><body><div id="root"></div></body></html>`
	shell := &fakeEngine{name: NameHTTP, result: &models.RenderResult{
		PageHTML:   shellHTML,
		EngineName: NameHTTP,
	}}
	browser := &fakeEngine{name: NameBrowser, err: errors.New("no chromium installed")}

	got, err := NewLadder(shell, browser).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != NameHTTP || got.PageHTML != shellHTML {
		t.Errorf("expected the HTTP shell result as fallback, got %+v", got)
	}
}

func TestLadder_HTTPLastIsNotEscalated(t *testing.T) {
	shell := &fakeEngine{name: NameHTTP, result: &models.RenderResult{
		PageHTML:   `<html><body><div id="root"></div></body></html>`,
		EngineName: NameHTTP,
	}}

	got, err := NewLadder(shell).Fetch(context.Background(), &models.FetchRequest{URL: "https://x.test/p"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != NameHTTP {
		t.Errorf("sole engine's result must be returned as-is, got %q", got.EngineName)
	}
}
