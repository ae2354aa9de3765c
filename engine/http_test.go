package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/ovgrab/models"
)

func TestHTTPEngine_Fetch(t *testing.T) {
	page := `<html><head><title>iPhone 15</title></head><body><main>` +
		strings.Repeat("<p>product description text</p>", 20) +
		`</main></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("User-Agent = %q, want a Chrome UA", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	e := NewHTTPEngine("")
	got, err := e.Fetch(context.Background(), &models.FetchRequest{
		URL:     srv.URL + "/product/iphone-15",
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if got.PageHTML != page {
		t.Errorf("PageHTML mismatch (%d bytes)", len(got.PageHTML))
	}
	if got.Title != "iPhone 15" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", got.StatusCode)
	}
	if got.EngineName != NameHTTP {
		t.Errorf("EngineName = %q", got.EngineName)
	}
	if got.FragmentHTML != "" {
		t.Error("HTTP engine must not report a sniffed fragment")
	}
}

func TestHTTPEngine_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewHTTPEngine("")
	_, err := e.Fetch(context.Background(), &models.FetchRequest{URL: srv.URL, Timeout: 5 * time.Second})
	if err == nil {
		t.Fatal("expected an error for HTTP 404")
	}
	var capErr *models.CaptureError
	if !errors.As(err, &capErr) || capErr.Code != models.ErrCodeFetch {
		t.Errorf("err = %v, want a FETCH_FAILED capture error", err)
	}
}

func TestHTTPEngine_ExtraHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shop-Token"); got != "abc" {
			t.Errorf("X-Shop-Token = %q, want abc", got)
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	e := NewHTTPEngine("")
	_, err := e.Fetch(context.Background(), &models.FetchRequest{
		URL:     srv.URL,
		Headers: map[string]string{"X-Shop-Token": "abc"},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
}

func TestNeedsBrowser(t *testing.T) {
	richBody := "<html><body>" +
		strings.Repeat("<p>a paragraph with plenty of visible product text in it</p>", 10) +
		"</body></html>"

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"rendered content", richBody, false},
		{"tiny body", "<html><body><p>hi</p></body></html>", true},
		{"empty react root", `<html><body><div id="root"></div>` + strings.Repeat("<p>filler text for the length check</p>", 10) + `</body></html>`, true},
		{"empty vue app", `<html><body><div id="app"></div>` + strings.Repeat("<p>filler text for the length check</p>", 10) + `</body></html>`, true},
		{"noscript warning", `<html><body><noscript>Please enable JavaScript to continue</noscript>` + strings.Repeat("<p>filler text for the length check</p>", 10) + `</body></html>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsBrowser([]byte(tt.body)); got != tt.want {
				t.Errorf("NeedsBrowser = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	if got := extractTitle([]byte(`<html><head><title> Hello </title></head></html>`)); got != "Hello" {
		t.Errorf("extractTitle = %q, want Hello", got)
	}
	if got := extractTitle([]byte(`<html><head></head><body>none</body></html>`)); got != "" {
		t.Errorf("extractTitle = %q, want empty", got)
	}
}
