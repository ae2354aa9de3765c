// Package store persists the captured overview HTML and a JSON manifest
// describing where it came from.
package store

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/use-agent/ovgrab/fragment"
	"github.com/use-agent/ovgrab/models"
)

// unsafeChars matches every run of characters outside [0-9a-zA-Z_-].
var unsafeChars = regexp.MustCompile(`[^0-9a-zA-Z_\-]+`)

// Store writes run artifacts into a single output directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on
// first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Manifest is the sidecar JSON written next to every snapshot.
type Manifest struct {
	SourceURL string        `json:"source_url"`
	FinalURL  string        `json:"final_url,omitempty"`
	Engine    string        `json:"engine"`
	Tier      string        `json:"tier"`
	Source    string        `json:"tier_source,omitempty"`
	Status    int           `json:"status_code,omitempty"`
	Page      fragment.Meta `json:"page"`
	Bytes     int           `json:"bytes"`
	SavedAt   time.Time     `json:"saved_at"`
}

// Slug derives a filename slug from the last non-empty path segment of the
// URL, sanitized so only [0-9a-zA-Z_-] survives. An empty or fully
// sanitized-away slug becomes "product".
func Slug(rawURL string) string {
	slug := "product"
	if u, err := url.Parse(rawURL); err == nil {
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				slug = seg
			}
		}
	}

	safe := strings.Trim(unsafeChars.ReplaceAllString(slug, "_"), "_")
	if safe == "" {
		return "product"
	}
	return safe
}

// Filename builds the snapshot filename: <slug>_<unix-timestamp><ext>.
func Filename(rawURL string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s_%d%s", Slug(rawURL), ts.Unix(), ext)
}

// Save writes content under the store directory with a name derived from
// rawURL, plus a sibling <name>.json manifest. It returns the snapshot path.
func (s *Store) Save(content string, rawURL string, ext string, m Manifest) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", models.NewCaptureError(models.ErrCodeWrite,
			"failed to create output directory", err)
	}

	name := Filename(rawURL, time.Now(), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", models.NewCaptureError(models.ErrCodeWrite,
			"failed to write snapshot", err)
	}

	m.Bytes = len(content)
	if m.SavedAt.IsZero() {
		m.SavedAt = time.Now().UTC()
	}

	manifestPath := strings.TrimSuffix(path, ext) + ".json"
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return "", models.NewCaptureError(models.ErrCodeWrite,
			"failed to encode manifest", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return "", models.NewCaptureError(models.ErrCodeWrite,
			"failed to write manifest", err)
	}

	return path, nil
}
