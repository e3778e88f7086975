// Package contracts pins the shape of the published data tree: the
// clients.json index and the per-client <id>.json bundles.
//
// Every fixture used by the other packages' tests must decode strictly
// against these types, so a fixture cannot drift away from what the data
// publisher actually serves.
package contracts

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// ClientIndexContract is a minimal clients.json as served by the publisher.
const ClientIndexContract = `[
  {"id": "north", "name": "North Bakery", "industry": "Food & Drink", "status": "active", "platforms": ["instagram", "tiktok"], "primaryColour": "#f59e0b"},
  {"id": "old", "name": "Old Client", "industry": "Other", "status": "archived", "platforms": []}
]`

// ClientBundleContract is a minimal <id>.json bundle as served by the publisher.
const ClientBundleContract = `{
  "id": "north",
  "name": "North Bakery",
  "industry": "Food & Drink",
  "status": "active",
  "metrics": {
    "daily": [
      {"date": "2026-01-01", "platform": "instagram", "followers": 2000, "reach": 300, "impressions": 500, "engagements": 30, "views": 400},
      {"date": "2026-01-01", "platform": "tiktok", "followers": 800, "reach": 900, "impressions": 1200, "engagements": 90, "views": 2500},
      {"date": "2026-01-02", "platform": "instagram", "followers": 2040, "reach": 500, "impressions": 700, "engagements": 45, "views": 600},
      {"date": "2026-01-02", "platform": "tiktok", "followers": 850, "reach": 1100, "impressions": 1500, "engagements": 110, "views": 3100}
    ],
    "posts": [
      {"id": "n1", "platform": "tiktok", "publishedAt": "2026-01-02T08:00:00Z", "contentType": "video", "caption": "Croissant lamination", "hashtags": ["#bakery", "#asmr"], "likes": 300, "comments": 40, "shares": 25, "saves": 12, "reach": 1100, "impressions": 1500, "videoViews": 3100, "engagementRate": 34.3},
      {"id": "n2", "platform": "instagram", "publishedAt": "2026-01-01T07:30:00Z", "contentType": "carousel", "caption": "Morning bake", "hashtags": ["#bakery"], "likes": 60, "comments": 4, "shares": 2, "saves": 9, "reach": 300, "impressions": 500, "engagementRate": 25}
    ],
    "demographics": {
      "gender": [{"label": "Female", "value": 61}, {"label": "Male", "value": 39}],
      "age": [{"label": "25-34", "value": 100}],
      "countries": [{"label": "France", "value": 80}, {"label": "Belgium", "value": 20}],
      "cities": [{"label": "Lyon", "value": 70}, {"label": "Brussels", "value": 30}]
    }
  },
  "imports": [{"date": "2026-01-03", "filename": "north_tiktok.csv", "platform": "tiktok", "records": 2}],
  "updatedAt": "2026-01-03T09:00:00Z"
}`

var knownContentTypes = []metrics.ContentType{
	metrics.ContentImage, metrics.ContentVideo, metrics.ContentReel,
	metrics.ContentCarousel, metrics.ContentStory, metrics.ContentText,
}

func decodeStrict(t *testing.T, data []byte, v any) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		t.Fatalf("payload does not match the data contract: %v", err)
	}
}

func checkIndex(t *testing.T, data []byte) []metrics.ClientRecord {
	t.Helper()
	var clients []metrics.ClientRecord
	decodeStrict(t, data, &clients)

	for _, c := range clients {
		if c.ID == "" || c.Name == "" {
			t.Errorf("client %+v must carry an id and a name", c)
		}
		if c.Status != metrics.StatusActive && c.Status != metrics.StatusArchived {
			t.Errorf("client %s: unknown status %q", c.ID, c.Status)
		}
		for _, p := range c.Platforms {
			if _, ok := metrics.ParsePlatform(string(p)); !ok {
				t.Errorf("client %s: unknown platform %q", c.ID, p)
			}
		}
	}
	return clients
}

func checkBundle(t *testing.T, data []byte) *metrics.ClientDetail {
	t.Helper()
	var detail metrics.ClientDetail
	decodeStrict(t, data, &detail)

	if detail.ID == "" {
		t.Error("bundle must carry its client id")
	}
	for i, m := range detail.Metrics.Daily {
		if _, err := time.Parse(time.DateOnly, m.Date); err != nil {
			t.Errorf("daily[%d]: date %q is not YYYY-MM-DD", i, m.Date)
		}
		if _, ok := metrics.ParsePlatform(string(m.Platform)); !ok {
			t.Errorf("daily[%d]: unknown platform %q", i, m.Platform)
		}
	}
	for _, p := range detail.Metrics.Posts {
		if p.PublishedAt.IsZero() {
			t.Errorf("post %s: publishedAt is required", p.ID)
		}
		if !slices.Contains(knownContentTypes, p.Type) {
			t.Errorf("post %s: unknown content type %q", p.ID, p.Type)
		}
		if p.Hashtags == nil {
			t.Errorf("post %s: hashtags must be a list, even when empty", p.ID)
		}
	}
	return &detail
}

func TestIndexContract_DecodesStrictly(t *testing.T) {
	clients := checkIndex(t, []byte(ClientIndexContract))

	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
	if clients[0].PrimaryColour != "#f59e0b" {
		t.Errorf("expected primaryColour to decode, got %q", clients[0].PrimaryColour)
	}
	if clients[1].Active() {
		t.Error("archived client should not be active")
	}
}

func TestBundleContract_DecodesStrictly(t *testing.T) {
	detail := checkBundle(t, []byte(ClientBundleContract))

	if len(detail.Metrics.Daily) != 4 || len(detail.Metrics.Posts) != 2 {
		t.Fatalf("unexpected bundle size: %d daily, %d posts", len(detail.Metrics.Daily), len(detail.Metrics.Posts))
	}
	if detail.Metrics.Posts[1].VideoViews != 0 {
		t.Error("a post without videoViews should decode as zero")
	}
	if detail.Metrics.Demographics == nil || len(detail.Metrics.Demographics.Cities) != 2 {
		t.Error("demographics should decode")
	}
}

// TestFixtures_MatchContract walks the JSON fixtures the other packages test
// against. broken.json is deliberately unreadable and is skipped.
func TestFixtures_MatchContract(t *testing.T) {
	dirs := []string{
		filepath.Join("..", "..", "internal", "repository", "testdata"),
		filepath.Join("..", "..", "cmd", "socialife", "testdata", "data"),
	}

	checked := 0
	for _, dir := range dirs {
		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			t.Fatal(err)
		}
		for _, path := range paths {
			if filepath.Base(path) == "broken.json" {
				continue
			}
			t.Run(path, func(t *testing.T) {
				data, err := os.ReadFile(path) // #nosec G304 -- fixture path from Glob
				if err != nil {
					t.Fatal(err)
				}
				if filepath.Base(path) == "clients.json" {
					checkIndex(t, data)
				} else {
					checkBundle(t, data)
				}
			})
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no fixtures found")
	}
}
