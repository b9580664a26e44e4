package guardian

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"VeloDigest/internal/config"
)

const samplePayload = `{
	"response": {
		"results": [
			{
				"webTitle": "Cycling championship delivers dramatic finale",
				"webUrl": "https://example.com/finale",
				"webPublicationDate": "2026-09-01T09:30:00Z",
				"fields": {
					"thumbnail": "https://example.com/finale.jpg",
					"trailText": "<p>A <strong>sprint finish</strong> decides the title</p>"
				}
			},
			{
				"webTitle": "",
				"webUrl": "https://example.com/broken",
				"webPublicationDate": "2026-09-01T08:00:00Z"
			},
			{
				"webTitle": "Undated story",
				"webUrl": "https://example.com/undated",
				"webPublicationDate": "not-a-date"
			}
		]
	}
}`

func TestFetchStripsHTMLAndSkipsMalformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api-key") != "test" {
			t.Errorf("api-key = %q, want test", q.Get("api-key"))
		}
		if q.Get("show-fields") != "thumbnail,trailText" {
			t.Errorf("show-fields = %q", q.Get("show-fields"))
		}
		if q.Get("from-date") != "2026-08-29" {
			t.Errorf("from-date = %q", q.Get("from-date"))
		}
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(config.GuardianConfig{
		BaseURL:  server.URL,
		APIKey:   "test",
		PageSize: 10,
		Query:    "cycling",
	})

	since := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	items, err := client.Fetch(context.Background(), since)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 well-formed item, got %d", len(items))
	}

	item := items[0]
	if item.Title != "Cycling championship delivers dramatic finale" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
	if item.Summary != "A sprint finish decides the title" {
		t.Fatalf("trailText not reduced to plain text: %q", item.Summary)
	}
	if item.Source != sourceName {
		t.Fatalf("unexpected source: %q", item.Source)
	}
	if item.ImageURL != "https://example.com/finale.jpg" {
		t.Fatalf("unexpected image: %q", item.ImageURL)
	}
}

func TestFetchPropagatesHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(config.GuardianConfig{BaseURL: server.URL, APIKey: "test", Query: "cycling"})

	if _, err := client.Fetch(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected an error for a non-2xx response")
	}
}
