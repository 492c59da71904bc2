package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salestat/internal/infrastructure/source"
)

func TestClientFetchAllFollowsPagination(t *testing.T) {
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("wrong auth header: %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != "2022-06-28" {
			t.Errorf("wrong version header: %q", got)
		}

		var body struct {
			StartCursor string `json:"start_cursor"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		requests = append(requests, body.StartCursor)

		w.Header().Set("Content-Type", "application/json")
		switch body.StartCursor {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"results":     []any{map[string]any{"id": "1"}, map[string]any{"id": "2"}},
				"has_more":    true,
				"next_cursor": "cursor-2",
			})
		case "cursor-2":
			json.NewEncoder(w).Encode(map[string]any{
				"results":  []any{map[string]any{"id": "3"}},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected cursor %q", body.StartCursor)
		}
	}))
	defer srv.Close()

	client := source.NewClient(source.Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		APIVersion: "2022-06-28",
		DatabaseID: "db-123",
		Timeout:    5 * time.Second,
	})

	records, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(records) != 3 {
		t.Errorf("expected 3 records across pages, got %d", len(records))
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 page requests, got %d", len(requests))
	}
	if requests[0] != "" || requests[1] != "cursor-2" {
		t.Errorf("cursor sequence wrong: %v", requests)
	}
}

func TestClientFetchAllErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := source.NewClient(source.Config{
		BaseURL:    srv.URL,
		APIKey:     "bad-key",
		APIVersion: "2022-06-28",
		DatabaseID: "db-123",
	})

	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatal("expected an error on non-200 status")
	}
}

func TestClientFetchAllContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := source.NewClient(source.Config{
		BaseURL:    srv.URL,
		DatabaseID: "db-123",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.FetchAll(ctx); err == nil {
		t.Fatal("expected an error when the context expires")
	}
}
