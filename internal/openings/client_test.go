package openings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookup(t *testing.T) {
	var gotPlay string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPlay = r.URL.Query().Get("play")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"white": 120, "draws": 200, "black": 80,
			"moves": [
				{"uci": "g1f3", "san": "Nf3", "averageRating": 2500, "white": 60, "draws": 90, "black": 30},
				{"uci": "f1c4", "san": "Bc4", "averageRating": 2450, "white": 20, "draws": 30, "black": 25}
			],
			"opening": {"eco": "C20", "name": "King's Pawn Game"}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	stats, err := c.Lookup(context.Background(), []string{"e2e4", "e7e5"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if gotPlay != "e2e4,e7e5" {
		t.Fatalf("play parameter: got %q", gotPlay)
	}
	if stats.Total() != 400 {
		t.Fatalf("total: got %d, want 400", stats.Total())
	}
	if len(stats.Moves) != 2 || stats.Moves[0].SAN != "Nf3" {
		t.Fatalf("moves: %+v", stats.Moves)
	}
	if stats.Opening == nil || stats.Opening.ECO != "C20" {
		t.Fatalf("opening: %+v", stats.Opening)
	}
}

func TestLookupFailures(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer broken.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	}))
	defer slow.Close()

	tests := []struct {
		name    string
		client  *Client
		timeout time.Duration
	}{
		{name: "error status", client: NewClient(broken.URL, time.Second)},
		{name: "timeout", client: NewClient(slow.URL, 50*time.Millisecond)},
		{name: "context deadline", client: NewClient(slow.URL, time.Second), timeout: 50 * time.Millisecond},
		{name: "unreachable", client: NewClient("http://127.0.0.1:1", time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.timeout)
				defer cancel()
			}
			if _, err := tt.client.Lookup(ctx, []string{"e2e4"}); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("got %v, want ErrUnavailable", err)
			}
		})
	}
}
