package contracts

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gauthierbraillon/socialife/internal/aggregator"
	"github.com/gauthierbraillon/socialife/internal/ranking"
	"github.com/gauthierbraillon/socialife/internal/repository"
)

func contractServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/clients.json":
			_, _ = w.Write([]byte(ClientIndexContract))
		case "/north.json":
			_, _ = w.Write([]byte(ClientBundleContract))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func contractRepository(t *testing.T) *repository.Repository {
	t.Helper()
	server := contractServer(t)
	repo, err := repository.New(
		repository.NewSource(server.URL),
		repository.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo
}

// TestRepository_ParsesContract verifies the repository serves contract
// payloads fetched over HTTP.
func TestRepository_ParsesContract(t *testing.T) {
	repo := contractRepository(t)
	ctx := context.Background()

	active := repo.ActiveClients(ctx)
	if len(active) != 1 || active[0].ID != "north" {
		t.Fatalf("expected only north to be active, got %+v", active)
	}
	if got := len(repo.DailyMetrics(ctx, "north", repository.DailyFilter{Platform: "tiktok"})); got != 2 {
		t.Errorf("expected 2 tiktok entries, got %d", got)
	}
	if _, ok := repo.Demographics(ctx, "north"); !ok {
		t.Error("expected demographics from the contract bundle")
	}
}

// TestAggregator_SummarisesContract checks the KPIs derived from the
// contract bundle.
func TestAggregator_SummarisesContract(t *testing.T) {
	agg := aggregator.New(contractRepository(t))

	s, ok := agg.ClientSummary(context.Background(), "north")
	if !ok {
		t.Fatal("expected a summary for north")
	}
	if s.Followers != 2890 {
		t.Errorf("followers: got %d, want 2890", s.Followers)
	}
	if s.Reach != 2800 || s.Engagements != 275 || s.Views != 6600 {
		t.Errorf("totals: got reach %d, engagements %d, views %d", s.Reach, s.Engagements, s.Views)
	}
	if math.Abs(s.ReachChange-100.0/3) > 1e-9 {
		t.Errorf("reach change: got %v, want 33.33", s.ReachChange)
	}
	if s.PostsCount != 2 {
		t.Errorf("posts: got %d, want 2", s.PostsCount)
	}
}

// TestRanking_RanksContract checks cross-client ranking and hashtag rollups
// over the contract bundle.
func TestRanking_RanksContract(t *testing.T) {
	engine := ranking.NewEngine(contractRepository(t))
	ctx := context.Background()

	top := engine.TopContent(ctx, 1)
	if len(top) != 1 || top[0].ID != "n1" || top[0].ClientName != "North Bakery" {
		t.Errorf("expected n1 from North Bakery on top, got %+v", top)
	}

	var bakery int
	for _, h := range engine.RollupHashtags(ctx, "north", ranking.NewHashtagQuery()) {
		if h.Hashtag == "#bakery" {
			bakery = h.Posts
		}
	}
	if bakery != 2 {
		t.Errorf("#bakery should appear on 2 posts, got %d", bakery)
	}
}
