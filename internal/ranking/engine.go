package ranking

import (
	"context"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// PostSource is the read side of the client repository.
type PostSource interface {
	ActiveClients(ctx context.Context) []metrics.ClientRecord
	ClientDetail(ctx context.Context, id string) (*metrics.ClientDetail, bool)
}

// Engine runs rankings against a client source. Clients without data
// contribute nothing.
type Engine struct {
	source PostSource
}

// NewEngine creates an Engine over source.
func NewEngine(source PostSource) *Engine {
	return &Engine{source: source}
}

// TopContent ranks the posts of every active client by engagement rate.
func (e *Engine) TopContent(ctx context.Context, limit int) []RankedPost {
	var entries []ClientPosts
	for _, c := range e.source.ActiveClients(ctx) {
		detail, ok := e.source.ClientDetail(ctx, c.ID)
		if !ok {
			continue
		}
		entries = append(entries, ClientPosts{Client: c, Posts: detail.Metrics.Posts})
	}
	return TopContent(entries, limit)
}

// RankPosts ranks one client's posts.
func (e *Engine) RankPosts(ctx context.Context, clientID string, q PostQuery) []metrics.PostMetric {
	detail, ok := e.source.ClientDetail(ctx, clientID)
	if !ok {
		return []metrics.PostMetric{}
	}
	return RankPosts(detail.Metrics.Posts, q)
}

// RollupHashtags rolls up one client's hashtags.
func (e *Engine) RollupHashtags(ctx context.Context, clientID string, q HashtagQuery) []metrics.HashtagRollup {
	detail, ok := e.source.ClientDetail(ctx, clientID)
	if !ok {
		return []metrics.HashtagRollup{}
	}
	return RollupHashtags(detail.Metrics.Posts, q)
}
