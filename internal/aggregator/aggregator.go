package aggregator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

const defaultConcurrency = 4

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many client bundles are fetched at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// Aggregator computes summaries on demand from a client source. Nothing is
// cached here; caching belongs to the source.
type Aggregator struct {
	source      ClientSource
	concurrency int
}

// New creates an Aggregator over source.
func New(source ClientSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ClientSummary summarises one client. It reports false when the client has
// no detail bundle.
func (a *Aggregator) ClientSummary(ctx context.Context, id string) (*metrics.ClientSummary, bool) {
	detail, ok := a.source.ClientDetail(ctx, id)
	if !ok {
		return nil, false
	}
	return Summarize(detail), true
}

// Overview rolls up every active client. Clients without data still count
// towards ClientCount, so they pull the averaged changes towards zero.
func (a *Aggregator) Overview(ctx context.Context) Overview {
	active := a.source.ActiveClients(ctx)
	summaries := a.summarizeAll(ctx, active)

	overview := Overview{
		ClientCount: len(active),
		Clients:     make([]ClientOverview, 0, len(active)),
	}

	var followersChangeSum, reachChangeSum, engChangeSum float64
	for i, c := range active {
		s := summaries[i]
		if s == nil {
			continue
		}
		overview.TotalFollowers += s.Followers
		overview.TotalReach += s.Reach
		overview.TotalEngagements += s.Engagements
		overview.TotalViews += s.Views
		followersChangeSum += s.FollowersChange
		reachChangeSum += s.ReachChange
		engChangeSum += s.EngagementsChange
		overview.Clients = append(overview.Clients, ClientOverview{Client: c, Summary: *s})
	}

	overview.AvgEngagementRate = metrics.Percent(overview.TotalEngagements, overview.TotalReach)
	if n := float64(overview.ClientCount); n > 0 {
		overview.FollowersChange = followersChangeSum / n
		overview.ReachChange = reachChangeSum / n
		overview.EngagementsChange = engChangeSum / n
	}

	return overview
}

// summarizeAll fetches bundles concurrently and returns summaries aligned
// with clients; absent bundles leave a nil slot.
func (a *Aggregator) summarizeAll(ctx context.Context, clients []metrics.ClientRecord) []*metrics.ClientSummary {
	summaries := make([]*metrics.ClientSummary, len(clients))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, c := range clients {
		i, c := i, c
		g.Go(func() error {
			if detail, ok := a.source.ClientDetail(ctx, c.ID); ok {
				summaries[i] = Summarize(detail)
			}
			return nil
		})
	}
	_ = g.Wait()

	return summaries
}
