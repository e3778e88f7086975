// Package aggregator derives client KPIs and the fleet overview from raw metrics.
//
// This package enables socialife to:
// - Summarise one client's daily series and posts into headline KPIs
// - Combine every active client's summary into a fleet overview
// - Provide per-platform follower growth and chart series for reports
package aggregator

import (
	"context"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// ClientSource is the read side of the client repository.
type ClientSource interface {
	ActiveClients(ctx context.Context) []metrics.ClientRecord
	ClientDetail(ctx context.Context, id string) (*metrics.ClientDetail, bool)
}

// ClientOverview pairs a client with its summary for table rendering.
type ClientOverview struct {
	Client  metrics.ClientRecord  `json:"client"`
	Summary metrics.ClientSummary `json:"summary"`
}

// Overview is the fleet-wide rollup of active clients. Change fields are
// unweighted means of the per-client changes.
type Overview struct {
	TotalFollowers    int64            `json:"totalFollowers"`
	FollowersChange   float64          `json:"followersChange"`
	TotalReach        int64            `json:"totalReach"`
	ReachChange       float64          `json:"reachChange"`
	TotalEngagements  int64            `json:"totalEngagements"`
	EngagementsChange float64          `json:"engagementsChange"`
	TotalViews        int64            `json:"totalViews"`
	AvgEngagementRate float64          `json:"avgEngagementRate"`
	ClientCount       int              `json:"clientCount"`
	Clients           []ClientOverview `json:"clients"`
}

// PlatformDelta is the follower movement on one platform between the first
// and last daily entry.
type PlatformDelta struct {
	Platform metrics.Platform `json:"platform" yaml:"platform"`
	Start    int64            `json:"start" yaml:"start"`
	Current  int64            `json:"current" yaml:"current"`
	Gained   int64            `json:"gained" yaml:"gained"`
	Change   float64          `json:"change" yaml:"change"`
}
