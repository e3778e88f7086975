// Package ranking orders posts and rolls up hashtag performance.
//
// Every function works on a copy of its input; the loaded post lists are
// never reordered in place. All sorts are stable and descending.
package ranking

import (
	"cmp"
	"slices"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// SortKey selects the post ranking order.
type SortKey int

const (
	// SortUnsorted keeps the input order. Unrecognised key names map here.
	SortUnsorted SortKey = iota
	SortPublishedAt
	SortViews
	SortReach
	SortEngagement
	SortLikes
	SortImpressions
)

var sortKeyNames = []struct {
	name string
	key  SortKey
}{
	{"publishedAt", SortPublishedAt},
	{"views", SortViews},
	{"reach", SortReach},
	{"engagement", SortEngagement},
	{"likes", SortLikes},
	{"impressions", SortImpressions},
}

// ParseSortKey maps a key name to a SortKey. Unknown names give SortUnsorted.
func ParseSortKey(name string) SortKey {
	for _, k := range sortKeyNames {
		if k.name == name {
			return k.key
		}
	}
	return SortUnsorted
}

// SortKeyNames lists the recognised key names.
func SortKeyNames() []string {
	names := make([]string, len(sortKeyNames))
	for i, k := range sortKeyNames {
		names[i] = k.name
	}
	return names
}

func (k SortKey) String() string {
	for _, n := range sortKeyNames {
		if n.key == k {
			return n.name
		}
	}
	return "unsorted"
}

// compare orders a before b when a ranks higher. It returns nil for SortUnsorted.
func (k SortKey) compare() func(a, b metrics.PostMetric) int {
	switch k {
	case SortPublishedAt:
		return func(a, b metrics.PostMetric) int { return b.PublishedAt.Compare(a.PublishedAt) }
	case SortViews:
		return func(a, b metrics.PostMetric) int { return cmp.Compare(b.VideoViews, a.VideoViews) }
	case SortReach:
		return func(a, b metrics.PostMetric) int { return cmp.Compare(b.Reach, a.Reach) }
	case SortEngagement:
		return func(a, b metrics.PostMetric) int { return cmp.Compare(b.EngagementRate, a.EngagementRate) }
	case SortLikes:
		return func(a, b metrics.PostMetric) int { return cmp.Compare(b.Likes, a.Likes) }
	case SortImpressions:
		return func(a, b metrics.PostMetric) int { return cmp.Compare(b.Impressions, a.Impressions) }
	default:
		return nil
	}
}

// PostQuery configures RankPosts. A zero Limit means no limit and an empty
// Platform means every platform.
type PostQuery struct {
	Platform metrics.Platform
	SortKey  SortKey
	Limit    int
}

// RankPosts filters, sorts and truncates a copy of posts.
func RankPosts(posts []metrics.PostMetric, q PostQuery) []metrics.PostMetric {
	ranked := filterPlatform(posts, q.Platform)

	if compare := q.SortKey.compare(); compare != nil {
		slices.SortStableFunc(ranked, compare)
	}

	return truncate(ranked, q.Limit)
}

func filterPlatform(posts []metrics.PostMetric, platform metrics.Platform) []metrics.PostMetric {
	out := make([]metrics.PostMetric, 0, len(posts))
	for _, p := range posts {
		if platform != "" && p.Platform != platform {
			continue
		}
		out = append(out, p)
	}
	return out
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// ClientPosts is one client's post list, used to build cross-client rankings.
type ClientPosts struct {
	Client metrics.ClientRecord
	Posts  []metrics.PostMetric
}

// RankedPost is a post tagged with the client that published it.
type RankedPost struct {
	metrics.PostMetric
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
}

// TopContent concatenates every client's posts in the given order and
// returns the limit posts with the highest engagement rate. Ties keep
// concatenation order. A limit below one yields no posts.
func TopContent(entries []ClientPosts, limit int) []RankedPost {
	if limit < 1 {
		return []RankedPost{}
	}

	var all []RankedPost
	for _, e := range entries {
		for _, p := range e.Posts {
			all = append(all, RankedPost{PostMetric: p, ClientID: e.Client.ID, ClientName: e.Client.Name})
		}
	}
	if all == nil {
		return []RankedPost{}
	}

	slices.SortStableFunc(all, func(a, b RankedPost) int {
		return cmp.Compare(b.EngagementRate, a.EngagementRate)
	})

	return truncate(all, limit)
}
