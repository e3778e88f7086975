package ranking

import (
	"cmp"
	"slices"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// DefaultHashtagLimit caps hashtag rollups when no limit is given.
const DefaultHashtagLimit = 20

// HashtagSortKey selects the rollup field hashtags are ranked by. The zero
// value sorts by views.
type HashtagSortKey int

const (
	HashtagByViews HashtagSortKey = iota
	HashtagByPosts
	HashtagByLikes
	HashtagByComments
	// HashtagUnsorted keeps first-appearance order.
	HashtagUnsorted
)

// ParseHashtagSortKey maps a field name to a HashtagSortKey. An empty name
// gives the default, views; unknown names give HashtagUnsorted.
func ParseHashtagSortKey(name string) HashtagSortKey {
	switch name {
	case "", "views":
		return HashtagByViews
	case "posts":
		return HashtagByPosts
	case "likes":
		return HashtagByLikes
	case "comments":
		return HashtagByComments
	default:
		return HashtagUnsorted
	}
}

func (k HashtagSortKey) value(h metrics.HashtagRollup) int64 {
	switch k {
	case HashtagByViews:
		return h.Views
	case HashtagByPosts:
		return int64(h.Posts)
	case HashtagByLikes:
		return h.Likes
	case HashtagByComments:
		return h.Comments
	default:
		return 0
	}
}

// HashtagQuery configures RollupHashtags. The zero value ranks by views and
// keeps DefaultHashtagLimit tags; a negative Limit keeps them all.
type HashtagQuery struct {
	Platform metrics.Platform
	SortKey  HashtagSortKey
	Limit    int
}

// NewHashtagQuery returns a query sorted by views and limited to DefaultHashtagLimit.
func NewHashtagQuery() HashtagQuery {
	return HashtagQuery{SortKey: HashtagByViews, Limit: DefaultHashtagLimit}
}

// ViewCount is the view figure a post contributes to hashtag rollups: video
// views when the post has any, impressions otherwise.
func ViewCount(p metrics.PostMetric) int64 {
	if p.VideoViews > 0 {
		return p.VideoViews
	}
	return p.Impressions
}

// RollupHashtags totals posts, views, likes and comments for every hashtag on
// the (optionally platform-filtered) posts. A tag repeated on one post counts
// once per occurrence.
func RollupHashtags(posts []metrics.PostMetric, q HashtagQuery) []metrics.HashtagRollup {
	index := make(map[string]int)
	rollups := []metrics.HashtagRollup{}

	for _, p := range filterPlatform(posts, q.Platform) {
		views := ViewCount(p)
		for _, tag := range p.Hashtags {
			i, seen := index[tag]
			if !seen {
				i = len(rollups)
				index[tag] = i
				rollups = append(rollups, metrics.HashtagRollup{Hashtag: tag})
			}
			rollups[i].Posts++
			rollups[i].Views += views
			rollups[i].Likes += p.Likes
			rollups[i].Comments += p.Comments
		}
	}

	if q.SortKey != HashtagUnsorted {
		slices.SortStableFunc(rollups, func(a, b metrics.HashtagRollup) int {
			return cmp.Compare(q.SortKey.value(b), q.SortKey.value(a))
		})
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultHashtagLimit
	}
	return truncate(rollups, limit)
}
