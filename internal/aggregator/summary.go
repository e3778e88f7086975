package aggregator

import "github.com/gauthierbraillon/socialife/internal/metrics"

// platformSpan holds the first and last daily entry of one platform.
type platformSpan struct {
	platform    metrics.Platform
	first, last metrics.DailyMetricEntry
}

// partitionByPlatform groups daily entries by platform in order of first
// appearance. The entries are assumed date-ordered and are not re-sorted.
func partitionByPlatform(daily []metrics.DailyMetricEntry) []platformSpan {
	index := make(map[metrics.Platform]int)
	var spans []platformSpan

	for _, m := range daily {
		i, seen := index[m.Platform]
		if !seen {
			index[m.Platform] = len(spans)
			spans = append(spans, platformSpan{platform: m.Platform, first: m, last: m})
			continue
		}
		spans[i].last = m
	}
	return spans
}

// Summarize computes a client's KPIs. It returns nil when detail is nil.
//
// Reach and engagement changes compare the second half of the daily list with
// the first half, split by row index rather than by date.
func Summarize(detail *metrics.ClientDetail) *metrics.ClientSummary {
	if detail == nil {
		return nil
	}
	daily := detail.Metrics.Daily

	spans := partitionByPlatform(daily)
	platforms := make([]metrics.Platform, 0, len(spans))
	var followers, followersStart int64
	for _, s := range spans {
		platforms = append(platforms, s.platform)
		followers += s.last.Followers
		followersStart += s.first.Followers
	}

	var reach, impressions, engagements, views int64
	for _, m := range daily {
		reach += m.Reach
		impressions += m.Impressions
		engagements += m.Engagements
		views += m.Views
	}

	mid := len(daily) / 2
	firstReach, firstEng := sumReachEngagements(daily[:mid])
	secondReach, secondEng := sumReachEngagements(daily[mid:])

	return &metrics.ClientSummary{
		Followers:         followers,
		FollowersChange:   metrics.Change(followersStart, followers),
		Reach:             reach,
		ReachChange:       metrics.Change(firstReach, secondReach),
		Impressions:       impressions,
		Engagements:       engagements,
		EngagementsChange: metrics.Change(firstEng, secondEng),
		Views:             views,
		EngagementRate:    metrics.Percent(engagements, reach),
		Platforms:         platforms,
		PostsCount:        len(detail.Metrics.Posts),
	}
}

func sumReachEngagements(daily []metrics.DailyMetricEntry) (reach, engagements int64) {
	for _, m := range daily {
		reach += m.Reach
		engagements += m.Engagements
	}
	return reach, engagements
}

// PlatformGrowth returns the follower delta of each platform in order of
// first appearance.
func PlatformGrowth(daily []metrics.DailyMetricEntry) []PlatformDelta {
	spans := partitionByPlatform(daily)
	deltas := make([]PlatformDelta, 0, len(spans))
	for _, s := range spans {
		deltas = append(deltas, PlatformDelta{
			Platform: s.platform,
			Start:    s.first.Followers,
			Current:  s.last.Followers,
			Gained:   s.last.Followers - s.first.Followers,
			Change:   metrics.Change(s.first.Followers, s.last.Followers),
		})
	}
	return deltas
}
