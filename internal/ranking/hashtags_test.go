package ranking

import (
	"testing"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

func TestRollupHashtags_SinglePostCreditsEveryTag(t *testing.T) {
	posts := []metrics.PostMetric{{
		ID:          "p1",
		Hashtags:    []string{"a", "b"},
		Likes:       10,
		Comments:    2,
		Impressions: 100,
	}}

	rollups := RollupHashtags(posts, NewHashtagQuery())

	if len(rollups) != 2 {
		t.Fatalf("expected 2 hashtags, got %d", len(rollups))
	}
	for _, r := range rollups {
		if r.Posts != 1 || r.Likes != 10 || r.Comments != 2 || r.Views != 100 {
			t.Errorf("%s: expected posts=1 likes=10 comments=2 views=100, got %+v", r.Hashtag, r)
		}
	}
}

func TestRollupHashtags_VideoViewsPreferredOverImpressions(t *testing.T) {
	posts := []metrics.PostMetric{
		{Hashtags: []string{"#gym"}, VideoViews: 1500, Impressions: 1800, Likes: 1},
		{Hashtags: []string{"#gym"}, VideoViews: 0, Impressions: 700, Likes: 1},
	}

	rollups := RollupHashtags(posts, NewHashtagQuery())

	if rollups[0].Views != 2200 {
		t.Errorf("expected 1500 + 700 views, got %d", rollups[0].Views)
	}
	if rollups[0].Posts != 2 {
		t.Errorf("expected 2 posts, got %d", rollups[0].Posts)
	}
}

func TestRollupHashtags_SortsByRequestedFieldAndLimits(t *testing.T) {
	posts := []metrics.PostMetric{
		{Hashtags: []string{"few-views", "many-likes"}, Impressions: 10, Likes: 100},
		{Hashtags: []string{"many-views"}, Impressions: 1000, Likes: 1},
		{Hashtags: []string{"many-likes"}, Impressions: 5, Likes: 100, Comments: 7},
	}

	byViews := RollupHashtags(posts, NewHashtagQuery())
	if byViews[0].Hashtag != "many-views" {
		t.Errorf("expected many-views first by views, got %s", byViews[0].Hashtag)
	}

	byLikes := RollupHashtags(posts, HashtagQuery{SortKey: ParseHashtagSortKey("likes"), Limit: 1})
	if len(byLikes) != 1 || byLikes[0].Hashtag != "many-likes" || byLikes[0].Likes != 200 {
		t.Errorf("expected many-likes with 200 likes, got %+v", byLikes)
	}

	byPosts := RollupHashtags(posts, HashtagQuery{SortKey: ParseHashtagSortKey("posts")})
	if byPosts[0].Hashtag != "many-likes" || byPosts[0].Posts != 2 {
		t.Errorf("expected many-likes with 2 posts first, got %+v", byPosts[0])
	}

	unsorted := RollupHashtags(posts, HashtagQuery{SortKey: ParseHashtagSortKey("nonsense")})
	if unsorted[0].Hashtag != "few-views" {
		t.Errorf("unknown field keeps first-appearance order, got %s first", unsorted[0].Hashtag)
	}
}

func TestRollupHashtags_DefaultLimitIsTwenty(t *testing.T) {
	var tags []string
	for i := 0; i < 30; i++ {
		tags = append(tags, string(rune('A'+i)))
	}
	posts := []metrics.PostMetric{{Hashtags: tags, Impressions: 1}}

	if got := len(RollupHashtags(posts, NewHashtagQuery())); got != DefaultHashtagLimit {
		t.Errorf("expected %d hashtags, got %d", DefaultHashtagLimit, got)
	}
}

func TestRollupHashtags_FiltersPlatform(t *testing.T) {
	posts := []metrics.PostMetric{
		{Platform: metrics.PlatformTikTok, Hashtags: []string{"#gymtok"}},
		{Platform: metrics.PlatformInstagram, Hashtags: []string{"#gym"}},
	}

	q := NewHashtagQuery()
	q.Platform = metrics.PlatformTikTok
	rollups := RollupHashtags(posts, q)

	if len(rollups) != 1 || rollups[0].Hashtag != "#gymtok" {
		t.Errorf("expected only tiktok tags, got %+v", rollups)
	}
}

func TestRollupHashtags_NoPosts(t *testing.T) {
	if got := RollupHashtags(nil, NewHashtagQuery()); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestRollupHashtags_ZeroQueryUsesViewsAndDefaultLimit(t *testing.T) {
	var posts []metrics.PostMetric
	for i := 1; i <= 25; i++ {
		posts = append(posts, metrics.PostMetric{
			Platform:    metrics.PlatformInstagram,
			Hashtags:    []string{string(rune('a' + i - 1))},
			Impressions: int64(i),
		})
	}

	rollups := RollupHashtags(posts, HashtagQuery{Platform: metrics.PlatformInstagram})

	if len(rollups) != DefaultHashtagLimit {
		t.Fatalf("expected %d hashtags, got %d", DefaultHashtagLimit, len(rollups))
	}
	if rollups[0].Views != 25 || rollups[len(rollups)-1].Views != 6 {
		t.Errorf("expected views 25 down to 6, got %d to %d", rollups[0].Views, rollups[len(rollups)-1].Views)
	}
}

func TestRollupHashtags_NegativeLimitKeepsAll(t *testing.T) {
	var tags []string
	for i := 0; i < 30; i++ {
		tags = append(tags, string(rune('A'+i)))
	}
	posts := []metrics.PostMetric{{Hashtags: tags}}

	if got := len(RollupHashtags(posts, HashtagQuery{Limit: -1})); got != 30 {
		t.Errorf("expected all 30 hashtags, got %d", got)
	}
}
