// Package metrics defines the client and metrics records shared by every
// socialife component.
//
// This package enables socialife to:
// - Describe agency clients and their connected platforms
// - Carry per-platform daily metrics and post-level metrics
// - Expose derived summaries and hashtag rollups to renderers
package metrics

import "time"

// Platform identifies a supported social network.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms lists the supported networks in display order.
var Platforms = []Platform{PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformLinkedIn}

// Label returns the human-readable platform name.
func (p Platform) Label() string {
	switch p {
	case PlatformInstagram:
		return "Instagram"
	case PlatformFacebook:
		return "Facebook"
	case PlatformTikTok:
		return "TikTok"
	case PlatformLinkedIn:
		return "LinkedIn"
	default:
		return string(p)
	}
}

// ParsePlatform maps a platform identifier to a Platform.
func ParsePlatform(s string) (Platform, bool) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Status is a client's lifecycle state. The only transition is active → archived.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ContentType identifies the kind of published post.
type ContentType string

const (
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentReel     ContentType = "reel"
	ContentCarousel ContentType = "carousel"
	ContentStory    ContentType = "story"
	ContentText     ContentType = "text"
)

// ClientRecord is the lightweight index entry for a client.
type ClientRecord struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Industry      string     `json:"industry"`
	Status        Status     `json:"status"`
	Platforms     []Platform `json:"platforms"`
	PrimaryColour string     `json:"primaryColour,omitempty"`
}

// Active reports whether the client has not been archived.
func (c ClientRecord) Active() bool {
	return c.Status == StatusActive
}

// DailyMetricEntry is one calendar-day snapshot for one client and platform.
// Followers is cumulative; the other counters are totals for that day.
type DailyMetricEntry struct {
	Platform    Platform `json:"platform"`
	Date        string   `json:"date"`
	Followers   int64    `json:"followers"`
	Reach       int64    `json:"reach"`
	Impressions int64    `json:"impressions"`
	Engagements int64    `json:"engagements"`
	Views       int64    `json:"views"`
}

// PostMetric holds the performance of one published content item.
type PostMetric struct {
	ID             string      `json:"id"`
	Platform       Platform    `json:"platform"`
	PublishedAt    time.Time   `json:"publishedAt"`
	Type           ContentType `json:"contentType"`
	Caption        string      `json:"caption"`
	Reach          int64       `json:"reach"`
	Impressions    int64       `json:"impressions"`
	Likes          int64       `json:"likes"`
	Comments       int64       `json:"comments"`
	Shares         int64       `json:"shares"`
	Saves          int64       `json:"saves"`
	VideoViews     int64       `json:"videoViews,omitempty"` // zero means the post has no video views
	EngagementRate float64     `json:"engagementRate"`
	Hashtags       []string    `json:"hashtags"`
}

// Share is one labelled percentage in a demographic breakdown.
type Share struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Demographics describes a client's audience.
type Demographics struct {
	Gender    []Share `json:"gender" yaml:"gender"`
	Age       []Share `json:"age" yaml:"age"`
	Countries []Share `json:"countries" yaml:"countries"`
	Cities    []Share `json:"cities" yaml:"cities"`
}

// Metrics is the raw metrics payload of a client detail bundle.
type Metrics struct {
	Daily        []DailyMetricEntry `json:"daily"`
	Posts        []PostMetric       `json:"posts"`
	Demographics *Demographics      `json:"demographics,omitempty"`
}

// ImportRecord notes a past CSV import into a client bundle.
type ImportRecord struct {
	Date     string   `json:"date"`
	Filename string   `json:"filename"`
	Platform Platform `json:"platform"`
	Records  int      `json:"records"`
}

// ClientDetail is the full per-client bundle.
type ClientDetail struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Industry  string         `json:"industry"`
	Status    Status         `json:"status"`
	Metrics   Metrics        `json:"metrics"`
	Imports   []ImportRecord `json:"imports,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// ClientSummary is the set of KPIs derived from one client's detail bundle.
// Change fields are percentages.
type ClientSummary struct {
	Followers         int64      `json:"followers" yaml:"followers"`
	FollowersChange   float64    `json:"followersChange" yaml:"followers_change"`
	Reach             int64      `json:"reach" yaml:"reach"`
	ReachChange       float64    `json:"reachChange" yaml:"reach_change"`
	Impressions       int64      `json:"impressions" yaml:"impressions"`
	Engagements       int64      `json:"engagements" yaml:"engagements"`
	EngagementsChange float64    `json:"engagementsChange" yaml:"engagements_change"`
	Views             int64      `json:"views" yaml:"views"`
	EngagementRate    float64    `json:"engagementRate" yaml:"engagement_rate"`
	Platforms         []Platform `json:"platforms" yaml:"platforms"`
	PostsCount        int        `json:"postsCount" yaml:"posts_count"`
}

// HashtagRollup totals the posts that carry one hashtag.
type HashtagRollup struct {
	Hashtag  string `json:"hashtag" yaml:"hashtag"`
	Posts    int    `json:"posts" yaml:"posts"`
	Views    int64  `json:"views" yaml:"views"`
	Likes    int64  `json:"likes" yaml:"likes"`
	Comments int64  `json:"comments" yaml:"comments"`
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Change returns the percentage change from start to current, or 0 when
// start is not positive.
func Change(start, current int64) float64 {
	if start <= 0 {
		return 0
	}
	return float64(current-start) / float64(start) * 100
}
