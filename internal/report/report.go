// Package report assembles the slide-by-slide outline of a client report.
//
// This package enables socialife to:
// - Collect the KPIs, follower growth, ranked posts, demographics and hashtags of one client
// - Paginate the post ranking across slides
// - Export the outline as YAML or JSON for a slide renderer
//
// Layout and rendering belong to whatever consumes the Deck.
package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gauthierbraillon/socialife/internal/aggregator"
	"github.com/gauthierbraillon/socialife/internal/metrics"
	"github.com/gauthierbraillon/socialife/internal/ranking"
)

const (
	// PostsPerSlide is how many ranked posts fit on one slide.
	PostsPerSlide = 10
	// HashtagsPerSlide caps the hashtag table.
	HashtagsPerSlide = 15
	// LocationsPerSlide caps the country and city lists.
	LocationsPerSlide = 8
)

var (
	// ErrClientNotFound is returned when the client is not in the client list.
	ErrClientNotFound = errors.New("client not found")
	// ErrNoSummary is returned when the client's metrics could not be loaded.
	ErrNoSummary = errors.New("could not load client summary data")
)

// Directory is the part of the client repository a report reads.
type Directory interface {
	Client(ctx context.Context, id string) (metrics.ClientRecord, bool)
	ClientDetail(ctx context.Context, id string) (*metrics.ClientDetail, bool)
}

// SlideKind identifies what a slide shows.
type SlideKind string

const (
	SlideTitle        SlideKind = "title"
	SlideKPIs         SlideKind = "kpis"
	SlideFollowers    SlideKind = "followers"
	SlidePosts        SlideKind = "posts"
	SlideDemographics SlideKind = "demographics"
	SlideHashtags     SlideKind = "hashtags"
	SlideEnd          SlideKind = "end"
)

// KPI is one card on the summary slide. Change is nil for values that have
// no comparison period.
type KPI struct {
	Label  string   `json:"label" yaml:"label"`
	Value  float64  `json:"value" yaml:"value"`
	Change *float64 `json:"change,omitempty" yaml:"change,omitempty"`
}

// PostRow is one line of a post ranking table.
type PostRow struct {
	Rank           int     `json:"rank" yaml:"rank"`
	ID             string  `json:"id" yaml:"id"`
	Platform       string  `json:"platform" yaml:"platform"`
	Type           string  `json:"type" yaml:"type"`
	PublishedAt    string  `json:"publishedAt" yaml:"published_at"`
	Caption        string  `json:"caption" yaml:"caption"`
	Reach          int64   `json:"reach" yaml:"reach"`
	Likes          int64   `json:"likes" yaml:"likes"`
	Comments       int64   `json:"comments" yaml:"comments"`
	EngagementRate float64 `json:"engagementRate" yaml:"engagement_rate"`
}

// Slide is one page of the deck. Only the fields for its Kind are set.
type Slide struct {
	Kind     SlideKind `json:"kind" yaml:"kind"`
	Heading  string    `json:"heading" yaml:"heading"`
	Subtitle string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	Platforms    []string                   `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	KPIs         []KPI                      `json:"kpis,omitempty" yaml:"kpis,omitempty"`
	Growth       []aggregator.PlatformDelta `json:"growth,omitempty" yaml:"growth,omitempty"`
	Posts        []PostRow                  `json:"posts,omitempty" yaml:"posts,omitempty"`
	Page         int                        `json:"page,omitempty" yaml:"page,omitempty"`
	Pages        int                        `json:"pages,omitempty" yaml:"pages,omitempty"`
	Demographics *metrics.Demographics      `json:"demographics,omitempty" yaml:"demographics,omitempty"`
	Hashtags     []metrics.HashtagRollup    `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
}

// Deck is the full report outline for one client and period.
type Deck struct {
	ClientID   string                 `json:"clientId" yaml:"client_id"`
	ClientName string                 `json:"clientName" yaml:"client_name"`
	Period     string                 `json:"period" yaml:"period"`
	Summary    *metrics.ClientSummary `json:"summary" yaml:"summary"`
	Slides     []Slide                `json:"slides" yaml:"slides"`
}

// Title is the document title a renderer should use.
func (d *Deck) Title() string {
	return fmt.Sprintf("%s - Social Media Report - %s", d.ClientName, d.Period)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName is the suggested name of the rendered presentation.
func (d *Deck) FileName() string {
	name := nonAlphanumeric.ReplaceAllString(d.ClientName, "_")
	period := strings.Replace(d.Period, " ", "_", 1)
	return name + "_Report_" + period + ".pptx"
}

// Builder assembles decks from a client directory.
type Builder struct {
	dir Directory
}

// NewBuilder creates a Builder reading from dir.
func NewBuilder(dir Directory) *Builder {
	return &Builder{dir: dir}
}

// Build assembles the report for one client: title, KPIs, follower growth,
// post ranking by reach, demographics when present, hashtags when any, and
// a closing slide.
func (b *Builder) Build(ctx context.Context, clientID, period string) (*Deck, error) {
	client, ok := b.dir.Client(ctx, clientID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}
	detail, ok := b.dir.ClientDetail(ctx, clientID)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoSummary, clientID)
	}

	summary := aggregator.Summarize(detail)
	deck := &Deck{
		ClientID:   client.ID,
		ClientName: client.Name,
		Period:     period,
		Summary:    summary,
	}

	deck.Slides = append(deck.Slides,
		titleSlide(client.Name, period, summary.Platforms),
		kpiSlide(summary),
		Slide{
			Kind:    SlideFollowers,
			Heading: "Follower Growth",
			Growth:  aggregator.PlatformGrowth(detail.Metrics.Daily),
		},
	)

	posts := ranking.RankPosts(detail.Metrics.Posts, ranking.PostQuery{SortKey: ranking.SortReach})
	deck.Slides = append(deck.Slides, postSlides(posts)...)

	if demo := detail.Metrics.Demographics; demo != nil {
		deck.Slides = append(deck.Slides, demographicsSlide(demo))
	}

	hashtags := ranking.RollupHashtags(detail.Metrics.Posts, ranking.NewHashtagQuery())
	if len(hashtags) > 0 {
		if len(hashtags) > HashtagsPerSlide {
			hashtags = hashtags[:HashtagsPerSlide]
		}
		deck.Slides = append(deck.Slides, Slide{
			Kind:     SlideHashtags,
			Heading:  "Hashtag Performance",
			Hashtags: hashtags,
		})
	}

	deck.Slides = append(deck.Slides, Slide{
		Kind:     SlideEnd,
		Heading:  "Thank You",
		Subtitle: client.Name,
	})
	return deck, nil
}

func titleSlide(name, period string, platforms []metrics.Platform) Slide {
	labels := make([]string, len(platforms))
	for i, p := range platforms {
		labels[i] = p.Label()
	}
	return Slide{
		Kind:      SlideTitle,
		Heading:   name,
		Subtitle:  period,
		Platforms: labels,
	}
}

func kpiSlide(s *metrics.ClientSummary) Slide {
	change := func(v float64) *float64 { return &v }
	return Slide{
		Kind:    SlideKPIs,
		Heading: "Key Performance Indicators",
		KPIs: []KPI{
			{Label: "Followers", Value: float64(s.Followers), Change: change(s.FollowersChange)},
			{Label: "Total Reach", Value: float64(s.Reach), Change: change(s.ReachChange)},
			{Label: "Engagements", Value: float64(s.Engagements), Change: change(s.EngagementsChange)},
			{Label: "Engagement Rate", Value: s.EngagementRate},
		},
	}
}

// postSlides splits ranked posts into pages of PostsPerSlide. No posts means
// no ranking slides.
func postSlides(posts []metrics.PostMetric) []Slide {
	pages := (len(posts) + PostsPerSlide - 1) / PostsPerSlide
	slides := make([]Slide, 0, pages)
	for page := 0; page < pages; page++ {
		start := page * PostsPerSlide
		end := min(start+PostsPerSlide, len(posts))

		rows := make([]PostRow, 0, end-start)
		for i, p := range posts[start:end] {
			rows = append(rows, PostRow{
				Rank:           start + i + 1,
				ID:             p.ID,
				Platform:       p.Platform.Label(),
				Type:           string(p.Type),
				PublishedAt:    p.PublishedAt.Format("2 Jan"),
				Caption:        p.Caption,
				Reach:          p.Reach,
				Likes:          p.Likes,
				Comments:       p.Comments,
				EngagementRate: p.EngagementRate,
			})
		}
		slides = append(slides, Slide{
			Kind:    SlidePosts,
			Heading: "Top Posts by Reach",
			Posts:   rows,
			Page:    page + 1,
			Pages:   pages,
		})
	}
	return slides
}

func demographicsSlide(d *metrics.Demographics) Slide {
	trimmed := *d
	if len(trimmed.Countries) > LocationsPerSlide {
		trimmed.Countries = trimmed.Countries[:LocationsPerSlide]
	}
	if len(trimmed.Cities) > LocationsPerSlide {
		trimmed.Cities = trimmed.Cities[:LocationsPerSlide]
	}
	return Slide{
		Kind:         SlideDemographics,
		Heading:      "Audience Demographics",
		Demographics: &trimmed,
	}
}
