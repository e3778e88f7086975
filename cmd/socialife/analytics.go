package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialife/internal/aggregator"
	"github.com/gauthierbraillon/socialife/internal/display"
	"github.com/gauthierbraillon/socialife/internal/metrics"
	"github.com/gauthierbraillon/socialife/internal/ranking"
	"github.com/gauthierbraillon/socialife/internal/repository"
)

// parsePlatformFlag accepts an empty value (all platforms) or a platform id.
func parsePlatformFlag(value string) (metrics.Platform, error) {
	if value == "" {
		return "", nil
	}
	p, ok := metrics.ParsePlatform(strings.ToLower(value))
	if !ok {
		return "", fmt.Errorf("invalid platform %q: must be one of instagram, facebook, tiktok, linkedin", value)
	}
	return p, nil
}

// newOverviewCmd creates the overview subcommand.
func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show fleet KPIs across active clients",
		Long:  "Show total followers, reach and engagements across all active clients, with the average change per client.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := a.aggregator()
			if err != nil {
				return err
			}

			overview := agg.Overview(cmd.Context())
			return a.render(cmd.OutOrStdout(), overview, func(f *display.TerminalFormatter) string {
				return f.FormatOverview(overview)
			})
		},
	}
}

type summaryOutput struct {
	Client  metrics.ClientRecord       `json:"client"`
	Summary *metrics.ClientSummary     `json:"summary"`
	Growth  []aggregator.PlatformDelta `json:"growth"`
}

// newSummaryCmd creates the summary subcommand.
func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <id>",
		Short: "Show one client's KPIs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}

			id := args[0]
			client, ok := repo.Client(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("client %q not found", id)
			}
			detail, ok := repo.ClientDetail(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("no metrics available for client %q", id)
			}

			out := summaryOutput{
				Client:  client,
				Summary: aggregator.Summarize(detail),
				Growth:  aggregator.PlatformGrowth(detail.Metrics.Daily),
			}
			return a.render(cmd.OutOrStdout(), out, func(f *display.TerminalFormatter) string {
				return f.FormatSummary(out.Client, out.Summary, out.Growth)
			})
		},
	}
}

// newSeriesCmd creates the series subcommand.
func newSeriesCmd(a *app) *cobra.Command {
	var field, platform, from, to string

	cmd := &cobra.Command{
		Use:   "series <id>",
		Short: "Show a daily metric per platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesField := aggregator.ParseSeriesField(field)
			if seriesField == aggregator.SeriesUnknown {
				return fmt.Errorf("invalid field %q: must be one of followers, reach, impressions, engagements, views", field)
			}
			p, err := parsePlatformFlag(platform)
			if err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			daily := repo.DailyMetrics(cmd.Context(), args[0], repository.DailyFilter{
				Platform:  p,
				StartDate: from,
				EndDate:   to,
			})

			series := aggregator.TimeSeries(daily, seriesField)
			return a.render(cmd.OutOrStdout(), series, func(f *display.TerminalFormatter) string {
				return f.FormatSeries(series)
			})
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "followers", "Metric: followers, reach, impressions, engagements, views")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Only this platform")
	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD, inclusive)")

	return cmd
}

// newPostsCmd creates the posts subcommand.
func newPostsCmd(a *app) *cobra.Command {
	var platform, sortKey string
	var limit int

	cmd := &cobra.Command{
		Use:   "posts <id>",
		Short: "Rank one client's posts",
		Long:  "Rank one client's posts. Sort keys: " + strings.Join(ranking.SortKeyNames(), ", ") + ". Unknown keys keep the stored order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlatformFlag(platform)
			if err != nil {
				return err
			}
			engine, err := a.ranking()
			if err != nil {
				return err
			}

			posts := engine.RankPosts(cmd.Context(), args[0], ranking.PostQuery{
				Platform: p,
				SortKey:  ranking.ParseSortKey(sortKey),
				Limit:    limit,
			})
			return a.render(cmd.OutOrStdout(), posts, func(f *display.TerminalFormatter) string {
				return f.FormatPosts(posts)
			})
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Only this platform")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "publishedAt", "Sort key")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of posts (0 for all)")

	return cmd
}

// newHashtagsCmd creates the hashtags subcommand.
func newHashtagsCmd(a *app) *cobra.Command {
	var platform, sortKey string
	var limit int

	cmd := &cobra.Command{
		Use:   "hashtags <id>",
		Short: "Roll up one client's hashtags",
		Long:  "Total posts, views, likes and comments per hashtag. Sort keys: views, posts, likes, comments.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlatformFlag(platform)
			if err != nil {
				return err
			}
			engine, err := a.ranking()
			if err != nil {
				return err
			}

			rollups := engine.RollupHashtags(cmd.Context(), args[0], ranking.HashtagQuery{
				Platform: p,
				SortKey:  ranking.ParseHashtagSortKey(sortKey),
				Limit:    limit,
			})
			return a.render(cmd.OutOrStdout(), rollups, func(f *display.TerminalFormatter) string {
				return f.FormatHashtags(rollups)
			})
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Only this platform")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "views", "Sort key")
	cmd.Flags().IntVarP(&limit, "limit", "l", ranking.DefaultHashtagLimit, "Maximum number of hashtags (-1 for all)")

	return cmd
}

// newTopCmd creates the top subcommand.
func newTopCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest-engagement posts across active clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.ranking()
			if err != nil {
				return err
			}

			top := engine.TopContent(cmd.Context(), limit)
			return a.render(cmd.OutOrStdout(), top, func(f *display.TerminalFormatter) string {
				return f.FormatTopContent(top)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 4, "Number of posts")

	return cmd
}
