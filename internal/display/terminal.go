// Package display provides terminal output formatting for socialife.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/gauthierbraillon/socialife/internal/aggregator"
	"github.com/gauthierbraillon/socialife/internal/csvimport"
	"github.com/gauthierbraillon/socialife/internal/metrics"
	"github.com/gauthierbraillon/socialife/internal/ranking"
)

const (
	separator  = " • "
	captionLen = 48
)

// TerminalFormatter formats analytics results for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatNumber groups thousands: 12345 -> "12,345".
func (f *TerminalFormatter) FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatShort abbreviates large numbers: 156000 -> "156K", 1200000 -> "1.2M".
func (f *TerminalFormatter) FormatShort(n int64) string {
	switch {
	case n >= 1_000_000:
		return humanize.FtoaWithDigits(float64(n)/1_000_000, 1) + "M"
	case n >= 1_000:
		return humanize.FtoaWithDigits(float64(n)/1_000, 1) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatPercent renders a percentage with one decimal; positive values get a
// leading "+".
func (f *TerminalFormatter) FormatPercent(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, v)
}

// FormatChange is FormatPercent coloured green for growth and red for decline.
func (f *TerminalFormatter) FormatChange(v float64) string {
	if v >= 0 {
		return UpStyle.Render("▲ " + f.FormatPercent(v))
	}
	return DownStyle.Render("▼ " + f.FormatPercent(v))
}

func (f *TerminalFormatter) card(label, value, change string) string {
	lines := []string{LabelStyle.Render(label), ValueStyle.Render(value)}
	if change != "" {
		lines = append(lines, change)
	}
	return CardStyle.Render(strings.Join(lines, "\n"))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(DimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// FormatOverview renders the fleet KPI cards followed by one row per client.
func (f *TerminalFormatter) FormatOverview(o aggregator.Overview) string {
	if o.ClientCount == 0 {
		return "No active clients to display.\n"
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		f.card("Total Followers", f.FormatNumber(o.TotalFollowers), f.FormatChange(o.FollowersChange)),
		f.card("Total Reach", f.FormatShort(o.TotalReach), f.FormatChange(o.ReachChange)),
		f.card("Engagements", f.FormatNumber(o.TotalEngagements), f.FormatChange(o.EngagementsChange)),
		f.card("Avg. Engagement Rate", f.FormatPercent(o.AvgEngagementRate), ""),
	)

	t := newTable("Client", "Followers", "Change", "Reach", "Engagement Rate", "Platforms")
	for _, c := range o.Clients {
		t.Row(
			c.Client.Name,
			f.FormatNumber(c.Summary.Followers),
			f.FormatChange(c.Summary.FollowersChange),
			f.FormatShort(c.Summary.Reach),
			f.FormatPercent(c.Summary.EngagementRate),
			platformLabels(c.Summary.Platforms),
		)
	}

	title := TitleStyle.Render(fmt.Sprintf("Agency overview (%d active clients)", o.ClientCount))
	return title + "\n" + cards + "\n" + t.String() + "\n"
}

// FormatClients renders the client list.
func (f *TerminalFormatter) FormatClients(clients []metrics.ClientRecord) string {
	if len(clients) == 0 {
		return "No clients to display.\n"
	}

	t := newTable("ID", "Name", "Industry", "Status", "Platforms")
	for _, c := range clients {
		status := string(c.Status)
		if !c.Active() {
			status = DimStyle.Render(status)
		}
		t.Row(c.ID, c.Name, c.Industry, status, platformLabels(c.Platforms))
	}
	return t.String() + "\n"
}

// FormatSummary renders one client's KPIs and per-platform follower growth.
func (f *TerminalFormatter) FormatSummary(c metrics.ClientRecord, s *metrics.ClientSummary, growth []aggregator.PlatformDelta) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(c.Name))
	if c.Industry != "" {
		b.WriteString(DimStyle.Render(separator + c.Industry))
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		f.card("Followers", f.FormatNumber(s.Followers), f.FormatChange(s.FollowersChange)),
		f.card("Total Reach", f.FormatShort(s.Reach), f.FormatChange(s.ReachChange)),
		f.card("Engagements", f.FormatNumber(s.Engagements), f.FormatChange(s.EngagementsChange)),
		f.card("Engagement Rate", f.FormatPercent(s.EngagementRate), ""),
	))
	b.WriteString("\n")

	meta := []string{
		fmt.Sprintf("%s impressions", f.FormatShort(s.Impressions)),
		fmt.Sprintf("%s views", f.FormatShort(s.Views)),
		fmt.Sprintf("%d posts", s.PostsCount),
	}
	b.WriteString("  " + strings.Join(meta, separator) + "\n")

	if len(growth) > 0 {
		t := newTable("Platform", "Start", "Current", "Gained", "Change")
		for _, g := range growth {
			t.Row(
				g.Platform.Label(),
				f.FormatNumber(g.Start),
				f.FormatNumber(g.Current),
				fmt.Sprintf("%+d", g.Gained),
				f.FormatChange(g.Change),
			)
		}
		b.WriteString(t.String() + "\n")
	}
	return b.String()
}

// FormatPosts renders a ranked post table.
func (f *TerminalFormatter) FormatPosts(posts []metrics.PostMetric) string {
	if len(posts) == 0 {
		return "No posts to display.\n"
	}

	t := newTable("#", "Date", "Platform", "Type", "Caption", "Reach", "Views", "Likes", "Comments", "Eng. Rate")
	for i, p := range posts {
		t.Row(
			strconv.Itoa(i+1),
			p.PublishedAt.Format("2 Jan 2006"),
			p.Platform.Label(),
			string(p.Type),
			f.TruncateText(p.Caption, captionLen),
			f.FormatShort(p.Reach),
			f.FormatShort(ranking.ViewCount(p)),
			f.FormatNumber(p.Likes),
			f.FormatNumber(p.Comments),
			f.FormatPercent(p.EngagementRate),
		)
	}
	return t.String() + "\n"
}

// FormatTopContent renders the cross-client leaderboard.
func (f *TerminalFormatter) FormatTopContent(posts []ranking.RankedPost) string {
	if len(posts) == 0 {
		return "No posts to display.\n"
	}

	t := newTable("#", "Client", "Platform", "Caption", "Reach", "Eng. Rate")
	for i, p := range posts {
		t.Row(
			strconv.Itoa(i+1),
			p.ClientName,
			p.Platform.Label(),
			f.TruncateText(p.Caption, captionLen),
			f.FormatShort(p.Reach),
			f.FormatPercent(p.EngagementRate),
		)
	}
	return t.String() + "\n"
}

// FormatHashtags renders a hashtag rollup table.
func (f *TerminalFormatter) FormatHashtags(rollups []metrics.HashtagRollup) string {
	if len(rollups) == 0 {
		return "No hashtags to display.\n"
	}

	t := newTable("Hashtag", "Posts", "Views", "Likes", "Comments")
	for _, h := range rollups {
		t.Row(
			h.Hashtag,
			strconv.Itoa(h.Posts),
			f.FormatShort(h.Views),
			f.FormatNumber(h.Likes),
			f.FormatNumber(h.Comments),
		)
	}
	return t.String() + "\n"
}

// FormatSeries renders a chart series as a table with one row per date and
// one column per platform.
func (f *TerminalFormatter) FormatSeries(s aggregator.Series) string {
	if len(s.Dates) == 0 {
		return "No daily metrics to display.\n"
	}

	headers := []string{"Date"}
	for _, d := range s.Datasets {
		headers = append(headers, d.Platform.Label())
	}
	t := newTable(headers...)
	for i, label := range s.Labels {
		row := []string{label}
		for _, d := range s.Datasets {
			row = append(row, f.FormatNumber(d.Data[i]))
		}
		t.Row(row...)
	}
	return t.String() + "\n"
}

// FormatDetection renders the result of inspecting one CSV upload.
func (f *TerminalFormatter) FormatDetection(d *csvimport.Detection) string {
	var lines []string
	lines = append(lines, TitleStyle.Render(d.FileName)+DimStyle.Render(separator+humanize.Bytes(uint64(d.FileSize))))

	platform := string(d.Platform)
	if p, ok := metrics.ParsePlatform(platform); ok {
		platform = p.Label()
	}
	lines = append(lines, fmt.Sprintf("  platform: %s%sdata: %s%s%s rows",
		platform, separator, d.DataType.Label(), separator, humanize.Comma(int64(d.RowCount))))
	lines = append(lines, "  columns: "+strings.Join(d.Headers, ", "))

	if len(d.Preview) > 0 {
		t := newTable(d.Headers...)
		for _, row := range d.Preview {
			cells := make([]string, len(d.Headers))
			for i, h := range d.Headers {
				cells[i] = f.TruncateText(row[h], 24)
			}
			t.Row(cells...)
		}
		lines = append(lines, t.String())
	}

	for _, w := range d.Warnings {
		lines = append(lines, DownStyle.Render("  warning: "+w))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatBatch renders totals across several uploads.
func (f *TerminalFormatter) FormatBatch(b csvimport.Batch) string {
	return fmt.Sprintf("%d files%s%s rows%s%d warnings\n",
		b.Files, separator, humanize.Comma(int64(b.TotalRows)), separator, b.Warnings)
}

// FormatError renders a failure as an inline error line.
func (f *TerminalFormatter) FormatError(err error) string {
	return ErrorStyle.Render("Error: "+err.Error()) + "\n"
}

func platformLabels(platforms []metrics.Platform) string {
	labels := make([]string, len(platforms))
	for i, p := range platforms {
		labels[i] = p.Label()
	}
	return strings.Join(labels, ", ")
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
