package aggregator

import (
	"slices"
	"time"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// SeriesField selects which daily counter a chart series plots.
type SeriesField int

const (
	SeriesUnknown SeriesField = iota
	SeriesFollowers
	SeriesReach
	SeriesImpressions
	SeriesEngagements
	SeriesViews
)

var seriesFieldNames = map[string]SeriesField{
	"followers":   SeriesFollowers,
	"reach":       SeriesReach,
	"impressions": SeriesImpressions,
	"engagements": SeriesEngagements,
	"views":       SeriesViews,
}

// ParseSeriesField maps a counter name to a SeriesField; unknown names map to
// SeriesUnknown.
func ParseSeriesField(name string) SeriesField {
	return seriesFieldNames[name]
}

func (f SeriesField) value(m metrics.DailyMetricEntry) int64 {
	switch f {
	case SeriesFollowers:
		return m.Followers
	case SeriesReach:
		return m.Reach
	case SeriesImpressions:
		return m.Impressions
	case SeriesEngagements:
		return m.Engagements
	case SeriesViews:
		return m.Views
	default:
		return 0
	}
}

// Dataset is one platform's values, aligned with Series.Dates.
type Dataset struct {
	Platform metrics.Platform `json:"platform"`
	Data     []int64          `json:"data"`
}

// Series is chart-ready data: sorted distinct dates and one dataset per platform.
type Series struct {
	Dates    []string  `json:"dates"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// TimeSeries builds a per-platform series of field over every date present in
// daily. Dates a platform has no entry for are filled with 0.
func TimeSeries(daily []metrics.DailyMetricEntry, field SeriesField) Series {
	series := Series{Dates: []string{}, Labels: []string{}, Datasets: []Dataset{}}
	if field == SeriesUnknown {
		return series
	}

	for _, m := range daily {
		if !slices.Contains(series.Dates, m.Date) {
			series.Dates = append(series.Dates, m.Date)
		}
	}
	slices.Sort(series.Dates)

	for _, d := range series.Dates {
		series.Labels = append(series.Labels, dayLabel(d))
	}

	for _, span := range partitionByPlatform(daily) {
		values := make(map[string]int64)
		for _, m := range daily {
			if m.Platform != span.platform {
				continue
			}
			if _, seen := values[m.Date]; !seen {
				values[m.Date] = field.value(m)
			}
		}
		data := make([]int64, len(series.Dates))
		for i, d := range series.Dates {
			data[i] = values[d]
		}
		series.Datasets = append(series.Datasets, Dataset{Platform: span.platform, Data: data})
	}

	return series
}

// dayLabel renders an ISO date as "2 Jan"; unparseable dates are returned as-is.
func dayLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("2 Jan")
}
