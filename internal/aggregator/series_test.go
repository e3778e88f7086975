package aggregator

import (
	"testing"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

func TestTimeSeries_AlignsPlatformsOnSortedDates(t *testing.T) {
	daily := []metrics.DailyMetricEntry{
		day(metrics.PlatformInstagram, "2026-01-02", 110, 0, 0),
		day(metrics.PlatformInstagram, "2026-01-03", 120, 0, 0),
		day(metrics.PlatformFacebook, "2026-01-01", 50, 0, 0),
		day(metrics.PlatformFacebook, "2026-01-03", 55, 0, 0),
	}

	s := TimeSeries(daily, ParseSeriesField("followers"))

	wantDates := []string{"2026-01-01", "2026-01-02", "2026-01-03"}
	if len(s.Dates) != len(wantDates) {
		t.Fatalf("expected %d dates, got %v", len(wantDates), s.Dates)
	}
	for i, d := range wantDates {
		if s.Dates[i] != d {
			t.Errorf("date %d: want %s, got %s", i, d, s.Dates[i])
		}
	}
	if s.Labels[0] != "1 Jan" {
		t.Errorf("expected label '1 Jan', got %q", s.Labels[0])
	}

	if len(s.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(s.Datasets))
	}
	ig := s.Datasets[0]
	if ig.Platform != metrics.PlatformInstagram || ig.Data[0] != 0 || ig.Data[1] != 110 || ig.Data[2] != 120 {
		t.Errorf("instagram series should be zero-filled, got %+v", ig)
	}
	fb := s.Datasets[1]
	if fb.Data[0] != 50 || fb.Data[1] != 0 || fb.Data[2] != 55 {
		t.Errorf("facebook series should be zero-filled, got %+v", fb)
	}
}

func TestTimeSeries_UnknownFieldIsEmpty(t *testing.T) {
	s := TimeSeries([]metrics.DailyMetricEntry{day(metrics.PlatformInstagram, "2026-01-01", 1, 1, 1)}, ParseSeriesField("likes"))

	if len(s.Dates) != 0 || len(s.Datasets) != 0 {
		t.Errorf("unknown field should give an empty series, got %+v", s)
	}
}

func TestParseSeriesField(t *testing.T) {
	tests := map[string]SeriesField{
		"followers":   SeriesFollowers,
		"reach":       SeriesReach,
		"impressions": SeriesImpressions,
		"engagements": SeriesEngagements,
		"views":       SeriesViews,
		"Followers":   SeriesUnknown,
		"":            SeriesUnknown,
	}
	for name, want := range tests {
		if got := ParseSeriesField(name); got != want {
			t.Errorf("ParseSeriesField(%q) = %v, want %v", name, got, want)
		}
	}
}
