// Package csvimport classifies uploaded analytics exports.
//
// This package enables socialife to:
// - Guess which platform a CSV export came from by its column headers
// - Guess whether it holds daily metrics, posts or demographics
// - Parse an upload into a preview with row counts and warnings
//
// Classification is best-effort: anything unrecognised is reported as
// Unknown, never as an error.
package csvimport

import (
	"slices"
	"strings"
)

// Platform is the detected source network of an export.
type Platform string

const (
	PlatformUnknown   Platform = "unknown"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
)

// DataType is the detected content of an export.
type DataType string

const (
	DataTypeUnknown      DataType = "unknown"
	DataTypeDailyMetrics DataType = "daily_metrics"
	DataTypePosts        DataType = "posts"
	DataTypeDemographics DataType = "demographics"
)

// Label returns a readable form such as "daily metrics".
func (d DataType) Label() string {
	return strings.ReplaceAll(string(d), "_", " ")
}

// headerSet is a list of lowercased, trimmed column names.
type headerSet []string

func normalize(headers []string) headerSet {
	h := make(headerSet, len(headers))
	for i, col := range headers {
		h[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return h
}

// has reports an exact column name.
func (h headerSet) has(name string) bool {
	return slices.Contains(h, name)
}

// mentions reports a column whose name contains fragment.
func (h headerSet) mentions(fragment string) bool {
	return slices.ContainsFunc(h, func(col string) bool {
		return strings.Contains(col, fragment)
	})
}

type rule[T any] struct {
	label T
	match func(h headerSet) bool
}

// platformRules are evaluated in order; the first match wins.
var platformRules = []rule[Platform]{
	{PlatformInstagram, func(h headerSet) bool {
		return h.mentions("instagram") ||
			(h.has("impressions") && h.has("reach") && h.mentions("save"))
	}},
	{PlatformFacebook, func(h headerSet) bool {
		return h.mentions("facebook") || h.mentions("page") ||
			(h.has("reactions") && h.has("reach"))
	}},
	{PlatformTikTok, func(h headerSet) bool {
		return h.mentions("tiktok") || h.mentions("video views") ||
			(h.mentions("views") && h.mentions("shares"))
	}},
	{PlatformLinkedIn, func(h headerSet) bool {
		return h.mentions("linkedin") ||
			(h.mentions("clicks") && h.mentions("impressions") && h.mentions("engagement rate"))
	}},
}

// dataTypeRules are evaluated in order; the first match wins.
var dataTypeRules = []rule[DataType]{
	{DataTypeDailyMetrics, func(h headerSet) bool { return h.has("date") && h.has("followers") }},
	{DataTypePosts, func(h headerSet) bool { return h.mentions("caption") || h.mentions("post") }},
	{DataTypeDemographics, func(h headerSet) bool { return h.mentions("age") || h.mentions("gender") }},
}

func firstMatch[T any](rules []rule[T], h headerSet, fallback T) T {
	for _, r := range rules {
		if r.match(h) {
			return r.label
		}
	}
	return fallback
}

// DetectPlatform guesses the source network from column headers.
func DetectPlatform(headers []string) Platform {
	return firstMatch(platformRules, normalize(headers), PlatformUnknown)
}

// DetectDataType guesses what kind of rows the export holds.
func DetectDataType(headers []string) DataType {
	return firstMatch(dataTypeRules, normalize(headers), DataTypeUnknown)
}
