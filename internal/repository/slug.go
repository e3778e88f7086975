package repository

import (
	"regexp"
	"strings"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// Defaults applied to clients created during a session.
const (
	DefaultIndustry = "Other"
	DefaultColour   = "#066aab"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a client id from a display name: "Bella's Boutique" becomes
// "bella-s-boutique".
func Slugify(name string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// NewClientRecord builds an active client from form input, deriving the id
// from the name and filling in the default industry and colour.
func NewClientRecord(name, industry string, platforms []metrics.Platform, colour string) metrics.ClientRecord {
	name = strings.TrimSpace(name)
	if industry == "" {
		industry = DefaultIndustry
	}
	if colour == "" {
		colour = DefaultColour
	}
	if platforms == nil {
		platforms = []metrics.Platform{}
	}
	return metrics.ClientRecord{
		ID:            Slugify(name),
		Name:          name,
		Industry:      industry,
		Status:        metrics.StatusActive,
		Platforms:     platforms,
		PrimaryColour: colour,
	}
}
