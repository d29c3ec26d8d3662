package models

import "time"

// CategoryUsage is one category's slice of the usage summary.
type CategoryUsage struct {
	Size       int64     `json:"size"`
	LatestDate time.Time `json:"latest_date"`
}

// UsageSummary is a derived, non-persisted aggregate over a user's files,
// keyed by the five file categories. Used always equals the sum of the
// per-category sizes; All is the configured capacity.
type UsageSummary struct {
	Image    CategoryUsage `json:"image"`
	Document CategoryUsage `json:"document"`
	Video    CategoryUsage `json:"video"`
	Audio    CategoryUsage `json:"audio"`
	Other    CategoryUsage `json:"other"`

	Used int64 `json:"used"`
	All  int64 `json:"all"`
}

// Category returns a pointer to the bucket for the given category name,
// or nil when the name is not one of the five categories.
func (s *UsageSummary) Category(name string) *CategoryUsage {
	switch name {
	case "image":
		return &s.Image
	case "document":
		return &s.Document
	case "video":
		return &s.Video
	case "audio":
		return &s.Audio
	case "other":
		return &s.Other
	}
	return nil
}
