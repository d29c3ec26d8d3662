// Package models holds the client-side views of server objects, decoded
// from the REST API's JSON.
package models

import "time"

// File is one file record as reported by the server.
type File struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Extension  string    `json:"extension"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	SharedWith []string  `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryUsage is one category's slice of the usage summary.
type CategoryUsage struct {
	Size       int64     `json:"size"`
	LatestDate time.Time `json:"latest_date"`
}

// UsageSummary mirrors the server's usage aggregation.
type UsageSummary struct {
	Image    CategoryUsage `json:"image"`
	Document CategoryUsage `json:"document"`
	Video    CategoryUsage `json:"video"`
	Audio    CategoryUsage `json:"audio"`
	Other    CategoryUsage `json:"other"`

	Used int64 `json:"used"`
	All  int64 `json:"all"`
}
