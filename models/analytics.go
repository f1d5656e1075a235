package models

import "time"

// Aggregate views computed on read from a link's click history. None of
// these are persisted.

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// RecentClick exposes timestamp, referrer and geography only. User agent and
// IP address are deliberately absent from this view.
type RecentClick struct {
	ClickedAt time.Time `json:"clickedAt"`
	Referrer  *string   `json:"referrer"`
	Country   *string   `json:"country"`
	City      *string   `json:"city"`
}

// URLAnalytics is the per-link report: the link itself plus its click
// history grouped by day, hour of day, referrer and country.
type URLAnalytics struct {
	URL          URL             `json:"url"`
	ClicksByDay  []DayCount      `json:"clicksByDay"`
	ClicksByHour []HourCount     `json:"clicksByHour"`
	TopReferrers []ReferrerCount `json:"topReferrers"`
	TopCountries []CountryCount  `json:"topCountries"`
	RecentClicks []RecentClick   `json:"recentClicks"`
}

type PopularURL struct {
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"originalUrl"`
	Clicks      int    `json:"clicks"`
}

// URLStats holds the global totals shown on the dashboard.
type URLStats struct {
	TotalURLs      int64       `json:"totalUrls"`
	TotalClicks    int64       `json:"totalClicks"`
	MostPopularURL *PopularURL `json:"mostPopularUrl"`
}
