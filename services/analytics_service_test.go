package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkshrink/database"
	"linkshrink/models"
)

func insertClick(t *testing.T, urlID string, clickedAt time.Time, referrer, country *string) {
	t.Helper()
	click := models.Click{
		URLID:     urlID,
		ClickedAt: clickedAt,
		Referrer:  referrer,
		Country:   country,
	}
	require.NoError(t, database.DB.Create(&click).Error)
}

func strPtr(s string) *string { return &s }

func TestRecordClick(t *testing.T) {
	db := setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	require.NoError(t, RecordClick(link, "https://google.com", "test-agent", "203.0.113.7"))
	require.NoError(t, RecordClick(link, "", "", ""))
	require.NoError(t, RecordClick(link, "https://google.com", "test-agent", "203.0.113.8"))

	fetched, err := GetURLByID(link.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fetched.Clicks)

	var clicks []models.Click
	require.NoError(t, db.Where("url_id = ?", link.ID).Find(&clicks).Error)
	require.Len(t, clicks, 3)

	for _, click := range clicks {
		// Geography is left for external enrichment.
		assert.Nil(t, click.Country)
		assert.Nil(t, click.City)
	}
}

func TestRecordClick_EmptyMetadataStoredAsNull(t *testing.T) {
	db := setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})
	require.NoError(t, RecordClick(link, "", "", ""))

	var click models.Click
	require.NoError(t, db.Where("url_id = ?", link.ID).First(&click).Error)
	assert.Nil(t, click.Referrer)
	assert.Nil(t, click.UserAgent)
	assert.Nil(t, click.IPAddress)
}

func TestGetURLAnalytics_MissingURL(t *testing.T) {
	setupTestDB(t)

	report, err := GetURLAnalytics(uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestGetURLAnalytics_NoClicks(t *testing.T) {
	setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	report, err := GetURLAnalytics(link.ID)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Empty(t, report.ClicksByDay)
	assert.Len(t, report.ClicksByHour, 24)
	for _, bucket := range report.ClicksByHour {
		assert.Zero(t, bucket.Count)
	}
	assert.Empty(t, report.TopReferrers)
	assert.Empty(t, report.TopCountries)
	assert.Empty(t, report.RecentClicks)
}

func TestGetURLAnalytics_Grouping(t *testing.T) {
	setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	day3 := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)

	insertClick(t, link.ID, day1, strPtr("https://google.com"), strPtr("US"))
	insertClick(t, link.ID, day2, strPtr("https://google.com"), strPtr("US"))
	insertClick(t, link.ID, day2.Add(time.Minute), nil, strPtr("DE"))
	insertClick(t, link.ID, day3, strPtr("https://news.ycombinator.com"), nil)

	report, err := GetURLAnalytics(link.ID)
	require.NoError(t, err)
	require.NotNil(t, report)

	// Three distinct days, ascending, only days with clicks.
	require.Len(t, report.ClicksByDay, 3)
	assert.Equal(t, "2026-03-01", report.ClicksByDay[0].Date)
	assert.Equal(t, "2026-03-02", report.ClicksByDay[1].Date)
	assert.Equal(t, 2, report.ClicksByDay[1].Count)
	assert.Equal(t, "2026-03-03", report.ClicksByDay[2].Date)

	// Two distinct hours with data, but always 24 buckets.
	require.Len(t, report.ClicksByHour, 24)
	total := 0
	for _, bucket := range report.ClicksByHour {
		total += bucket.Count
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 3, report.ClicksByHour[9].Count)
	assert.Equal(t, 1, report.ClicksByHour[17].Count)

	// Absent referrer groups under "Direct", sorted by descending count.
	require.Len(t, report.TopReferrers, 3)
	assert.Equal(t, "https://google.com", report.TopReferrers[0].Referrer)
	assert.Equal(t, 2, report.TopReferrers[0].Count)
	referrers := make(map[string]int)
	for _, entry := range report.TopReferrers {
		referrers[entry.Referrer] = entry.Count
	}
	assert.Equal(t, 1, referrers["Direct"])

	// Absent country groups under "Unknown".
	countries := make(map[string]int)
	for _, entry := range report.TopCountries {
		countries[entry.Country] = entry.Count
	}
	assert.Equal(t, 2, countries["US"])
	assert.Equal(t, 1, countries["DE"])
	assert.Equal(t, 1, countries["Unknown"])

	// Recent events are newest first and never expose agent or IP.
	require.Len(t, report.RecentClicks, 4)
	assert.WithinDuration(t, day3, report.RecentClicks[0].ClickedAt, time.Second)
	assert.WithinDuration(t, day1, report.RecentClicks[3].ClickedAt, time.Second)
}

func TestGetURLAnalytics_DaySeriesCappedAt30(t *testing.T) {
	setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 35; i++ {
		insertClick(t, link.ID, base.AddDate(0, 0, i), nil, nil)
	}

	report, err := GetURLAnalytics(link.ID)
	require.NoError(t, err)

	require.Len(t, report.ClicksByDay, 30)
	// The cap keeps the most recent 30 days.
	assert.Equal(t, base.AddDate(0, 0, 5).Format("2006-01-02"), report.ClicksByDay[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 34).Format("2006-01-02"), report.ClicksByDay[29].Date)
}

func TestGetURLAnalytics_TopListsCappedAt10(t *testing.T) {
	setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	clickedAt := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		referrer := fmt.Sprintf("https://ref%d.example.com", i)
		country := fmt.Sprintf("C%02d", i)
		// Later referrers get more clicks so the ordering is observable.
		for j := 0; j <= i; j++ {
			insertClick(t, link.ID, clickedAt.Add(time.Duration(j)*time.Minute), strPtr(referrer), strPtr(country))
		}
	}

	report, err := GetURLAnalytics(link.ID)
	require.NoError(t, err)

	require.Len(t, report.TopReferrers, 10)
	require.Len(t, report.TopCountries, 10)

	assert.Equal(t, "https://ref12.example.com", report.TopReferrers[0].Referrer)
	assert.Equal(t, 13, report.TopReferrers[0].Count)
	for i := 1; i < len(report.TopReferrers); i++ {
		assert.GreaterOrEqual(t, report.TopReferrers[i-1].Count, report.TopReferrers[i].Count)
	}
}

func TestGetURLAnalytics_RecentClicksCappedAt50(t *testing.T) {
	setupTestDB(t)

	link := mustCreate(t, CreateURLInput{OriginalURL: "https://example.com"})

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		insertClick(t, link.ID, base.Add(time.Duration(i)*time.Minute), nil, nil)
	}

	report, err := GetURLAnalytics(link.ID)
	require.NoError(t, err)

	require.Len(t, report.RecentClicks, 50)
	assert.WithinDuration(t, base.Add(59*time.Minute), report.RecentClicks[0].ClickedAt, time.Second)
	assert.WithinDuration(t, base.Add(10*time.Minute), report.RecentClicks[49].ClickedAt, time.Second)
}
