package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"linkshrink/database"
	"linkshrink/models"
)

const (
	maxDayPoints    = 30
	maxTopEntries   = 10
	maxRecentClicks = 50

	directReferrer = "Direct"
	unknownCountry = "Unknown"
)

// RecordClick bumps the link's counter and stores a click event. The counter
// update is a relative increment at the storage layer so concurrent redirects
// on the same code do not lose updates.
func RecordClick(link *models.URL, referrer, userAgent, ipAddress string) error {
	err := database.DB.Model(link).UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
	if err != nil {
		return err
	}

	click := models.Click{
		URLID:     link.ID,
		ClickedAt: time.Now().UTC(),
		Referrer:  optional(referrer),
		UserAgent: optional(userAgent),
		IPAddress: optional(ipAddress),
	}
	return database.DB.Create(&click).Error
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetURLAnalytics builds the per-link report from the full click history.
// Returns nil without error when the link does not exist.
func GetURLAnalytics(id string) (*models.URLAnalytics, error) {
	link, err := GetURLByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var clicks []models.Click
	err = database.DB.Where("url_id = ?", id).Order("clicked_at desc").Find(&clicks).Error
	if err != nil {
		return nil, err
	}

	dayCounts := make(map[string]int)
	var hourCounts [24]int
	referrerCounts := make(map[string]int)
	countryCounts := make(map[string]int)

	// Counts tie-break by first appearance, so track key order separately;
	// clicks arrive newest first.
	var referrerOrder, countryOrder []string

	for i := range clicks {
		click := &clicks[i]

		day := click.ClickedAt.UTC().Format("2006-01-02")
		dayCounts[day]++

		hourCounts[click.ClickedAt.Hour()]++

		referrer := directReferrer
		if click.Referrer != nil && *click.Referrer != "" {
			referrer = *click.Referrer
		}
		if _, seen := referrerCounts[referrer]; !seen {
			referrerOrder = append(referrerOrder, referrer)
		}
		referrerCounts[referrer]++

		country := unknownCountry
		if click.Country != nil && *click.Country != "" {
			country = *click.Country
		}
		if _, seen := countryCounts[country]; !seen {
			countryOrder = append(countryOrder, country)
		}
		countryCounts[country]++
	}

	clicksByDay := make([]models.DayCount, 0, len(dayCounts))
	for day, count := range dayCounts {
		clicksByDay = append(clicksByDay, models.DayCount{Date: day, Count: count})
	}
	sort.Slice(clicksByDay, func(i, j int) bool {
		return clicksByDay[i].Date < clicksByDay[j].Date
	})
	if len(clicksByDay) > maxDayPoints {
		clicksByDay = clicksByDay[len(clicksByDay)-maxDayPoints:]
	}

	clicksByHour := make([]models.HourCount, 24)
	for hour := range clicksByHour {
		clicksByHour[hour] = models.HourCount{Hour: hour, Count: hourCounts[hour]}
	}

	topReferrers := make([]models.ReferrerCount, 0, len(referrerOrder))
	for _, referrer := range referrerOrder {
		topReferrers = append(topReferrers, models.ReferrerCount{Referrer: referrer, Count: referrerCounts[referrer]})
	}
	sort.SliceStable(topReferrers, func(i, j int) bool {
		return topReferrers[i].Count > topReferrers[j].Count
	})
	if len(topReferrers) > maxTopEntries {
		topReferrers = topReferrers[:maxTopEntries]
	}

	topCountries := make([]models.CountryCount, 0, len(countryOrder))
	for _, country := range countryOrder {
		topCountries = append(topCountries, models.CountryCount{Country: country, Count: countryCounts[country]})
	}
	sort.SliceStable(topCountries, func(i, j int) bool {
		return topCountries[i].Count > topCountries[j].Count
	})
	if len(topCountries) > maxTopEntries {
		topCountries = topCountries[:maxTopEntries]
	}

	recent := clicks
	if len(recent) > maxRecentClicks {
		recent = recent[:maxRecentClicks]
	}
	recentClicks := make([]models.RecentClick, 0, len(recent))
	for i := range recent {
		recentClicks = append(recentClicks, models.RecentClick{
			ClickedAt: recent[i].ClickedAt,
			Referrer:  recent[i].Referrer,
			Country:   recent[i].Country,
			City:      recent[i].City,
		})
	}

	return &models.URLAnalytics{
		URL:          *link,
		ClicksByDay:  clicksByDay,
		ClicksByHour: clicksByHour,
		TopReferrers: topReferrers,
		TopCountries: topCountries,
		RecentClicks: recentClicks,
	}, nil
}
