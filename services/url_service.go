package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"time"

	"gorm.io/gorm"

	"linkshrink/cache"
	"linkshrink/database"
	"linkshrink/models"
)

const (
	codeCharset       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	defaultCodeLength = 6

	// A generated code is not unique by construction, so candidates are
	// checked against storage and regenerated on collision.
	maxGenerateAttempts = 5
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

var (
	ErrInvalidURL  = errors.New("original URL must be a valid URL")
	ErrInvalidCode = errors.New("custom code must be 3-20 characters of letters, numbers, hyphens or underscores")
	ErrCodeTaken   = errors.New("custom code is already taken")
)

// IsValidationError reports whether err should surface as a 400 rather
// than a 500.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrCodeTaken)
}

// CreateURLInput is one create request, single or bulk.
type CreateURLInput struct {
	OriginalURL string
	CustomCode  string
	ExpiresAt   *time.Time
}

func validateOriginalURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// GenerateShortCode produces a random code of the given length drawn from
// the 62-symbol alphanumeric alphabet, using crypto/rand.
func GenerateShortCode(length int) (string, error) {
	if length <= 0 {
		length = defaultCodeLength
	}

	code := make([]byte, length)
	charsetLength := big.NewInt(int64(len(codeCharset)))

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[randomIndex.Int64()]
	}

	return string(code), nil
}

// resolveShortCode validates a custom code or generates a fresh one,
// guaranteeing in both cases that the code is free at the time of the check.
func resolveShortCode(customCode string) (string, error) {
	if customCode != "" {
		if !codePattern.MatchString(customCode) {
			return "", ErrInvalidCode
		}
		available, err := IsShortCodeAvailable(customCode)
		if err != nil {
			return "", err
		}
		if !available {
			return "", fmt.Errorf("custom code %q is already taken: %w", customCode, ErrCodeTaken)
		}
		return customCode, nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := GenerateShortCode(defaultCodeLength)
		if err != nil {
			return "", err
		}
		available, err := IsShortCodeAvailable(code)
		if err != nil {
			return "", err
		}
		if available {
			return code, nil
		}
	}
	return "", errors.New("could not generate an available short code")
}

// CreateURL validates the input, resolves a short code and persists the
// record. The expiry timestamp is stored as given; it is not required to be
// in the future.
func CreateURL(input CreateURLInput) (*models.URL, error) {
	if err := validateOriginalURL(input.OriginalURL); err != nil {
		return nil, err
	}

	shortCode, err := resolveShortCode(input.CustomCode)
	if err != nil {
		return nil, err
	}

	link := models.URL{
		ShortCode:   shortCode,
		OriginalURL: input.OriginalURL,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   input.ExpiresAt,
	}

	if err := database.DB.Create(&link).Error; err != nil {
		return nil, err
	}

	return &link, nil
}

// CreateBulkURLs creates up to 50 links. Every entry is validated and every
// custom code is checked for availability before the first insert; a conflict
// rejects the whole batch. Inserts then proceed one at a time, so a storage
// failure partway through leaves the earlier records in place.
func CreateBulkURLs(inputs []CreateURLInput) ([]models.URL, error) {
	for _, input := range inputs {
		if err := validateOriginalURL(input.OriginalURL); err != nil {
			return nil, err
		}
		if input.CustomCode != "" && !codePattern.MatchString(input.CustomCode) {
			return nil, ErrInvalidCode
		}
	}

	for _, input := range inputs {
		if input.CustomCode == "" {
			continue
		}
		available, err := IsShortCodeAvailable(input.CustomCode)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("custom code %q is already taken: %w", input.CustomCode, ErrCodeTaken)
		}
	}

	created := make([]models.URL, 0, len(inputs))
	for _, input := range inputs {
		link, err := CreateURL(input)
		if err != nil {
			return created, err
		}
		created = append(created, *link)
	}
	return created, nil
}

// GetAllURLs returns every link, newest first, expired ones included.
func GetAllURLs() ([]models.URL, error) {
	links := make([]models.URL, 0)
	if err := database.DB.Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func GetURLByID(id string) (*models.URL, error) {
	var link models.URL
	if err := database.DB.Where("id = ?", id).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetURLByShortCode resolves a short code for the redirect path. An expired
// link is reported as not found even though the record still exists.
func GetURLByShortCode(shortCode string) (*models.URL, error) {
	ctx := context.Background()

	if link, ok := cache.GetLink(ctx, shortCode); ok {
		if link.Expired() {
			return nil, gorm.ErrRecordNotFound
		}
		return link, nil
	}

	var link models.URL
	if err := database.DB.Where("short_code = ?", shortCode).First(&link).Error; err != nil {
		return nil, err
	}

	if link.Expired() {
		return nil, gorm.ErrRecordNotFound
	}

	cache.SetLink(ctx, &link)
	return &link, nil
}

// DeleteURL removes a link and, through the foreign key, all of its clicks.
func DeleteURL(id string) error {
	link, err := GetURLByID(id)
	if err != nil {
		return err
	}

	if err := database.DB.Delete(link).Error; err != nil {
		return err
	}

	cache.DeleteLink(context.Background(), link.ShortCode)
	return nil
}

// IsShortCodeAvailable reports whether a code is free. Expired-but-present
// codes still count as taken until a cleanup sweep removes them.
func IsShortCodeAvailable(shortCode string) (bool, error) {
	var count int64
	if err := database.DB.Model(&models.URL{}).Where("short_code = ?", shortCode).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// CleanupExpired deletes every link whose expiry timestamp is in the past
// and returns the number removed. Rows are deleted one at a time; a failure
// aborts the sweep without restoring already-deleted rows.
func CleanupExpired() (int, error) {
	var expired []models.URL
	err := database.DB.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).Find(&expired).Error
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for i := range expired {
		if err := database.DB.Delete(&expired[i]).Error; err != nil {
			return cleaned, err
		}
		cache.DeleteLink(context.Background(), expired[i].ShortCode)
		cleaned++
	}
	return cleaned, nil
}

// GetStats returns the global totals and the most clicked link, if any.
func GetStats() (*models.URLStats, error) {
	stats := models.URLStats{}

	if err := database.DB.Model(&models.URL{}).Count(&stats.TotalURLs).Error; err != nil {
		return nil, err
	}

	err := database.DB.Model(&models.URL{}).
		Select("COALESCE(SUM(clicks), 0)").
		Scan(&stats.TotalClicks).Error
	if err != nil {
		return nil, err
	}

	var top models.URL
	err = database.DB.Order("clicks desc, created_at asc").First(&top).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &stats, nil
		}
		return nil, err
	}

	stats.MostPopularURL = &models.PopularURL{
		ShortCode:   top.ShortCode,
		OriginalURL: top.OriginalURL,
		Clicks:      top.Clicks,
	}
	return &stats, nil
}
