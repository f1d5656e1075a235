package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"linkshrink/services"
)

type CreateURLRequest struct {
	OriginalURL string `json:"originalUrl" binding:"required"`
	CustomCode  string `json:"customCode"`
	ExpiresAt   string `json:"expiresAt"`
}

type BulkCreateRequest struct {
	URLs []CreateURLRequest `json:"urls" binding:"required,min=1,max=50,dive"`
}

func parseExpiry(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toCreateInput(req CreateURLRequest) (services.CreateURLInput, error) {
	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		return services.CreateURLInput{}, err
	}
	return services.CreateURLInput{
		OriginalURL: req.OriginalURL,
		CustomCode:  req.CustomCode,
		ExpiresAt:   expiresAt,
	}, nil
}

func CreateURL(c *gin.Context) {
	var req CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := toCreateInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC 3339 timestamp"})
		return
	}

	link, err := services.CreateURL(input)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to create short URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create short URL"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

func CreateBulkURLs(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs := make([]services.CreateURLInput, 0, len(req.URLs))
	for _, entry := range req.URLs {
		input, err := toCreateInput(entry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC 3339 timestamp"})
			return
		}
		inputs = append(inputs, input)
	}

	created, err := services.CreateBulkURLs(inputs)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to create short URLs in bulk: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create short URLs"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func GetAllURLs(c *gin.Context) {
	links, err := services.GetAllURLs()
	if err != nil {
		log.Printf("Failed to list URLs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch URLs"})
		return
	}

	c.JSON(http.StatusOK, links)
}

func GetURL(c *gin.Context) {
	link, err := services.GetURLByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "URL not found"})
			return
		}
		log.Printf("Failed to fetch URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch URL"})
		return
	}

	c.JSON(http.StatusOK, link)
}

func GetURLAnalytics(c *gin.Context) {
	report, err := services.GetURLAnalytics(c.Param("id"))
	if err != nil {
		log.Printf("Failed to build analytics report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "URL not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func DeleteURL(c *gin.Context) {
	if err := services.DeleteURL(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "URL not found"})
			return
		}
		log.Printf("Failed to delete URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete URL"})
		return
	}

	c.Status(http.StatusNoContent)
}

func GetStats(c *gin.Context) {
	stats, err := services.GetStats()
	if err != nil {
		log.Printf("Failed to fetch stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func CheckCode(c *gin.Context) {
	available, err := services.IsShortCodeAvailable(c.Param("code"))
	if err != nil {
		log.Printf("Failed to check code availability: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check code availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func Cleanup(c *gin.Context) {
	cleaned, err := services.CleanupExpired()
	if err != nil {
		log.Printf("Failed to cleanup expired URLs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cleanup expired URLs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaned": cleaned})
}
