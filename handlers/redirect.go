package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"linkshrink/services"
)

var shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Redirect resolves a short code, records the click and issues a permanent
// redirect. Every failure, including storage errors, degrades to a plain 404
// so nothing internal leaks on the hot path.
func Redirect(c *gin.Context) {
	code := c.Param("code")
	if !shortCodePattern.MatchString(code) {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	link, err := services.GetURLByShortCode(code)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Redirect lookup failed for %q: %v", code, err)
		}
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	// Recorded before the redirect goes out, so a counted click and a served
	// redirect are the same event.
	err = services.RecordClick(link, c.Request.Referer(), c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Printf("Failed to record click for %q: %v", code, err)
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	c.Redirect(http.StatusMovedPermanently, link.OriginalURL)
}
