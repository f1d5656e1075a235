package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"linkshrink/models"
)

// Optional redis cache for the redirect hot path. The SQL store stays the
// source of truth; cache failures are soft and fall back to the database.
var client *redis.Client

const linkTTL = 24 * time.Hour

func Connect() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not set, redirect cache disabled")
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, redirect cache disabled: %v", err)
		return
	}

	client = redis.NewClient(opt)
	log.Println("Redirect cache enabled")
}

func Enabled() bool { return client != nil }

func linkKey(code string) string { return "url:" + code }

// GetLink returns the cached record for a short code, if present.
func GetLink(ctx context.Context, code string) (*models.URL, bool) {
	if client == nil {
		return nil, false
	}

	data, err := client.Get(ctx, linkKey(code)).Bytes()
	if err != nil {
		return nil, false
	}

	var link models.URL
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, false
	}
	return &link, true
}

func SetLink(ctx context.Context, link *models.URL) {
	if client == nil {
		return
	}

	data, err := json.Marshal(link)
	if err != nil {
		return
	}
	if err := client.Set(ctx, linkKey(link.ShortCode), data, linkTTL).Err(); err != nil {
		log.Printf("Failed to cache link %s: %v", link.ShortCode, err)
	}
}

func DeleteLink(ctx context.Context, codes ...string) {
	if client == nil || len(codes) == 0 {
		return
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = linkKey(code)
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to evict cached links: %v", err)
	}
}
