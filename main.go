package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"linkshrink/cache"
	"linkshrink/database"
	"linkshrink/handlers"
)

func main() {
	database.Connect()
	cache.Connect()

	router := gin.Default()
	handlers.RegisterRoutes(router)

	port := getEnv("PORT", "8080")
	log.Println("linkshrink starting on :" + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
