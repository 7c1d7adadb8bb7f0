package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// RDB backs the token revocation list. It stays nil when REDIS_ADDR is not
// set, in which case revocation checks are skipped.
var RDB *redis.Client

// ConnectRedis connects to Redis when REDIS_ADDR is configured.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, token revocation disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	RDB = client
	log.Println("Redis connection established")
}
