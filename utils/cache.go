// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"heallink/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// OnboardingCacheClient is the dedicated client for onboarding sessions.
	OnboardingCacheClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitOnboardingCache initializes the Redis client holding onboarding
// progress blobs (its own DB so a FLUSHDB on the generic cache cannot
// wipe in-flight registrations).
func InitOnboardingCache() {
	OnboardingCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOnboardingDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OnboardingCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Onboarding): %v", err)
	}
}

// GetOnboardingCacheClient returns the Redis client for onboarding sessions.
func GetOnboardingCacheClient() *redis.Client {
	if OnboardingCacheClient == nil {
		InitOnboardingCache()
	}
	return OnboardingCacheClient
}

// InitRedis initializes all Redis clients.
func InitRedis() {
	InitCache()
	InitOnboardingCache()
}
