package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest dependency snapshot served on /health.
type HealthStatus struct {
	Mongo     bool            `json:"mongo"`
	Redis     map[string]bool `json:"redis"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks Mongo and the named Redis clients
// periodically and keeps an in-memory snapshot. The first check runs
// immediately so /health is meaningful right after startup.
func StartHealthMonitor(redisClients map[string]*redis.Client, mongoClient *mongo.Client) {
	check := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisHealth := make(map[string]bool, len(redisClients))
		for name, client := range redisClients {
			redisHealth[name] = client.Ping(ctx).Err() == nil
		}

		healthMu.Lock()
		currentHealth = HealthStatus{
			Mongo:     mongoClient.Ping(ctx, nil) == nil,
			Redis:     redisHealth,
			CheckedAt: time.Now(),
		}
		healthMu.Unlock()
	}

	go func() {
		check()
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			check()
		}
	}()
}
