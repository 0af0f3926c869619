package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"referral-arcade/internal/models"
)

const scoreboardKey = "arcade:scoreboard"

// ScoreboardCache is a JSON-backed Redis cache for the scoreboard read
// projection. A nil *ScoreboardCache is valid and disables caching, so
// callers never need to branch on whether Redis is configured.
type ScoreboardCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewScoreboardCache connects to Redis at addr. Returns nil when addr is
// empty.
func NewScoreboardCache(addr string, ttl time.Duration) *ScoreboardCache {
	if addr == "" {
		return nil
	}
	return &ScoreboardCache{
		client: goredis.NewClient(&goredis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get retrieves the cached scoreboard. Returns (nil, false) on any miss or
// deserialisation error.
func (c *ScoreboardCache) Get(ctx context.Context) ([]models.ScoreboardEntry, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, scoreboardKey).Result()
	if err != nil {
		return nil, false
	}
	var entries []models.ScoreboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Set stores the scoreboard under its fixed key. Errors are logged rather
// than returned; a cache write miss is non-fatal.
func (c *ScoreboardCache) Set(ctx context.Context, entries []models.ScoreboardEntry) {
	if c == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("scoreboard cache: marshal error: %v", err)
		return
	}
	if err := c.client.Set(ctx, scoreboardKey, data, c.ttl).Err(); err != nil {
		log.Printf("scoreboard cache: write error: %v", err)
	}
}

// Invalidate drops the cached scoreboard. Called from score-affecting write
// paths after commit; a failed delete only widens one stale-read window, so
// it is not tied to the request context.
func (c *ScoreboardCache) Invalidate() {
	if c == nil {
		return
	}
	if err := c.client.Del(context.Background(), scoreboardKey).Err(); err != nil {
		log.Printf("scoreboard cache: invalidate error: %v", err)
	}
}
