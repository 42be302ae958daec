package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// StaffSession is the state kept for one logged-in staff browser. There is a
// single shared passphrase, so the session carries no user identity beyond
// when it was opened.
type StaffSession struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Session management
func (c *Client) SetSession(ctx context.Context, token string, session *StaffSession, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+token, jsonData, ttl).Err()
}

func (c *Client) GetSession(ctx context.Context, token string) (*StaffSession, error) {
	val, err := c.rdb.Get(ctx, "session:"+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session StaffSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, "session:"+token).Err()
}

// Cake catalog caching. The catalog changes rarely and every reservation page
// load reads it, so it sits in redis with a short TTL.
func (c *Client) SetCakes(ctx context.Context, cakes []models.Cake, ttl time.Duration) error {
	jsonData, err := json.Marshal(cakes)
	if err != nil {
		return fmt.Errorf("failed to marshal cake catalog: %w", err)
	}

	return c.rdb.Set(ctx, "cache:cakes", jsonData, ttl).Err()
}

func (c *Client) GetCakes(ctx context.Context) ([]models.Cake, error) {
	val, err := c.rdb.Get(ctx, "cache:cakes").Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cake catalog not cached")
		}
		return nil, fmt.Errorf("failed to get cake catalog: %w", err)
	}

	var cakes []models.Cake
	if err := json.Unmarshal([]byte(val), &cakes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cake catalog: %w", err)
	}

	return cakes, nil
}

func (c *Client) InvalidateCakes(ctx context.Context) error {
	return c.rdb.Del(ctx, "cache:cakes").Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
