package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// CartItem is a line item held in a pending cart. Price is captured when the
// item is added so the order snapshot matches what the customer saw.
type CartItem struct {
	MenuItemID *uint   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
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

// Cart storage
func (c *Client) GetCart(cartKey string) ([]CartItem, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "cart:"+cartKey).Result()
	if err != nil {
		if err == redis.Nil {
			return []CartItem{}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var items []CartItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return items, nil
}

func (c *Client) SetCart(cartKey string, items []CartItem, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	return c.rdb.Set(ctx, "cart:"+cartKey, jsonData, ttl).Err()
}

func (c *Client) ClearCart(cartKey string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "cart:"+cartKey).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
