package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a projeção de partidas abertas com odds.
// Como as odds são imutáveis após a criação, a única invalidação necessária
// é quando uma partida entra ou sai do estado open.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyOpenMatches() string { return "catalog:matches:open" }

func (c *Cache) GetOpenMatches(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyOpenMatches()).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetOpenMatches(ctx context.Context, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyOpenMatches(), b, ttl).Err()
}

// Invalidate derruba a projeção após createMatch/finishMatch.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.R.Del(ctx, keyOpenMatches()).Err()
}
