// Package redis disponibiliza a implementação do storage baseada em Redis.
//
// As janelas ficam em sorted sets compartilhados por todos os processos, de
// modo que o limite por cliente é global.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

// slidingWindow remove, conta e registra de forma atômica.
// Retorna {count, recorded, oldest_ms} com oldest_ms = -1 para janela vazia.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', string.format('%d', now - window))
local count = redis.call('ZCARD', key)
local recorded = 0
if count < limit then
  redis.call('ZADD', key, ARGV[1], ARGV[4])
  count = count + 1
  recorded = 1
end

local oldest = -1
if count > 0 then
  redis.call('PEXPIRE', key, ARGV[2])
  local first = redis.call('ZRANGE', key, '0', '0', 'WITHSCORES')
  oldest = tonumber(first[2])
end
return {count, recorded, oldest}
`)

type Storage struct {
	client *redis.Client
}

var _ ports.WindowStorage = (*Storage)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Storage{client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Record(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (ports.WindowState, error) {
	res, err := slidingWindow.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString()).Int64Slice()
	if err != nil {
		return ports.WindowState{}, fmt.Errorf("sliding window script: %w", err)
	}
	if len(res) != 3 {
		return ports.WindowState{}, fmt.Errorf("sliding window script returned %d values", len(res))
	}

	state := ports.WindowState{Count: int(res[0]), Recorded: res[1] == 1}
	if res[2] >= 0 {
		state.Oldest = time.UnixMilli(res[2])
	}
	return state, nil
}
