package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig configures the Redis-backed history store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// KeyPrefix namespaces session keys, default "chatflow:history:".
	KeyPrefix string `yaml:"key_prefix"`
	// MaxTurns bounds how many turns are retained per session.
	MaxTurns int `yaml:"max_turns"`
	// TTL expires idle sessions. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl"`
}

// DefaultRedisConfig returns the default store configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "chatflow:history:",
		MaxTurns:  200,
		TTL:       24 * time.Hour,
	}
}

// RedisStore keeps one Redis list per session, JSON-encoded turns in
// chronological order, trimmed to the retention bound on append.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "chatflow:history:"
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "history_store")),
	}, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.cfg.KeyPrefix + sessionID
}

// Recent returns up to n most recent turns, oldest first.
func (s *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, s.key(sessionID), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			s.logger.Warn("skipping malformed history entry",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Append records turns at the end of the session's history and trims to
// the retention bound.
func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]any, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.cfg.MaxTurns), -1)
	if s.cfg.TTL > 0 {
		pipe.Expire(ctx, key, s.cfg.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
