package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	keyPrefix   = "ubas:analysis:"
	pingTimeout = 5 * time.Second
)

// IRedis caches finished analyses as their JSON encoding.
type IRedis interface {
	SetAnalysis(ctx context.Context, id string, payload []byte, expiration time.Duration) error
	GetAnalysis(ctx context.Context, id string) ([]byte, error)
	Close() error
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

// New connects to REDIS_ADDRESS. An unreachable server is logged, not fatal:
// every cache call then fails and callers fall back to the database.
func New(log *logrus.Logger) IRedis {
	opts := optionsFromEnv()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("Redis at %s unreachable, analysis cache disabled until it recovers: %v", opts.Addr, err)
	} else {
		log.Infof("Connected to Redis at %s", opts.Addr)
	}

	return &redisClient{client: client, log: log}
}

func optionsFromEnv() *redis.Options {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil || db < 0 {
		db = 0
	}

	return &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func analysisKey(id string) string {
	return keyPrefix + id
}

func (r *redisClient) SetAnalysis(ctx context.Context, id string, payload []byte, expiration time.Duration) error {
	if err := r.client.Set(ctx, analysisKey(id), payload, expiration).Err(); err != nil {
		return fmt.Errorf("cache analysis %s: %w", id, err)
	}
	return nil
}

func (r *redisClient) GetAnalysis(ctx context.Context, id string) ([]byte, error) {
	val, err := r.client.Get(ctx, analysisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cached analysis %s: %w", id, err)
	}
	return val, nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
