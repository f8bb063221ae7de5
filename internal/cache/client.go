// Package cache implements the pooled key-value abstraction (C4) over a
// single-node or clustered Redis deployment, behind one interface so
// callers never branch on topology. Writes go through SetEX with a TTL;
// list and sorted-set operations are carried for the cache-update worker's
// reserved (not-yet-implemented) event kinds.
package cache

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/sellershut/categories/internal/errs"
)

// Client is the pooled KV abstraction every read/write/worker component
// depends on. nil byte slices distinguish "absent" (Get) from "empty".
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error

	LPush(ctx context.Context, key string, values ...[]byte) error
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	LRem(ctx context.Context, key string, count int64, value []byte) error
	ZAdd(ctx context.Context, key string, score float64, member []byte) error
	ZPopMin(ctx context.Context, key string) ([]byte, float64, error)
	ZRangeByScoreWithScores(ctx context.Context, key string, min, max float64) ([][]byte, []float64, error)

	Close() error
}

// Config configures Client construction. ClusterMode selects between
// redis.NewClusterClient and redis.NewClient; PoolSize bounds the number of
// pooled connections. AcquireTimeout bounds how long a caller waits for a
// pooled connection; a wait that runs out is returned as an Internal error,
// not as PoolExhausted. PoolExhausted is returned only while the circuit
// breaker is open.
type Config struct {
	DSN            string
	ClusterMode    bool
	PoolSize       int
	AcquireTimeout time.Duration
}

type client struct {
	redis   redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
}

// New constructs a Client. A single redis.UniversalClient backs either
// topology; ClusterMode only changes how it is built.
func New(cfg Config) (Client, error) {
	opts, err := redis.ParseURL(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "parse redis dsn")
	}

	var uc redis.UniversalClient
	if cfg.ClusterMode {
		uc = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        []string{opts.Addr},
			Password:     opts.Password,
			PoolSize:     cfg.PoolSize,
			PoolTimeout:  cfg.AcquireTimeout,
			MaxRedirects: 3,
		})
	} else {
		opts.PoolSize = cfg.PoolSize
		opts.PoolTimeout = cfg.AcquireTimeout
		uc = redis.NewClient(opts)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache",
		MaxRequests: 5,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 10
		},
	})

	return &client{redis: uc, breaker: breaker}, nil
}

func (c *client) call(fn func() (any, error)) (any, error) {
	v, err := c.breaker.Execute(fn)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errs.Wrap(errs.PoolExhausted, err, "cache circuit open")
		}
		return nil, err
	}
	return v, nil
}

func (c *client) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.call(func() (any, error) {
		b, err := c.redis.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ([]byte)(nil), nil
		}
		if err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache get")
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

func (c *client) SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.call(func() (any, error) {
		if err := c.redis.Set(ctx, key, value, ttl).Err(); err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache pset_ex")
		}
		return nil, nil
	})
	return err
}

func (c *client) Del(ctx context.Context, key string) error {
	_, err := c.call(func() (any, error) {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache del")
		}
		return nil, nil
	})
	return err
}

func (c *client) LPush(ctx context.Context, key string, values ...[]byte) error {
	_, err := c.call(func() (any, error) {
		return nil, wrapIfErr(c.redis.LPush(ctx, key, toAny(values)...).Err(), "cache lpush")
	})
	return err
}

func (c *client) RPush(ctx context.Context, key string, values ...[]byte) error {
	_, err := c.call(func() (any, error) {
		return nil, wrapIfErr(c.redis.RPush(ctx, key, toAny(values)...).Err(), "cache rpush")
	})
	return err
}

func (c *client) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	v, err := c.call(func() (any, error) {
		ss, err := c.redis.LRange(ctx, key, start, stop).Result()
		if err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache lrange")
		}
		return toBytes(ss), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

func (c *client) LRem(ctx context.Context, key string, count int64, value []byte) error {
	_, err := c.call(func() (any, error) {
		return nil, wrapIfErr(c.redis.LRem(ctx, key, count, value).Err(), "cache lrem")
	})
	return err
}

func (c *client) ZAdd(ctx context.Context, key string, score float64, member []byte) error {
	_, err := c.call(func() (any, error) {
		return nil, wrapIfErr(c.redis.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(), "cache zadd")
	})
	return err
}

func (c *client) ZPopMin(ctx context.Context, key string) ([]byte, float64, error) {
	v, err := c.call(func() (any, error) {
		zs, err := c.redis.ZPopMin(ctx, key, 1).Result()
		if err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache zpopmin")
		}
		if len(zs) == 0 {
			return [2]any{[]byte(nil), float64(0)}, nil
		}
		return [2]any{[]byte(zs[0].Member.(string)), zs[0].Score}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	pair := v.([2]any)
	return pair[0].([]byte), pair[1].(float64), nil
}

func (c *client) ZRangeByScoreWithScores(ctx context.Context, key string, min, max float64) ([][]byte, []float64, error) {
	v, err := c.call(func() (any, error) {
		zs, err := c.redis.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min: formatScore(min), Max: formatScore(max),
		}).Result()
		if err != nil {
			return nil, errs.Wrap(errs.Internal, err, "cache zrangebyscore")
		}
		members := make([][]byte, len(zs))
		scores := make([]float64, len(zs))
		for i, z := range zs {
			members[i] = []byte(z.Member.(string))
			scores[i] = z.Score
		}
		return [2]any{members, scores}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	pair := v.([2]any)
	return pair[0].([][]byte), pair[1].([]float64), nil
}

func (c *client) Close() error {
	return c.redis.Close()
}

func wrapIfErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.Internal, err, msg)
}

func toAny(values [][]byte) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toBytes(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func formatScore(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
