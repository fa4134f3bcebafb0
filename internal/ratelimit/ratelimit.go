// Package ratelimit guards the public registration endpoint with a Redis
// fixed-window counter keyed on client IP. Registration triggers identity
// provider writes, so it is the one unauthenticated endpoint worth
// throttling. A missing or unreachable Redis degrades to allowing traffic.
package ratelimit

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Limit  int
	Window time.Duration
	Prefix string
}

func LoadConfig() Config {
	cfg := Config{Limit: 10, Window: time.Minute, Prefix: "rl:register"}
	if v := os.Getenv("REGISTER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	if v := os.Getenv("REGISTER_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Window = d
		}
	}
	return cfg
}

// NewRedisClient builds a client from REDIS_ADDR/REDIS_PASSWORD/REDIS_DB.
// Returns nil when no address is configured or the server is unreachable;
// callers must treat a nil client as "limiter disabled".
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	dbNum := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbNum = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("ratelimit: redis unreachable, limiter disabled: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Middleware limits requests per client IP within a fixed window. With a
// nil Redis client it passes every request through.
func Middleware(cfg Config, rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.Prefix + ":" + clientIP(r)
			ctx := r.Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not block registrations.
				log.Printf("ratelimit: redis error for key=%s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			if count > int64(cfg.Limit) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window/time.Second)))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  "error",
					"message": "Too many registration attempts, try again later",
					"code":    http.StatusTooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
