package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则，BlockSeconds > 0 时超限后额外封禁
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	Message       string
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件，Redis 不可用时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}
		ctx := c.Request.Context()
		blockKey := key + ":block"

		if rule.BlockSeconds > 0 {
			blockedFor, err := client.TTL(ctx, blockKey).Result()
			if err == nil && blockedFor > 0 {
				rejectRateLimited(c, rule, int(blockedFor/time.Second))
				return
			}
		}

		result, err := rateLimitScript.Run(ctx, client, []string{key}, rule.WindowSeconds).Result()
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		values, ok := result.([]interface{})
		if !ok || len(values) < 2 {
			logger.Warnw("rate_limit_unexpected_result", "key", key)
			c.Next()
			return
		}
		count, ok := toInt64(values[0])
		if !ok {
			c.Next()
			return
		}
		ttlSeconds, _ := toInt64(values[1])
		if count > int64(rule.MaxRequests) {
			waitSeconds := int(ttlSeconds)
			if rule.BlockSeconds > 0 {
				if err := client.Set(ctx, blockKey, 1, time.Duration(rule.BlockSeconds)*time.Second).Err(); err != nil {
					logger.Warnw("rate_limit_block_failed", "key", key, "error", err)
				} else {
					waitSeconds = rule.BlockSeconds
				}
			}
			rejectRateLimited(c, rule, waitSeconds)
			return
		}

		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, rule RateLimitRule, waitSeconds int) {
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	msg := strings.TrimSpace(rule.Message)
	if msg == "" {
		msg = "too many requests"
	}
	c.Header("Retry-After", fmt.Sprintf("%d", waitSeconds))
	response.ErrorWithData(c, response.CodeTooManyRequests, msg, gin.H{"retry_after": waitSeconds})
	c.Abort()
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndRoute 使用 IP + 路由模板作为限流 key
func KeyByIPAndRoute(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return fmt.Sprintf("%s|%s", route, c.ClientIP())
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
