package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

const rlPrefix = "dashboard:rl:"

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// AllowFunc lets a request through without charging it when it returns true.
type AllowFunc func(*gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return rlPrefix + "ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath gives every route its own budget per client, keyed by the route pattern.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return rlPrefix + "route:" + route + ":" + ipFromCtx(c)
	}
}

// KeyByUserID charges the authenticated user, or the client IP before Auth has run.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return rlPrefix + "user:" + uid
		}
		return rlPrefix + "anon:" + ipFromCtx(c)
	}
}

// hitScript counts a request and returns {count, pttl}; the first hit opens the window.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows max requests per fixed window and answers 429 beyond that.
// A nil rdb disables it; Redis errors let the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		res, err := hitScript.Run(c.Request.Context(), rdb, []string{keyFn(c)}, window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count := int(res[0])
		reset := 0
		if res[1] > 0 {
			reset = int(math.Ceil(float64(res[1]) / 1000))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(max, count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))
		if count <= max {
			c.Next()
			return
		}
		if reset > 0 {
			c.Header("Retry-After", strconv.Itoa(reset))
		}
		response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
		c.Abort()
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
