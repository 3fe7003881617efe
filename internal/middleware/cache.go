package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"docnest/internal/config"
)

// captureWriter tees the response body into a buffer, up to limit bytes,
// while forwarding it to the client unchanged.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// ResponseCache returns middleware caching successful JSON GET responses
// in Redis for cfg.TTL. The cache key includes the authenticated user id,
// so entries are isolated per user: the cache must never weaken the
// ownership boundary the stores enforce. Responses larger than
// MaxBodyBytes are passed through uncached. With no Redis client the
// middleware is a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			uid, _ := c.Get("user_id").(string)
			if uid == "" {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, uid, c.Request().URL)

			ctx := c.Request().Context()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.size <= cw.limit {
				rdb.Set(ctx, key, cw.buf.Bytes(), cacheTTL(cfg.TTL))
			}
			return nil
		}
	}
}

// cacheKey builds the per-user key from the concrete request URL. The
// route pattern (c.Path) must not be used here: it would collapse every
// /v1/documents/:id hit into a single entry.
func cacheKey(prefix, uid string, u *url.URL) string {
	return fmt.Sprintf("%s:%s:%s?%s", prefix, uid, u.Path, u.RawQuery)
}

func cacheTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 30 * time.Second
	}
	return ttl
}
