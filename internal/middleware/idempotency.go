package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// responseRecorder wraps gin.ResponseWriter to capture the body while
// it is written out.
type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for repeated mutating
// requests carrying the same Idempotency-Key header. Reservation
// retries after a network timeout then cannot double-book seats.
func Idempotency(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c.Request.Method, c.Request.URL.Path, c.GetHeader("Authorization"), key)

		cached, err := getCachedResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			// Redis trouble: serve the request without the guard.
			c.Next()
			return
		}

		if cached != nil {
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		// 5xx responses are not cached so the client can retry for real.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			_ = setCachedResponse(ctx, redisClient, cacheKey, &cachedResponse{
				StatusCode: c.Writer.Status(),
				Body:       recorder.body.Bytes(),
			}, idempotencyTTL)
		}
	}
}

// idempotencyCacheKey scopes the client-supplied key by method, path
// and caller so two clients sharing a key cannot replay each other's
// responses. Token verification runs later in the chain, so the raw
// Authorization header stands in for the caller identity.
func idempotencyCacheKey(method, path, authorization, key string) string {
	sum := sha256.Sum256([]byte(authorization + "\n" + key))
	return fmt.Sprintf("idempotency:%s:%s:%x", method, path, sum)
}

func getCachedResponse(ctx context.Context, client *redis.Client, key string) (*cachedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func setCachedResponse(ctx context.Context, client *redis.Client, key string, response *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}
