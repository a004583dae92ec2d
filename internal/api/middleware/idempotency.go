package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency guards state-changing requests that carry an
// Idempotency-Key header. A key already marked completed is rejected with
// 409; a key mid-flight is rejected the same way. Requests without the
// header pass through untouched.
func Idempotency(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := fmt.Sprintf("idempotency:%s", key)
			ctx := r.Context()

			_, err := redisClient.Get(ctx, idemKey).Result()
			if err == nil {
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"success":false,"error":"request already processed"}`))
				return
			} else if err != redis.Nil {
				// Redis being down must not block searches.
				next.ServeHTTP(w, r)
				return
			}

			// Lock with a short TTL so a crashed request does not hold the
			// key forever.
			acquired, err := redisClient.SetNX(ctx, idemKey, "PROCESSING", 30*time.Second).Result()
			if err != nil || !acquired {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"success":false,"error":"concurrent request"}`))
				return
			}

			next.ServeHTTP(w, r)

			redisClient.Set(ctx, idemKey, "COMPLETED", 24*time.Hour)
		})
	}
}
