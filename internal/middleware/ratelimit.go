package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// sweepInterval bounds how often idle limiters are pruned.
const sweepInterval = time.Minute

// RateLimiterMiddleware holds the rate limiters for each user.
type RateLimiterMiddleware struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	lastSweep time.Time
	now       func() time.Time
	// Rate is the number of events per second.
	rate rate.Limit
	// Burst is the burst size.
	burst int
	log   zerolog.Logger
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware.
func NewRateLimiterMiddleware(r rate.Limit, b int, log zerolog.Logger) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
		rate:     r,
		burst:    b,
		log:      log.With().Str("component", "ratelimit").Logger(),
	}
}

// Middleware must run after AuthMiddleware.
func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		now := rl.now()
		if !rl.limiter(user.ID, now).AllowN(now, 1) {
			rl.log.Warn().Str("user_id", user.ID).Str("path", r.URL.Path).Msg("Rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiterMiddleware) limiter(userID string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweep(now)
		rl.lastSweep = now
	}

	limiter, exists := rl.limiters[userID]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[userID] = limiter
	}
	return limiter
}

// sweep drops limiters that have refilled to their burst. A fresh limiter
// behaves identically, so dropping them loses no state.
func (rl *RateLimiterMiddleware) sweep(now time.Time) {
	for id, l := range rl.limiters {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, id)
		}
	}
}
