package httpx

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimit is a named token bucket profile: Requests tokens refill per
// Window and at most Burst can be spent at once.
type RateLimit struct {
	Name     string
	Requests int
	Window   time.Duration
	Burst    int
}

// Profiles shared by the routes. Each one can be overridden with
// RATELIMIT_<NAME>_REQUESTS, RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	// StrictLimit guards login, registration and mail resends.
	StrictLimit = RateLimit{Name: "strict", Requests: 5, Window: time.Minute, Burst: 5}.FromEnv()

	// ModerateLimit guards writes and the OAuth2 redirect flow.
	ModerateLimit = RateLimit{Name: "moderate", Requests: 20, Window: time.Minute, Burst: 20}.FromEnv()

	// LenientLimit guards authenticated reads and health checks.
	LenientLimit = RateLimit{Name: "lenient", Requests: 100, Window: time.Minute, Burst: 100}.FromEnv()

	// PublicLimit guards metrics scrapes and the API docs.
	PublicLimit = RateLimit{Name: "public", Requests: 1000, Window: time.Minute, Burst: 1000}.FromEnv()
)

type rateLimitOverride struct {
	Requests  int `env:"REQUESTS"`
	WindowSec int `env:"WINDOW_SEC"`
	Burst     int `env:"BURST"`
}

// FromEnv returns l with any positive RATELIMIT_<NAME>_* values applied.
// Unparsable overrides leave the profile untouched.
func (l RateLimit) FromEnv() RateLimit {
	o, err := env.ParseAsWithOptions[rateLimitOverride](env.Options{
		Prefix: "RATELIMIT_" + strings.ToUpper(l.Name) + "_",
	})
	if err != nil {
		return l
	}
	if o.Requests > 0 {
		l.Requests = o.Requests
	}
	if o.WindowSec > 0 {
		l.Window = time.Duration(o.WindowSec) * time.Second
	}
	if o.Burst > 0 {
		l.Burst = o.Burst
	}
	return l
}

// Rate is the steady refill rate of l.
func (l RateLimit) Rate() rate.Limit {
	if l.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(l.Requests) / l.Window.Seconds())
}

// KeyFunc groups requests into buckets. An empty key bypasses the limiter.
type KeyFunc func(*http.Request) string

// UserOrIP keys authenticated callers by user id and everyone else by address.
func UserOrIP(r *http.Request) string {
	if id := UserIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	return "ip:" + ClientIP(r)
}

// RejectObserver is told about every throttled request.
type RejectObserver interface {
	RateLimited(profile string)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key and forgets keys idle long enough to
// have refilled completely.
type buckets struct {
	mu        sync.Mutex
	byKey     map[string]*bucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newBuckets(l RateLimit) *buckets {
	idle := 5 * time.Minute
	if l.Requests > 0 {
		refill := time.Duration(float64(l.Burst) / float64(l.Requests) * float64(l.Window))
		idle = max(idle, refill)
	}
	return &buckets{
		byKey:     make(map[string]*bucket),
		limit:     l.Rate(),
		burst:     l.Burst,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= b.idle {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) >= b.idle {
				delete(b.byKey, k)
			}
		}
		b.lastSweep = now
	}

	v, ok := b.byKey[key]
	if !ok {
		v = &bucket{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.byKey[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// RateLimitMiddleware throttles requests per key with profile l. Throttled
// requests get a localized 429 with Retry-After. obs may be nil.
func RateLimitMiddleware(l RateLimit, key KeyFunc, obs RejectObserver) Middleware {
	set := newBuckets(l)
	limitHeader := strconv.Itoa(l.Requests)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			lim := set.get(k, now)
			allowed := lim.AllowN(now, 1)
			tokens := lim.TokensAt(now)

			w.Header().Set("X-RateLimit-Limit", limitHeader)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(tokens), 0)))

			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := 1
			if set.limit > 0 && set.limit != rate.Inf {
				retryAfter = max(int(math.Ceil((1-tokens)/float64(set.limit))), 1)
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"profile", l.Name,
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			if obs != nil {
				obs.RateLimited(l.Name)
			}
			WriteError(w, http.StatusTooManyRequests, i18nx.T(r.Context(), "errors.rate.limit"))
		})
	}
}

// RateLimitByIP throttles per client address.
func RateLimitByIP(l RateLimit, obs RejectObserver) Middleware {
	return RateLimitMiddleware(l, ClientIP, obs)
}

// RateLimitByUser throttles per authenticated user, falling back to the address.
func RateLimitByUser(l RateLimit, obs RejectObserver) Middleware {
	return RateLimitMiddleware(l, UserOrIP, obs)
}
