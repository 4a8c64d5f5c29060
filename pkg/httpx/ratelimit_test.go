package httpx_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func fromIP(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/auth/login", nil)
	req.RemoteAddr = ip + ":51234"
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRealIP(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.10 "})
	require.NoError(t, err)

	resolve := func(req *http.Request, trusted []netip.Prefix) string {
		var got string
		httpx.RealIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = httpx.ClientIP(r)
		})).ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	tests := []struct {
		name    string
		peer    string
		headers map[string]string
		want    string
	}{
		{"peer address", "10.0.0.7", nil, "10.0.0.7"},
		{"last untrusted forwarded hop", "10.0.0.7", map[string]string{"X-Forwarded-For": "198.51.100.9, 203.0.113.1, 10.0.0.1"}, "203.0.113.1"},
		{"real ip", "10.0.0.7", map[string]string{"X-Real-IP": " 203.0.113.2 "}, "203.0.113.2"},
		{"forwarded wins over real ip", "10.0.0.7", map[string]string{"X-Forwarded-For": "203.0.113.3", "X-Real-IP": "203.0.113.4"}, "203.0.113.3"},
		{"only trusted hops", "10.0.0.7", map[string]string{"X-Forwarded-For": " ,10.0.0.1"}, "10.0.0.7"},
		{"single trusted address", "192.0.2.10", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "203.0.113.5"},
		{"garbage hop stops the walk", "10.0.0.7", map[string]string{"X-Forwarded-For": "203.0.113.6, not-an-ip"}, "10.0.0.7"},
		{"spoofed forwarded from untrusted peer", "198.51.100.20", map[string]string{"X-Forwarded-For": "203.0.113.1"}, "198.51.100.20"},
		{"spoofed real ip from untrusted peer", "198.51.100.20", map[string]string{"X-Real-IP": "203.0.113.2"}, "198.51.100.20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fromIP(tt.peer)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, resolve(req, trusted))
		})
	}

	t.Run("no trusted proxies ignores headers", func(t *testing.T) {
		req := fromIP("10.0.0.7")
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "10.0.0.7", resolve(req, nil))
	})

	t.Run("without the middleware", func(t *testing.T) {
		req := fromIP("10.0.0.7")
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "10.0.0.7", httpx.ClientIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "unix-socket"
		require.Equal(t, "unix-socket", httpx.ClientIP(req))
	})

	t.Run("invalid proxy", func(t *testing.T) {
		_, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/33"})
		require.Error(t, err)
		_, err = httpx.ParseTrustedProxies([]string{"proxy.local"})
		require.Error(t, err)
	})
}

func TestRateLimitIgnoresSpoofedForwarding(t *testing.T) {
	hourly := httpx.RateLimit{Name: "test", Requests: 1, Window: time.Hour, Burst: 1}
	h := httpx.Chain(okHandler, httpx.RealIP(nil), httpx.RateLimitByIP(hourly, nil))

	spoofed := func(xff string) *http.Request {
		req := fromIP("198.51.100.20")
		req.Header.Set("X-Forwarded-For", xff)
		return req
	}
	require.Equal(t, http.StatusOK, serve(h, spoofed("203.0.113.1")).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, spoofed("203.0.113.2")).Code)
}

func TestUserOrIP(t *testing.T) {
	req := fromIP("10.0.0.7")
	require.Equal(t, "ip:10.0.0.7", httpx.UserOrIP(req))

	req = req.WithContext(httpx.WithIdentity(req.Context(), &httpx.Identity{UserID: "42"}))
	require.Equal(t, "user:42", httpx.UserOrIP(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	hourly := httpx.RateLimit{Name: "test", Requests: 2, Window: time.Hour, Burst: 2}

	t.Run("rejects once the burst is spent", func(t *testing.T) {
		h := httpx.RateLimitByIP(hourly, nil)(okHandler)

		first := serve(h, fromIP("10.0.0.1"))
		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

		require.Equal(t, http.StatusOK, serve(h, fromIP("10.0.0.1")).Code)

		rec := serve(h, fromIP("10.0.0.1"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
		require.NoError(t, err)
		require.InDelta(t, 1800, retry, 5)

		var body usersdk.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "Too Many Requests", body.Error)
		require.Equal(t, "Too many requests. Please try again later.", body.Message)
	})

	t.Run("keys are independent", func(t *testing.T) {
		h := httpx.RateLimitByIP(hourly, nil)(okHandler)
		for range 2 {
			require.Equal(t, http.StatusOK, serve(h, fromIP("10.0.0.1")).Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serve(h, fromIP("10.0.0.1")).Code)
		require.Equal(t, http.StatusOK, serve(h, fromIP("10.0.0.2")).Code)
	})

	t.Run("users share nothing with their address", func(t *testing.T) {
		h := httpx.RateLimitByUser(hourly, nil)(okHandler)
		for range 2 {
			require.Equal(t, http.StatusOK, serve(h, fromIP("10.0.0.1")).Code)
		}

		req := fromIP("10.0.0.1")
		req = req.WithContext(httpx.WithIdentity(req.Context(), &httpx.Identity{UserID: "7"}))
		require.Equal(t, http.StatusOK, serve(h, req).Code)
	})

	t.Run("empty key bypasses the limiter", func(t *testing.T) {
		none := func(*http.Request) string { return "" }
		h := httpx.RateLimitMiddleware(hourly, none, nil)(okHandler)
		for range 5 {
			rec := serve(h, fromIP("10.0.0.1"))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("rejections are counted", func(t *testing.T) {
		metrics := httpx.NewMetrics("user", nil)
		h := httpx.RateLimitByIP(httpx.RateLimit{Name: "strict", Requests: 1, Window: time.Hour, Burst: 1}, metrics)(okHandler)

		serve(h, fromIP("10.0.0.1"))
		serve(h, fromIP("10.0.0.1"))
		serve(h, fromIP("10.0.0.1"))

		rec := serve(metrics.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), `user_http_rate_limited_total{profile="strict"} 2`)
	})
}

func TestDefaultProfiles(t *testing.T) {
	require.Equal(t, "strict", httpx.StrictLimit.Name)
	require.Less(t, httpx.StrictLimit.Rate(), httpx.ModerateLimit.Rate())
	require.Less(t, httpx.ModerateLimit.Rate(), httpx.LenientLimit.Rate())
	require.Less(t, httpx.LenientLimit.Rate(), httpx.PublicLimit.Rate())
}

func TestRateLimitFromEnv(t *testing.T) {
	base := httpx.RateLimit{Name: "test", Requests: 10, Window: time.Minute, Burst: 10}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, base, base.FromEnv())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "200")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_BURST", "250")

		got := base.FromEnv()
		require.Equal(t, 200, got.Requests)
		require.Equal(t, 30*time.Second, got.Window)
		require.Equal(t, 250, got.Burst)
	})

	t.Run("non positive values are ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "0")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-10")
		require.Equal(t, base, base.FromEnv())
	})

	t.Run("garbage keeps the profile", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_BURST", "lots")
		require.Equal(t, base, base.FromEnv())
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.PublicLimit, nil)(okHandler)
	reqs := make([]*http.Request, 256)
	for i := range reqs {
		reqs[i] = fromIP("10.0." + strconv.Itoa(i/250) + "." + strconv.Itoa(i%250))
	}

	b.ResetTimer()
	for i := 0; b.Loop(); i++ {
		h.ServeHTTP(httptest.NewRecorder(), reqs[i%len(reqs)])
	}
}
