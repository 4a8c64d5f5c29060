package user_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRateLimitLogin verifies PATCH /auth/login allows 5 attempts per minute per IP.
func TestRateLimitLogin(t *testing.T) {
	client := setupUserContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.Login(ctx, "nobody@hogwarts.example", "Wr0ngpass!")
		assertStatus(t, err, http.StatusUnauthorized)
		t.Logf("attempt %d rejected with 401", i+1)
	}

	_, err := client.Login(ctx, "nobody@hogwarts.example", "Wr0ngpass!")
	assertStatus(t, err, http.StatusTooManyRequests)
}

// TestRateLimitHealth verifies the health checks are not throttled by normal polling.
func TestRateLimitHealth(t *testing.T) {
	client := setupUserContainerWithDefaultRateLimits(t)

	for range 30 {
		health, err := client.GetLiveness(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
	}
}
