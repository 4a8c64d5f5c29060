package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	key, err := jwtx.NewHMACKey(testSecret)
	require.NoError(t, err)

	u := &domain.User{BaseEntity: domain.BaseEntity{ID: "01HZUSER"}}

	t.Run("round trip", func(t *testing.T) {
		s := &service.TokenService{Key: key}
		token, err := s.CreateToken(u)
		require.NoError(t, err)
		require.True(t, s.Validate(ctx, token))

		claims, err := key.Verify(token)
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(jwtx.DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("expired token is invalid but keeps its subject", func(t *testing.T) {
		s := &service.TokenService{
			Key: key,
			TTL: time.Minute,
			Now: func() time.Time { return time.Now().Add(-time.Hour) },
		}
		token, err := s.CreateToken(u)
		require.NoError(t, err)
		require.False(t, s.Validate(ctx, token))

		id, err := s.UserID(token)
		require.NoError(t, err)
		require.Equal(t, u.ID, id)
	})

	t.Run("rejects", func(t *testing.T) {
		s := &service.TokenService{Key: key}
		for _, token := range []string{"", "garbage", "a.b.c"} {
			require.False(t, s.Validate(ctx, token), token)
		}

		_, err := s.CreateToken(&domain.User{})
		require.Error(t, err)
		_, err = s.CreateToken(nil)
		require.Error(t, err)
	})
}
