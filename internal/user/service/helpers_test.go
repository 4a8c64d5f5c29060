package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"github.com/hogwartsschoolofmagic/user/pkg/mailx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const validPassword = "Alohom0ra!"

var testSecret = []byte("a-very-long-test-secret-that-is-at-least-32-bytes")

type env struct {
	store    *sqlite.Store
	mail     *mailx.LogSender
	registry *prometheus.Registry
	tokens   *service.TokenService
	auth     *service.AuthService
	oauth    *service.OAuth2Service
	settings *service.SettingsService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	key, err := jwtx.NewHMACKey(testSecret)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics("user", reg)

	sender := mailx.NewLogSender()
	mail := &service.MailService{Sender: sender, ConfirmURL: "https://hogwarts.example/confirm", Metrics: metrics}
	tokens := &service.TokenService{Key: key, TTL: time.Hour}

	return &env{
		store:    s,
		mail:     sender,
		registry: reg,
		tokens:   tokens,
		auth: &service.AuthService{
			Store:    s,
			Tokens:   tokens,
			Mail:     mail,
			Listener: &service.VerificationMailer{Store: s, Mail: mail},
			Metrics:  metrics,
		},
		oauth:    &service.OAuth2Service{Store: s, Providers: service.Providers{}, Metrics: metrics},
		settings: &service.SettingsService{Store: s},
	}
}

func registerInput(email string) service.RegisterInput {
	return service.RegisterInput{
		Name:             "Hermione Granger",
		Email:            email,
		Password:         validPassword,
		MatchingPassword: validPassword,
	}
}

// register creates a local account and returns it with its verification token.
func (e *env) register(t *testing.T, email string) (domain.User, domain.VerificationToken) {
	t.Helper()
	ctx := context.Background()

	u, err := e.auth.Register(ctx, registerInput(email))
	require.NoError(t, err)

	tok, err := e.store.VerificationTokens().GetVerificationTokenByUserID(ctx, u.ID)
	require.NoError(t, err)
	return u, tok
}

// requireKind asserts err is a service error of kind wrapping target.
func requireKind(t *testing.T, err error, kind service.Kind, target error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, service.KindOf(err), "got %v", err)
	if target != nil {
		require.ErrorIs(t, err, target)
	}
}

// counter returns the value of a counter series from the registry.
func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

type failingSender struct{}

func (failingSender) Send(context.Context, mailx.Message) error {
	return errors.New("smtp: connection refused")
}
