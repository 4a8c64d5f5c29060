package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	userhttp "github.com/hogwartsschoolofmagic/user/internal/user/http"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"github.com/hogwartsschoolofmagic/user/pkg/mailx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	password    = "Alohom0ra!"
	clientCB    = "http://localhost:3000/oauth2/redirect"
	testVersion = "test"
)

type testServer struct {
	srv    *httptest.Server
	client *usersdk.Client
	store  *sqlite.Store
	mail   *mailx.LogSender
	tokens *service.TokenService
	oauth  *service.OAuth2Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	key, err := jwtx.NewHMACKey([]byte("a-very-long-test-secret-that-is-at-least-32-bytes"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics("user", reg)
	sender := mailx.NewLogSender()
	mail := &service.MailService{Sender: sender, ConfirmURL: "http://localhost:3000/confirm", Metrics: metrics}
	tokens := &service.TokenService{Key: key, TTL: time.Hour}
	oauth := &service.OAuth2Service{Store: s, Providers: service.Providers{}, Metrics: metrics}

	r := userhttp.NewRouter(testVersion, s, i18nx.Default(), httpx.NewMetrics("user", reg), slogx.Discard())
	r.TokenService = tokens
	r.AuthService = &service.AuthService{
		Store:    s,
		Tokens:   tokens,
		Mail:     mail,
		Listener: &service.VerificationMailer{Store: s, Mail: mail},
		Metrics:  metrics,
	}
	r.OAuth2Service = oauth
	r.SettingsService = &service.SettingsService{Store: s, Locales: i18nx.Default()}
	r.Requests = userhttp.NewCookieRequestRepository([]byte("cookie-secret-cookie-secret-0123"), false)
	r.AuthorizedRedirectURIs = []string{clientCB}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:    srv,
		client: usersdk.NewClient(srv.URL),
		store:  s,
		mail:   sender,
		tokens: tokens,
		oauth:  oauth,
	}
}

func registerRequest(email string) usersdk.RegisterRequest {
	return usersdk.RegisterRequest{
		Name:             "Luna Lovegood",
		Email:            email,
		Password:         password,
		MatchingPassword: password,
	}
}

// verifiedSession registers, confirms and logs in a local account.
func (ts *testServer) verifiedSession(t *testing.T, email string) *usersdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := ts.client.Register(ctx, registerRequest(email))
	require.NoError(t, err)

	u, err := ts.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	tok, err := ts.store.VerificationTokens().GetVerificationTokenByUserID(ctx, u.ID)
	require.NoError(t, err)

	_, err = ts.client.ConfirmRegistration(ctx, tok.Value)
	require.NoError(t, err)

	session, err := ts.client.Login(ctx, email, password)
	require.NoError(t, err)
	return session
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	live, err := ts.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, testVersion, live.Version)
	require.Nil(t, live.Checks)

	ready, err := ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)

	resp, err := http.Get(ts.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `user_http_requests_total{code="200",method="GET",route="GET /livez"} 1`)
	require.Equal(t, strconv.Itoa(httpx.PublicLimit.Requests), resp.Header.Get("X-RateLimit-Limit"))
}

func TestRegistrationAndLogin(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	email := "luna@hogwarts.example"

	t.Run("register", func(t *testing.T) {
		msg, err := ts.client.Register(ctx, registerRequest(email))
		require.NoError(t, err)
		require.Contains(t, msg, email)

		sent, ok := ts.mail.Last()
		require.True(t, ok)
		require.Equal(t, email, sent.To)
		require.Contains(t, sent.HTML, "http://localhost:3000/confirm?token=")
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := ts.client.Register(ctx, registerRequest(email))
		require.True(t, usersdk.IsStatus(err, http.StatusConflict), "got %v", err)
	})

	t.Run("validation", func(t *testing.T) {
		req := registerRequest("not-an-email")
		req.MatchingPassword = "different"
		_, err := ts.client.Register(ctx, req)

		apiErr, ok := usersdk.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, usersdk.ValidationErrorName, apiErr.Name)

		var fields []string
		for _, f := range apiErr.FieldErrors() {
			fields = append(fields, f.Field)
		}
		require.Equal(t, []string{"email", "matchingPassword"}, fields)
	})

	t.Run("login before confirmation", func(t *testing.T) {
		_, err := ts.client.Login(ctx, email, password)
		require.True(t, usersdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)
	})

	t.Run("confirm and login", func(t *testing.T) {
		u, err := ts.store.Users().GetUserByEmail(ctx, email)
		require.NoError(t, err)
		tok, err := ts.store.VerificationTokens().GetVerificationTokenByUserID(ctx, u.ID)
		require.NoError(t, err)

		res, err := ts.client.ConfirmRegistration(ctx, tok.Value)
		require.NoError(t, err)
		require.False(t, res.Expired())
		require.NotEmpty(t, res.Message)

		session, err := ts.client.Login(ctx, email, password)
		require.NoError(t, err)

		me, err := session.CurrentUser(ctx)
		require.NoError(t, err)
		require.Equal(t, u.ID, me.ID)
		require.Equal(t, "Luna Lovegood", me.Fullname)
	})
}

func TestBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.client.Login(ctx, "nobody@hogwarts.example", password)
	apiErr, ok := usersdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Bad credentials", apiErr.Message)

	ts.client.Locale = "ru"
	_, err = ts.client.Login(ctx, "nobody@hogwarts.example", password)
	apiErr, ok = usersdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "Неверные учетные данные", apiErr.Message)

	resp, err := http.Post(ts.srv.URL+"/auth/register", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfirmation(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	email := "neville@hogwarts.example"

	_, err := ts.client.Register(ctx, registerRequest(email))
	require.NoError(t, err)
	u, err := ts.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	tok, err := ts.store.VerificationTokens().GetVerificationTokenByUserID(ctx, u.ID)
	require.NoError(t, err)

	t.Run("unknown token", func(t *testing.T) {
		_, err := ts.client.ConfirmRegistration(ctx, "no-such-token")
		require.True(t, usersdk.IsStatus(err, http.StatusNotFound), "got %v", err)
	})

	t.Run("expired token returns the stale value", func(t *testing.T) {
		require.NoError(t, ts.store.VerificationTokens().UpdateVerificationToken(ctx, tok.ID, tok.Value, time.Now().Add(-time.Minute)))

		res, err := ts.client.ConfirmRegistration(ctx, tok.Value)
		require.NoError(t, err)
		require.True(t, res.Expired())
		require.Equal(t, tok.Value, res.ExpiredToken)
	})

	t.Run("resend issues a new token", func(t *testing.T) {
		before := len(ts.mail.Sent())
		msg, err := ts.client.ResendRegistrationToken(ctx, tok.Value)
		require.NoError(t, err)
		require.NotEmpty(t, msg)
		require.Len(t, ts.mail.Sent(), before+1)

		fresh, err := ts.store.VerificationTokens().GetVerificationTokenByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, tok.Value, fresh.Value)

		res, err := ts.client.ConfirmRegistration(ctx, fresh.Value)
		require.NoError(t, err)
		require.False(t, res.Expired())
	})
}

func TestProtectedRoutes(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.client.NewSession("").CurrentUser(ctx)
	require.True(t, usersdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)

	_, err = ts.client.NewSession("garbage").ListSettings(ctx)
	require.True(t, usersdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)

	// Valid signature, user gone
	ghost := &domain.User{BaseEntity: domain.BaseEntity{ID: "01GHOST0000000000000000000"}}
	token, err := ts.tokens.CreateToken(ghost)
	require.NoError(t, err)
	_, err = ts.client.NewSession(token).CurrentUser(ctx)
	require.True(t, usersdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	session := ts.verifiedSession(t, "ginny@hogwarts.example")

	created, err := session.CreateSetting(ctx, usersdk.SettingRequest{Name: "theme", Value: "dark"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "dark", created.Value)

	updated, err := session.UpdateSetting(ctx, created.ID, usersdk.SettingRequest{Value: "light"})
	require.NoError(t, err)
	require.Equal(t, "theme", updated.Name)
	require.Equal(t, "light", updated.Value)

	list, err := session.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "light", list[0].Value)

	_, err = session.UpdateSetting(ctx, "missing", usersdk.SettingRequest{Value: "x"})
	require.True(t, usersdk.IsStatus(err, http.StatusNotFound), "got %v", err)

	_, err = session.CreateSetting(ctx, usersdk.SettingRequest{Name: " "})
	require.True(t, usersdk.IsStatus(err, http.StatusBadRequest), "got %v", err)

	t.Run("locale setting switches the locale cookie", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/user/settings", strings.NewReader(`{"name":"locale","value":"ru"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+session.Token())

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var lang *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == i18nx.CookieName {
				lang = c
			}
		}
		require.NotNil(t, lang)
		require.Equal(t, "ru", lang.Value)
	})

	t.Run("other users settings are not found", func(t *testing.T) {
		other := ts.verifiedSession(t, "fred@hogwarts.example")
		_, err := other.UpdateSetting(ctx, created.ID, usersdk.SettingRequest{Value: "stolen"})
		require.True(t, usersdk.IsStatus(err, http.StatusNotFound), "got %v", err)
	})

	t.Run("read only privileges cannot write", func(t *testing.T) {
		h := &userhttp.SettingsHandler{}
		p := &domain.Principal{
			User:        &domain.User{BaseEntity: domain.BaseEntity{ID: "reader"}},
			Authorities: []string{domain.RoleUser, domain.PrivilegeSettingRead},
		}
		withPrincipal := func(r *http.Request) *http.Request {
			return r.WithContext(httpx.WithIdentity(r.Context(), &httpx.Identity{
				UserID:      p.User.ID,
				Authorities: p.Authorities,
				Principal:   p,
			}))
		}

		rec := httptest.NewRecorder()
		h.HandleCreate(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/user/settings", strings.NewReader(`{"name":"theme","value":"dark"}`))))
		require.Equal(t, http.StatusForbidden, rec.Code)

		req := withPrincipal(httptest.NewRequest(http.MethodPut, "/user/settings/s1", strings.NewReader(`{"value":"dark"}`)))
		req.SetPathValue("id", "s1")
		rec = httptest.NewRecorder()
		h.HandleUpdate(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// fakeGoogle is a provider answering the token exchange and userinfo calls.
func fakeGoogle(t *testing.T, email string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sub":     "1234567890",
			"name":    "Cho Chang",
			"email":   email,
			"picture": "https://lh3.example/cho.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (ts *testServer) withGoogle(t *testing.T, email string) *httptest.Server {
	t.Helper()
	provider := fakeGoogle(t, email)
	google := service.NewGoogleProvider("client-id", "client-secret", ts.srv.URL+"/login/oauth2/code/google")
	google.OAuth2.Endpoint = oauth2.Endpoint{
		AuthURL:   provider.URL + "/auth",
		TokenURL:  provider.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	google.UserInfoURL = provider.URL + "/userinfo"
	ts.oauth.Providers[service.RegistrationGoogle] = google
	return provider
}

func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

// startLogin begins a login and returns the provider redirect and the cookies set.
func (ts *testServer) startLogin(t *testing.T, path string) (*url.URL, []*http.Cookie) {
	t.Helper()
	resp, err := noRedirect().Get(ts.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := resp.Location()
	require.NoError(t, err)
	return loc, resp.Cookies()
}

func (ts *testServer) callback(t *testing.T, query url.Values, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/login/oauth2/code/google?"+query.Encode(), nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := noRedirect().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestOAuth2Login(t *testing.T) {
	ts := newTestServer(t)
	provider := ts.withGoogle(t, "cho@hogwarts.example")

	t.Run("success", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape(clientCB))
		require.True(t, strings.HasPrefix(loc.String(), provider.URL+"/auth"))
		state := loc.Query().Get("state")
		require.NotEmpty(t, state)
		require.Len(t, cookies, 2)

		resp := ts.callback(t, url.Values{"state": {state}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)

		target, err := resp.Location()
		require.NoError(t, err)
		require.Equal(t, "localhost:3000", target.Host)
		token := target.Query().Get("token")
		require.True(t, ts.tokens.Validate(context.Background(), token))

		me, err := ts.client.NewSession(token).CurrentUser(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Cho Chang", me.Fullname)
		require.Equal(t, "https://lh3.example/cho.png", me.Avatar)

		u, err := ts.store.Users().GetUserByEmail(context.Background(), "cho@hogwarts.example")
		require.NoError(t, err)
		require.Equal(t, domain.ProviderGoogle, u.Provider)
		require.True(t, u.EmailVerified)
	})

	t.Run("provider query parameter", func(t *testing.T) {
		loc, _ := ts.startLogin(t, "/login?provider=google")
		require.True(t, strings.HasPrefix(loc.String(), provider.URL+"/auth"))
	})

	t.Run("state mismatch", func(t *testing.T) {
		_, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape(clientCB))
		resp := ts.callback(t, url.Values{"state": {"forged"}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)

		target, err := resp.Location()
		require.NoError(t, err)
		require.Equal(t, "localhost:3000", target.Host)
		require.NotEmpty(t, target.Query().Get("error"))
		require.Empty(t, target.Query().Get("token"))
	})

	t.Run("exchange failure", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape(clientCB))
		resp := ts.callback(t, url.Values{"state": {loc.Query().Get("state")}, "code": {"bad-code"}}, cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)

		target, err := resp.Location()
		require.NoError(t, err)
		require.NotEmpty(t, target.Query().Get("error"))
	})

	t.Run("missing redirect uri", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google")
		require.Len(t, cookies, 1)
		resp := ts.callback(t, url.Values{"state": {loc.Query().Get("state")}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unauthorized redirect uri", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape("https://evil.example/cb"))
		require.Len(t, cookies, 1, "an unauthorized redirect uri is not remembered")
		resp := ts.callback(t, url.Values{"state": {loc.Query().Get("state")}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("forged redirect cookie", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape(clientCB))
		for _, c := range cookies {
			if c.Name == "redirect_uri" {
				c.Value = "https://evil.example/cb"
			}
		}
		resp := ts.callback(t, url.Values{"state": {loc.Query().Get("state")}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("tampered request cookie", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/google?redirect_uri="+url.QueryEscape(clientCB))
		for _, c := range cookies {
			if c.Name == "oauth2_auth_request" {
				first := "x"
				if c.Value[0] == 'x' {
					first = "y"
				}
				c.Value = first + c.Value[1:]
			}
		}
		resp := ts.callback(t, url.Values{"state": {loc.Query().Get("state")}, "code": {"good-code"}}, cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)

		target, err := resp.Location()
		require.NoError(t, err)
		require.NotEmpty(t, target.Query().Get("error"))
		require.Empty(t, target.Query().Get("token"))
	})

	t.Run("unsupported provider", func(t *testing.T) {
		loc, cookies := ts.startLogin(t, "/login/github")
		for _, c := range cookies {
			require.Empty(t, c.Value, c.Name)
		}
		require.Equal(t, "/", loc.Path)
		require.Contains(t, loc.Query().Get("error"), "github")
	})
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	msg, err := ts.client.Logout(context.Background())
	require.NoError(t, err)
	require.Equal(t, "You have been logged out", msg)

	resp, err := http.Get(ts.srv.URL + "/logout")
	require.NoError(t, err)
	defer resp.Body.Close()
	names := map[string]int{}
	for _, c := range resp.Cookies() {
		names[c.Name] = c.MaxAge
	}
	require.Equal(t, -1, names["oauth2_auth_request"])
	require.Equal(t, -1, names["redirect_uri"])
}

func TestIsAuthorizedRedirectURI(t *testing.T) {
	allowed := []string{"https://app.example.com:8443/x", "http://localhost:3000/oauth2/redirect", "https://Hogwarts.example/cb"}

	tests := []struct {
		uri  string
		want bool
	}{
		{"https://app.example.com:8443/cb", true},
		{"https://APP.example.com:8443/other?x=1", true},
		{"https://evil.example.com:8443/cb", false},
		{"https://app.example.com/cb", false},
		{"http://localhost:3000/anything", true},
		{"http://localhost:3001/oauth2/redirect", false},
		{"https://hogwarts.example/other", true},
		{"https://hogwarts.example:443/cb", false},
		{"http://hogwarts.example/cb", true},
		{"not a url", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			require.Equal(t, tt.want, userhttp.IsAuthorizedRedirectURI(tt.uri, allowed))
		})
	}
}
