package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"

	_ "github.com/hogwartsschoolofmagic/user/api/user" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	locales *i18nx.Bundle
	metrics *httpx.Metrics

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string
	// TrustedProxies may set X-Forwarded-For and X-Real-IP.
	TrustedProxies []netip.Prefix
	// AuthorizedRedirectURIs receive the token after an OAuth2 login.
	AuthorizedRedirectURIs []string

	TokenService    *service.TokenService
	AuthService     *service.AuthService
	OAuth2Service   *service.OAuth2Service
	SettingsService *service.SettingsService
	Permissions     service.PermissionEvaluator
	Requests        *CookieRequestRepository
}

func NewRouter(
	buildVersion string,
	st store.Store,
	locales *i18nx.Bundle,
	metrics *httpx.Metrics,
	logger *slog.Logger,
) *Router {
	if locales == nil {
		locales = i18nx.Default()
	}
	if metrics == nil {
		metrics = httpx.NewMetrics("user", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		locales:      locales,
		metrics:      metrics,
		logger:       logger,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Services must be set before calling it.
func (r *Router) ApplyRoutes() {
	// The metrics middleware sits next to the mux so it sees the matched pattern.
	r.middlewares = []httpx.Middleware{
		httpx.RealIP(r.TrustedProxies),
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(r.CORSOrigins),
		i18nx.Middleware(r.locales),
		httpx.OptionalAuthn(r.TokenService, r.loadIdentity),
		r.metrics.Middleware(),
	}

	r.registerAuth()
	r.registerSettings()
	r.registerOAuth2()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Hogwarts User Service API
//	@version					0.1.0
//	@description				User accounts for the Hogwarts school: registration with email confirmation, password and Google login, and per-user settings.
//	@description
//	@description				Access tokens are HS512 signed JWTs whose subject is the user id.
//
//	@contact.name				Hogwarts School of Magic
//	@contact.url				https://github.com/hogwartsschoolofmagic/user
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		Permissions: r.Permissions,
	}

	// Credential and signup endpoints - strict rate limit by IP (brute force)
	r.Mux.Handle("PATCH /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit, r.metrics),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit, r.metrics),
		),
	)
	r.Mux.Handle("PUT /auth/registrationConfirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.ModerateLimit, r.metrics),
		),
	)
	// Sends mail - strict
	r.Mux.Handle("PUT /auth/resendRegistrationToken",
		httpx.Chain(http.HandlerFunc(h.HandleResend),
			httpx.RateLimitByIP(httpx.StrictLimit, r.metrics),
		),
	)

	r.Mux.Handle("GET /auth/user",
		httpx.Chain(http.HandlerFunc(h.HandleCurrentUser),
			httpx.RequireAnyAuthority(domain.RoleUser),
			httpx.RateLimitByUser(httpx.LenientLimit, r.metrics),
		),
	)
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{
		SettingsService: r.SettingsService,
		Permissions:     r.Permissions,
	}

	r.Mux.Handle("GET /user/settings",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RequireAnyAuthority(domain.RoleUser),
			httpx.RateLimitByUser(httpx.LenientLimit, r.metrics),
		),
	)
	r.Mux.Handle("POST /user/settings",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RequireAnyAuthority(domain.RoleUser),
			httpx.RateLimitByUser(httpx.ModerateLimit, r.metrics),
		),
	)
	r.Mux.Handle("PUT /user/settings/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.RequireAnyAuthority(domain.RoleUser),
			httpx.RateLimitByUser(httpx.ModerateLimit, r.metrics),
		),
	)
}

func (r *Router) registerOAuth2() {
	h := &OAuth2Handler{
		OAuth2Service:          r.OAuth2Service,
		TokenService:           r.TokenService,
		Requests:               r.Requests,
		AuthorizedRedirectURIs: r.AuthorizedRedirectURIs,
	}

	// Browser redirects - moderate rate limit by IP
	authorize := httpx.Chain(http.HandlerFunc(h.HandleAuthorize),
		httpx.RateLimitByIP(httpx.ModerateLimit, r.metrics),
	)
	r.Mux.Handle("GET /login", authorize)
	r.Mux.Handle("GET /login/{registrationId}", authorize)

	r.Mux.Handle("GET /login/oauth2/code/{registrationId}",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit, r.metrics),
		),
	)

	r.Mux.Handle("GET /logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit, r.metrics),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit, r.metrics),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit, r.metrics),
		),
	)

	// Scrapers and docs - public rate limit
	r.Mux.Handle("GET /metrics",
		httpx.Chain(r.metrics.Handler(),
			httpx.RateLimitByIP(httpx.PublicLimit, r.metrics),
		),
	)
	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(httpx.PublicLimit, r.metrics),
		),
	)
}

// loadIdentity turns the subject of a valid token into the request identity.
func (r *Router) loadIdentity(ctx context.Context, userID string) (*httpx.Identity, error) {
	p, err := r.AuthService.LoadPrincipal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &httpx.Identity{
		UserID:      p.User.ID,
		Authorities: p.Authorities,
		Principal:   p,
	}, nil
}

func principalFromRequest(r *http.Request) *domain.Principal {
	id := httpx.IdentityFromContext(r.Context())
	if id == nil {
		return nil
	}
	p, _ := id.Principal.(*domain.Principal)
	return p
}

// currentUser is the authenticated user; routes using it are guarded.
func currentUser(r *http.Request) *domain.User {
	p := principalFromRequest(r)
	if p == nil {
		return nil
	}
	return p.User
}
