package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/pkg/cryptox"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// OAuth2Handler runs the browser side of an OAuth2 login.
type OAuth2Handler struct {
	OAuth2Service *service.OAuth2Service
	TokenService  *service.TokenService
	Requests      *CookieRequestRepository

	// AuthorizedRedirectURIs lists where a token may be sent after login.
	// Only host and port are compared.
	AuthorizedRedirectURIs []string
}

// HandleAuthorize godoc
//
//	@Summary		Start an OAuth2 login
//	@Description	Remembers the request in a short lived cookie and redirects to the provider.
//	@Description	The optional redirect_uri is where the token is delivered after the callback.
//	@Tags			OAuth2
//	@Param			registrationId	path	string	true	"Provider registration id"	Enums(google)
//	@Param			redirect_uri	query	string	false	"Client redirect URI"
//	@Success		302
//	@Router			/login/{registrationId} [get].
func (h *OAuth2Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	registrationID := r.PathValue("registrationId")
	if registrationID == "" {
		registrationID = r.URL.Query().Get("provider")
	}

	// 1. Generate the state bound to this browser
	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 2. Resolve the provider
	target, err := h.OAuth2Service.AuthCodeURL(ctx, registrationID, state)
	if err != nil {
		h.failure(w, r, err)
		return
	}

	// 3. Remember the request, with the redirect URI only when it is authorized
	req := AuthorizationRequest{State: state, RegistrationID: registrationID}
	if uri := r.URL.Query().Get(redirectURIParam); uri != "" {
		if IsAuthorizedRedirectURI(uri, h.AuthorizedRedirectURIs) {
			req.RedirectURI = uri
		} else {
			l.Warn("ignoring unauthorized oauth2 redirect uri", slog.String("redirect_uri", uri))
		}
	}
	if err := h.Requests.Save(w, r, req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	l.Debug("oauth2 login started", slog.String("provider", registrationID))
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		OAuth2 callback
//	@Description	Exchanges the code, reconciles the account and redirects to the client redirect URI with token=<jwt>.
//	@Description	Failures redirect with error=<message>. A missing or unauthorized redirect URI answers 400.
//	@Tags			OAuth2
//	@Param			registrationId	path	string	true	"Provider registration id"
//	@Param			code			query	string	false	"Authorization code"
//	@Param			state			query	string	true	"State"
//	@Success		302
//	@Failure		400	{object}	usersdk.Response	"Missing or unauthorized redirect URI"
//	@Router			/login/oauth2/code/{registrationId} [get].
func (h *OAuth2Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)
	q := r.URL.Query()

	// 1. Match the callback with the request in flight
	req, err := h.Requests.Load(r)
	if err != nil || req.State != q.Get("state") || !strings.EqualFold(req.RegistrationID, r.PathValue("registrationId")) {
		l.Warn("oauth2 callback without matching request", slog.Any("err", err))
		h.failureMessage(w, r, i18nx.T(ctx, "auth.error.state.mismatch"))
		return
	}

	// 2. The provider may report a denied consent
	if providerErr := q.Get("error"); providerErr != "" {
		l.Info("oauth2 provider returned an error", slog.String("error", providerErr))
		h.failureMessage(w, r, providerErr)
		return
	}

	// 3. Exchange, fetch the profile and reconcile
	p, err := h.OAuth2Service.Authenticate(ctx, req.RegistrationID, q.Get("code"))
	if err != nil {
		h.failure(w, r, err)
		return
	}

	// 4. Deliver the token to an authorized client
	redirectURI, ok := h.Requests.RedirectURI(r)
	if !ok {
		h.Requests.Remove(w, r)
		httpx.WriteError(w, http.StatusBadRequest, i18nx.T(ctx, "auth.error.not.found.unauthorized.uri"))
		return
	}
	if !IsAuthorizedRedirectURI(redirectURI, h.AuthorizedRedirectURIs) {
		l.Warn("unauthorized oauth2 redirect uri", slog.String("redirect_uri", redirectURI))
		h.Requests.Remove(w, r)
		httpx.WriteError(w, http.StatusBadRequest, i18nx.T(ctx, "auth.error.unauthorized.uri", redirectURI))
		return
	}

	token, err := h.TokenService.CreateToken(p.User)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Requests.Remove(w, r)
	l.Info("oauth2 login succeeded", slog.String("user_id", p.User.ID), slog.String("provider", req.RegistrationID))
	http.Redirect(w, r, withQuery(redirectURI, "token", token), http.StatusFound)
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the OAuth2 cookies. Access tokens stay valid until they expire.
//	@Tags			OAuth2
//	@Produce		json
//	@Success		200	{object}	usersdk.Response	"message"
//	@Router			/logout [get].
func (h *OAuth2Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Requests.Remove(w, r)
	httpx.WriteMessage(w, http.StatusOK, i18nx.T(r.Context(), "auth.logout.successfully"))
}

func (h *OAuth2Handler) failure(w http.ResponseWriter, r *http.Request, err error) {
	var serr *service.Error
	if !errors.As(err, &serr) {
		slogx.FromContext(r.Context()).Error("oauth2 login failed", slog.Any("err", err))
		h.failureMessage(w, r, i18nx.T(r.Context(), "errors.internal"))
		return
	}
	h.failureMessage(w, r, serr.Message)
}

// failureMessage redirects back to the client with error=message. Only an
// authorized redirect URI is used, anything else falls back to "/".
func (h *OAuth2Handler) failureMessage(w http.ResponseWriter, r *http.Request, message string) {
	target := "/"
	if uri, ok := h.Requests.RedirectURI(r); ok && IsAuthorizedRedirectURI(uri, h.AuthorizedRedirectURIs) {
		target = uri
	}
	h.Requests.Remove(w, r)
	http.Redirect(w, r, withQuery(target, "error", message), http.StatusFound)
}

// IsAuthorizedRedirectURI reports whether uri has the host and port of one
// of the allowed URIs. Hosts compare case-insensitively, ports as written.
func IsAuthorizedRedirectURI(uri string, allowed []string) bool {
	client, err := url.Parse(uri)
	if err != nil || client.Hostname() == "" {
		return false
	}

	for _, a := range allowed {
		au, err := url.Parse(strings.TrimSpace(a))
		if err != nil || au.Hostname() == "" {
			continue
		}
		if strings.EqualFold(au.Hostname(), client.Hostname()) && au.Port() == client.Port() {
			return true
		}
	}
	return false
}

func withQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "/?" + url.Values{key: {value}}.Encode()
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
