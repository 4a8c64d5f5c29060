package http

import (
	"net/http"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

// AuthHandler serves the local account endpoints under /auth.
type AuthHandler struct {
	AuthService *service.AuthService
	Permissions service.PermissionEvaluator
}

// HandleLogin godoc
//
//	@Summary		Log in with email and password
//	@Description	Checks the credentials of a verified local account and returns an HS512 access token in data.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		usersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	usersdk.Response		"data: access token"
//	@Failure		400		{object}	usersdk.Response		"Malformed body"
//	@Failure		401		{object}	usersdk.Response		"Bad credentials or unverified account"
//	@Failure		429		{object}	usersdk.Response		"Rate limited"
//	@Router			/auth/login [patch].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req usersdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, token)
}

// HandleRegister godoc
//
//	@Summary		Register a local account
//	@Description	Creates an unverified account with ROLE_USER and mails a confirmation link.
//	@Description	Validation failures answer 400 with the rejected fields JSON encoded in message and error set to registerDto.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		usersdk.RegisterRequest	true	"Account"
//	@Success		200		{object}	usersdk.Response		"message"
//	@Failure		400		{object}	usersdk.Response		"Validation failed"
//	@Failure		409		{object}	usersdk.Response		"Email already registered"
//	@Failure		500		{object}	usersdk.Response		"Confirmation mail could not be sent"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req usersdk.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		MatchingPassword: req.MatchingPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, i18nx.T(r.Context(), "registration.completed.successfully", u.Email))
}

// HandleConfirm godoc
//
//	@Summary		Confirm an email address
//	@Description	Marks the account owning token as verified. An expired token is returned in data so the client can ask for a new one.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string				true	"Verification token"
//	@Success		200		{object}	usersdk.Response	"message, or data: expired token"
//	@Failure		404		{object}	usersdk.Response	"Unknown token"
//	@Router			/auth/registrationConfirm [put].
func (h *AuthHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	res, err := h.AuthService.ConfirmRegistration(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if res.ExpiredToken != "" {
		httpx.WriteData(w, http.StatusOK, res.ExpiredToken)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, res.Message)
}

// HandleResend godoc
//
//	@Summary		Resend the confirmation email
//	@Description	Replaces oldToken with a fresh token valid for 24 hours and mails it.
//	@Tags			Auth
//	@Produce		json
//	@Param			oldToken	query		string				true	"Previous verification token"
//	@Success		200			{object}	usersdk.Response	"message"
//	@Failure		404			{object}	usersdk.Response	"Unknown token"
//	@Failure		500			{object}	usersdk.Response	"Confirmation mail could not be sent"
//	@Router			/auth/resendRegistrationToken [put].
func (h *AuthHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	msg, err := h.AuthService.ResendRegistrationToken(r.Context(), r.URL.Query().Get("oldToken"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, msg)
}

// HandleCurrentUser godoc
//
//	@Summary		Get the authenticated user
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	usersdk.UserResponse	"id, fullname, avatar"
//	@Failure		401	{object}	usersdk.Response		"Missing or invalid token"
//	@Failure		403	{object}	usersdk.Response		"Missing READ privilege"
//	@Router			/auth/user [get].
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	p := principalFromRequest(r)
	u := h.AuthService.CurrentUser(p)
	if u == nil {
		httpx.WriteUnauthorized(w, r)
		return
	}
	if !h.Permissions.HasPermission(p, u, domain.PermissionRead) {
		httpx.WriteForbidden(w, r)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, usersdk.UserResponse{
		ID:       u.ID,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
	})
}
