package http

import (
	"log/slog"
	"net/http"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

// SettingsHandler serves /user/settings for the authenticated user.
type SettingsHandler struct {
	SettingsService *service.SettingsService
	Permissions     service.PermissionEvaluator
}

// settingType is the authority prefix guarding settings, e.g. SETTING_WRITE.
const settingType = "SETTING"

// allowed answers 403 unless the caller holds permission on the setting.
func (h *SettingsHandler) allowed(w http.ResponseWriter, r *http.Request, id any, permission string) bool {
	if h.Permissions.HasPermissionByID(principalFromRequest(r), id, settingType, permission) {
		return true
	}
	slogx.FromContext(r.Context()).Warn("setting access denied", slog.String("permission", permission))
	httpx.WriteForbidden(w, r)
	return false
}

// HandleList godoc
//
//	@Summary		List settings
//	@Tags			Settings
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		usersdk.SettingResponse
//	@Failure		401	{object}	usersdk.Response	"Missing or invalid token"
//	@Failure		403	{object}	usersdk.Response	"Missing ROLE_USER or SETTING_READ"
//	@Router			/user/settings [get].
func (h *SettingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if !h.allowed(w, r, nil, domain.PermissionRead) {
		return
	}

	settings, err := h.SettingsService.List(r.Context(), u)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]usersdk.SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, toSettingResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create a setting
//	@Description	Stores a setting for the caller. Saving a "locale" setting with a supported value also switches the caller's locale cookie.
//	@Tags			Settings
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		usersdk.SettingRequest	true	"Setting"
//	@Success		200		{object}	usersdk.SettingResponse
//	@Failure		400		{object}	usersdk.Response	"Empty name or malformed body"
//	@Failure		401		{object}	usersdk.Response	"Missing or invalid token"
//	@Failure		403		{object}	usersdk.Response	"Missing SETTING_WRITE"
//	@Router			/user/settings [post].
func (h *SettingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.allowed(w, r, nil, domain.PermissionWrite) {
		return
	}
	var req usersdk.SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.SettingsService.Create(r.Context(), currentUser(r), service.SettingInput{Name: req.Name, Value: req.Value})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSettingResult(w, r, res)
}

// HandleUpdate godoc
//
//	@Summary		Update a setting
//	@Tags			Settings
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Setting id"
//	@Param			body	body		usersdk.SettingRequest	true	"New value"
//	@Success		200		{object}	usersdk.SettingResponse
//	@Failure		401		{object}	usersdk.Response	"Missing or invalid token"
//	@Failure		403		{object}	usersdk.Response	"Missing SETTING_WRITE"
//	@Failure		404		{object}	usersdk.Response	"Unknown setting or owned by another user"
//	@Router			/user/settings/{id} [put].
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.allowed(w, r, r.PathValue("id"), domain.PermissionWrite) {
		return
	}
	var req usersdk.SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.SettingsService.Update(r.Context(), currentUser(r), r.PathValue("id"), service.SettingInput{Name: req.Name, Value: req.Value})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSettingResult(w, r, res)
}

func writeSettingResult(w http.ResponseWriter, r *http.Request, res service.SettingResult) {
	if res.Locale != nil {
		i18nx.SetCookie(w, *res.Locale)
		slogx.FromContext(r.Context()).Info("locale changed", slog.String("locale", res.Locale.String()))
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingResponse(res.Setting))
}

func toSettingResponse(s domain.UserSetting) usersdk.SettingResponse {
	return usersdk.SettingResponse{ID: s.ID, Name: s.Name, Value: s.Value}
}
