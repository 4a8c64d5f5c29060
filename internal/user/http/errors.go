package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

const maxBodyBytes = 1 << 20

// writeServiceError maps a service failure onto the response envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var serr *service.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case service.KindValidation:
			writeValidationError(w, serr.Fields)
			return
		case service.KindBadRequest:
			httpx.WriteError(w, http.StatusBadRequest, serr.Message)
			return
		case service.KindAuthentication:
			httpx.WriteError(w, http.StatusUnauthorized, serr.Message)
			return
		case service.KindForbidden:
			httpx.WriteError(w, http.StatusForbidden, serr.Message)
			return
		case service.KindNotFound:
			httpx.WriteError(w, http.StatusNotFound, serr.Message)
			return
		case service.KindAlreadyExists:
			httpx.WriteError(w, http.StatusConflict, serr.Message)
			return
		case service.KindMail:
			slogx.FromContext(ctx).Error("mail delivery failed", slog.Any("err", serr.Err))
			httpx.WriteError(w, http.StatusInternalServerError, serr.Message)
			return
		}
	}

	slogx.FromContext(ctx).Error("request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	httpx.WriteError(w, http.StatusInternalServerError, i18nx.T(ctx, "errors.internal"))
}

// writeValidationError answers 400 with the rejected fields serialized into
// the message and the DTO name as error.
func writeValidationError(w http.ResponseWriter, fields []usersdk.FieldError) {
	body, err := json.Marshal(fields)
	if err != nil {
		body = []byte("[]")
	}
	httpx.WriteJSON(w, http.StatusBadRequest, usersdk.Response{
		Message: string(body),
		Error:   usersdk.ValidationErrorName,
	})
}

// decodeJSON reads a JSON body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		slogx.FromContext(r.Context()).Debug("malformed request body", slog.Any("err", err))
		httpx.WriteError(w, http.StatusBadRequest, i18nx.T(r.Context(), "errors.invalid.body"))
		return false
	}
	return true
}
