// Package httputil holds the JSON request/response helpers shared by all
// handlers so error envelopes stay consistent.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON error envelope: the machine code, the
// untranslated detail, and the notice shown to the user.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Notice           string `json:"notice,omitempty"`
}

// Validatable is implemented by request DTOs. Validate trims, checks, and
// parses fields in place.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a domain error without a localized notice. Internal
// errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, dErrors.HTTPStatus(dErrors.GetCode(err)), envelope(err))
}

// WriteErrorContext renders a domain error with a notice in the request's
// locale. Upstream failures the classifier could not name carry the raw
// collaborator message as their notice.
func WriteErrorContext(ctx context.Context, w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	resp := envelope(err)
	l := requestcontext.Locale(ctx)
	switch code {
	case dErrors.CodeInternal:
		resp.Notice = locale.T(l, locale.NoticeUnexpected)
	case dErrors.CodeUpstream:
		resp.Notice = resp.ErrorDescription
		if resp.Notice == "" {
			resp.Notice = locale.T(l, locale.NoticeUnexpected)
		}
	default:
		if msg, ok := locale.ForCode(l, code); ok {
			resp.Notice = msg
		}
	}
	WriteJSON(w, dErrors.HTTPStatus(code), resp)
}

func envelope(err error) ErrorResponse {
	code := dErrors.GetCode(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.Message(err)
	}
	return resp
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method.
// On failure the error response is already written and ok is false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestID,
			"error", err,
		)
		WriteErrorContext(ctx, w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
			WriteErrorContext(ctx, w, err)
			return nil, false
		}
	}
	return &req, true
}
