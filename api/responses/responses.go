// Package responses renders the JSON envelope every endpoint shares.
// Successful payloads carry {"status":"success","data":...}; failures carry
// {"status":"fail"|"error","message":...} with the split decided by the
// HTTP status class.
package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

// verbose widens error payloads with the internal error chain. Only enabled
// in development.
var verbose bool

// SetVerbose toggles developer-grade error payloads. Call once at startup.
func SetVerbose(enabled bool) {
	verbose = enabled
}

// Envelope is the uniform response shape.
type Envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteSuccess renders a 200 success envelope wrapping data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus renders a success envelope with an explicit status code.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Status: "success", Data: data})
}

// WriteList renders a success envelope for collection endpoints, including
// the item count alongside the data.
func WriteList(w http.ResponseWriter, results int, data any) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Results: &results, Data: data})
}

// WriteToken renders a success envelope that carries a fresh JWT next to
// the data payload.
func WriteToken(w http.ResponseWriter, status int, token string, data any) {
	writeJSON(w, status, Envelope{Status: "success", Token: token, Data: data})
}

// WriteNoContent renders an empty-body 204.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError normalizes err into the error envelope, logging the full chain
// while keeping the public payload terse. Non-operational errors always
// render the generic message; operational ones surface their own.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if meta.Operational {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := Envelope{
		Status:  pkgerrors.StatusTag(meta.HTTPStatus),
		Message: msg,
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}

	dump := pkgerrors.Dump(err)
	if verbose {
		payload.Error = dump
	}

	if logg != nil {
		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
