// Package respond writes the JSON envelope every API endpoint returns:
//
//	{"success": true, "data": ..., "pagination": ..., "cached": true}
//	{"success": false, "error": "...", "errors": [{"field": "...", "message": "..."}]}
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"go.uber.org/zap"
)

// Envelope is the response body shape.
type Envelope struct {
	Success    bool                  `json:"success"`
	Data       any                   `json:"data,omitempty"`
	Message    string                `json:"message,omitempty"`
	Error      string                `json:"error,omitempty"`
	Errors     []inputval.FieldError `json:"errors,omitempty"`
	Pagination any                   `json:"pagination,omitempty"`
	Cached     bool                  `json:"cached,omitempty"`
}

const internalErrorMessage = "Internal server error"

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a successful response that only carries a message.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Page writes a list response with its pagination block.
func Page(w http.ResponseWriter, data, pagination any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: pagination})
}

// Fail writes an unsuccessful response with a single message.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: false, Error: msg})
}

// Invalid writes 400 with the per-field errors of res.
func Invalid(w http.ResponseWriter, res *inputval.Result) {
	JSON(w, http.StatusBadRequest, Envelope{Success: false, Error: res.First(), Errors: res.Errors})
}

// Error maps err onto a status code. Errors outside the apperr taxonomy
// are logged with op and reported as a generic 500.
func Error(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae) && errors.Is(ae.Kind, apperr.ErrInvalid):
		JSON(w, http.StatusBadRequest, Envelope{Success: false, Error: ae.Message, Errors: ae.Fields})
	case errors.Is(err, apperr.ErrInvalid):
		Fail(w, http.StatusBadRequest, apperr.Message(err, "Invalid request."))
	case errors.Is(err, apperr.ErrNotFound):
		Fail(w, http.StatusNotFound, apperr.Message(err, "Not found."))
	case errors.Is(err, apperr.ErrConflict):
		Fail(w, http.StatusConflict, apperr.Message(err, "Already exists."))
	case errors.Is(err, apperr.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, apperr.Message(err, "Authentication required."))
	default:
		if log != nil {
			log.Error(op, zap.Error(err))
		}
		Fail(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// maxBodyBytes caps request bodies decoded by Decode.
const maxBodyBytes = 1 << 20

// Decode reads a JSON request body into dst. Unknown fields are ignored.
// The returned error is client-facing.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apperr.Invalid("", "Request body is required.")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apperr.Invalid("", "Request body is too large.")
		}
		return apperr.Invalid("", "Request body must be valid JSON.")
	}
	return nil
}
