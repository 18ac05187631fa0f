package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/phallocators/allocviz/pkg/errors"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// statusFor maps an error to its HTTP status and wire code.
func statusFor(err error) (int, errors.Code) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}

	code := errors.GetCode(err)
	switch {
	case errors.IsValidation(err), errors.IsConfiguration(err):
		return http.StatusBadRequest, code
	case code == errors.ErrCodeInvalidKind, code == errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest, code
	case code == errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType, code
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound, code
	}
	return http.StatusInternalServerError, errors.ErrCodeInternal
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	} else if cause := stderrors.Unwrap(firstCoded(err)); cause != nil {
		msg += ": " + cause.Error()
	}
	if status == http.StatusRequestEntityTooLarge {
		msg = "request body too large"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// firstCoded returns the outermost *errors.Error in the chain, or err.
func firstCoded(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
