package server

import (
	"encoding/json"
	"net/http"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: apperr.UserMessage(err)})
}

func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidID, apperr.ErrCodeInvalidURL,
		apperr.ErrCodeInvalidSelection, apperr.ErrCodeCycle:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound, apperr.ErrCodeCanvasNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
