package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/roach88/shelter/internal/model"
)

// codeInternal is reported for failures that carry no *model.Error.
const codeInternal = "INTERNAL"

// maxBodyBytes caps request bodies; resident and service payloads are tiny.
const maxBodyBytes = 1 << 16

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to its HTTP status.
func statusFor(code model.ErrorCode) int {
	switch code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeDuplicate:
		return http.StatusConflict
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates err into the JSON error envelope. Store and
// unexpected failures are logged and reported without their cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *model.Error
	if !errors.As(err, &e) || e.Code == model.ErrCodeStore {
		s.logger.ErrorContext(r.Context(), "request failed",
			"request_id", RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		code := codeInternal
		if e != nil {
			code = string(e.Code)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    code,
			Message: "internal error",
		}})
		return
	}

	writeJSON(w, statusFor(e.Code), errorResponse{Error: errorBody{
		Code:    string(e.Code),
		Message: e.Message,
		Field:   e.Field,
	}})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewValidationError("body", "request body is required")
		}
		return model.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	return nil
}

// queryLimit parses an optional non-negative ?limit= value; absent means 0.
func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, model.NewValidationError("limit", "must be a non-negative whole number")
	}
	return n, nil
}

// pathID parses the {id} URL parameter.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "must be a positive whole number")
	}
	return id, nil
}

// logWriteFailure records a response body that could not be sent.
func (s *Server) logWriteFailure(r *http.Request, err error) {
	s.logger.WarnContext(r.Context(), "failed to write response",
		"request_id", RequestID(r.Context()),
		"error", err,
		"path", r.URL.Path,
	)
}
