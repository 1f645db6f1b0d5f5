package api

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/lehmer/pkg/errors"
)

// errorBody is the JSON envelope for failed requests.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

// writeError maps err to a status code and writes the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, errors.HTTPStatus(err), err)
}

// writeErrorStatus writes the error envelope with an explicit status.
// Internal errors are logged and reported without their details.
func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	msg := describe(err)

	if code == "" || status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "err", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		msg = http.StatusText(status)
	}

	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

// decode reads a JSON request body into v. Unknown fields and trailing data
// are rejected with INVALID_FORMAT, bodies over the limit with TOO_LARGE.
// The body is read in full first because the JSON decoder does not surface
// *http.MaxBytesError.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return errors.New(errors.ErrCodeTooLarge, "request body exceeds %d bytes", tooBig.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidFormat, "request body must contain a single JSON object")
	}
	return nil
}

// describe joins the messages along a chain of *errors.Error values without
// their code prefixes: "item 1: label cannot be empty".
func describe(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	switch {
	case e.Cause != nil && e.Message == "":
		return describe(e.Cause)
	case e.Cause != nil:
		return e.Message + ": " + describe(e.Cause)
	case e.Message == "":
		return string(e.Code)
	default:
		return e.Message
	}
}

func notFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func methodNotAllowed(r *http.Request) error {
	return errors.New(errors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
}
