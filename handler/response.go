package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coachdesk/coachdesk/pkg/validator"
)

// JSONResponse is the envelope of every JSON body: exactly one of Data and
// Error is set, Meta is optional.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail is the body of a failed request.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(j *jsonResponse) { j.status = status }
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(j *jsonResponse) { j.body.Meta = meta }
}

// JSON renders v under "data" with status 200. A JSONResponse is sent as is,
// an error or *ErrorDetail is rendered like JSONError.
func JSON(v any, opts ...JSONOption) Response {
	switch val := v.(type) {
	case JSONResponse:
		return newJSON(http.StatusOK, val, opts)
	case *ErrorDetail, error:
		return JSONError(val, opts...)
	}
	return newJSON(http.StatusOK, JSONResponse{Data: v}, opts)
}

// JSONError renders err under "error". The status comes from an HTTPError or
// validator.ValidationErrors in the chain and defaults to 500.
func JSONError(err any, opts ...JSONOption) Response {
	status := http.StatusInternalServerError
	var body JSONResponse
	switch e := err.(type) {
	case *ErrorDetail:
		body.Error = e
	case error:
		status, body.Error = describe(e)
	}
	return newJSON(status, body, opts)
}

func newJSON(status int, body JSONResponse, opts []JSONOption) *jsonResponse {
	j := &jsonResponse{status: status, body: body}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func describe(err error) (int, *ErrorDetail) {
	msg := err.Error()

	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: msg,
			Details: verrs.Map(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		if msg == httpErr.Key {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: msg}
	}

	return http.StatusInternalServerError, &ErrorDetail{Code: "internal_error", Message: msg}
}

type statusResponse int

func (s statusResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(s))
	return nil
}

// Empty responds 204 without a body.
func Empty() Response { return statusResponse(http.StatusNoContent) }

// EmptyWithStatus responds with status and no body.
func EmptyWithStatus(status int) Response { return statusResponse(status) }
