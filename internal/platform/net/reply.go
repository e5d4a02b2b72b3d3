package net

import (
	"net/http"

	perr "covtrend/internal/platform/errors"
)

// Wire is the JSON envelope every endpoint answers with
type Wire struct {
	StatusCode int                 `json:"status_code"`
	Status     string              `json:"status"`
	Code       perr.ErrorCode      `json:"code,omitempty"`
	Error      string              `json:"error,omitempty"`
	Field      string              `json:"field,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
	RequestID  string              `json:"request_id,omitempty"`
	Data       any                 `json:"data,omitempty"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		RequestID:  reqID,
		Data:       data,
	}
}

// Error builds an error envelope
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		Fields:     w.Fields,
		RequestID:  reqID,
	}
}
