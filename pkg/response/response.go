package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/validation"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
}

// Success writes a success envelope.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}, errs ...string) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
		Errors:    errs,
	}
	ctx.JSON(status, resp)
	return resp
}

// Fail maps a service error to its status code and public message.
func Fail(ctx *gin.Context, err error) {
	msg := apperror.PublicMessage(err)
	Error[any](ctx, apperror.HTTPStatus(err), msg, nil, msg)
}

// Invalid reports a binding or validation failure.
func Invalid(ctx *gin.Context, err error) {
	details := validation.ToDetails(err)
	Error[any](ctx, http.StatusBadRequest, "invalid payload", details, validation.Messages(details)...)
}
