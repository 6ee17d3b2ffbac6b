package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"HealthRocket/pkg/errors"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse is the envelope for every successful request.
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := errors.AsDefinition(err)
	if !ok {
		return http.StatusInternalServerError
	}

	if errors.IsIneligible(def) {
		return http.StatusConflict // 409
	}

	switch def.Code {
	case errors.InvalidRequest.Code, errors.InvalidUserID.Code, errors.InvalidTZ.Code:
		return http.StatusBadRequest // 400
	case errors.Unauthorized.Code:
		return http.StatusUnauthorized // 401
	case errors.UnknownChallenge.Code, errors.UnknownBoost.Code, errors.UserNotFound.Code:
		return http.StatusNotFound // 404
	case errors.Busy.Code, errors.TooManyRequests.Code:
		return http.StatusTooManyRequests // 429
	case errors.StoreUnavailable.Code:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

func Error(ctx context.Context, c *app.RequestContext, err error) {
	ErrorWithDetails(ctx, c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := errors.AsDefinition(err); ok {
		code = def.Code
		message = def.Message
	} else {
		// never leak raw internal errors to the client
		code = "INTERNAL_ERROR"
		message = "Internal error"
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    errors.InvalidRequest.Code,
			Message: err.Error(),
		},
	})
}
