package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
)

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:         http.StatusBadRequest,
	domainagg.CodeNotFound:           http.StatusNotFound,
	domainagg.CodeAlreadyDeleted:     http.StatusGone,
	domainagg.CodeConflict:           http.StatusConflict,
	domainagg.CodeInvariantViolation: http.StatusConflict,
	domainagg.CodePreconditionFailed: http.StatusPreconditionFailed,
	domainagg.CodeRetryable:          http.StatusServiceUnavailable,
	domainagg.CodeInternal:           http.StatusInternalServerError,
}

// StatusFor maps an aggregate error code to its HTTP status. Unknown codes are 500.
func StatusFor(code domainagg.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts a service error into an apierr.Error. Errors without an
// aggregate code are treated as internal.
func FromError(err error) *apierr.Error {
	var api *apierr.Error
	if errors.As(err, &api) {
		return api
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	return apierr.New(StatusFor(code), string(code), err)
}

// RespondAggregateError writes the error envelope for err, including field
// attributions for validation failures. Internal failures hide their cause.
func RespondAggregateError(c *gin.Context, err error) {
	api := FromError(err)
	env := ErrorEnvelope{Error: APIError{Code: api.Code, Message: clientMessage(api)}}
	for _, f := range domainagg.FieldsOf(err) {
		env.Error.Fields = append(env.Error.Fields, FieldError{Field: f.Field, Message: f.Message})
	}
	_ = c.Error(err)
	c.JSON(api.Status, env)
}

func clientMessage(api *apierr.Error) string {
	if api.Status >= http.StatusInternalServerError && api.Status != http.StatusServiceUnavailable {
		return "internal error"
	}
	var aggErr *domainagg.Error
	if errors.As(api.Err, &aggErr) && aggErr.Message != "" {
		return aggErr.Message
	}
	return api.Error()
}
