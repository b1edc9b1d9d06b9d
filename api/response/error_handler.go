package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"posimarket/domain/shared"
	"posimarket/pkg/errors"
	"posimarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:       http.StatusInternalServerError,
	errors.CodeBadRequest:     http.StatusBadRequest,
	errors.CodeValidation:     http.StatusBadRequest,
	errors.CodeUnauthorized:   http.StatusUnauthorized,
	errors.CodeForbidden:      http.StatusForbidden,
	errors.CodeNotFound:       http.StatusNotFound,
	errors.CodeConflict:       http.StatusConflict,
	errors.CodeTooManyRequest: http.StatusTooManyRequests,
	errors.CodeTimeout:        http.StatusGatewayTimeout,

	errors.CodeInvalidPostalCode: http.StatusBadRequest,
	errors.CodeEmptyItems:        http.StatusBadRequest,

	errors.CodeProductNotFound: http.StatusNotFound,
	errors.CodeBuyerNotFound:   http.StatusNotFound,
	errors.CodeOrderNotFound:   http.StatusNotFound,

	errors.CodeInsufficientStock: http.StatusConflict,
	errors.CodeDuplicatePayment:  http.StatusConflict,
	errors.CodeConcurrentModify:  http.StatusConflict,

	errors.CodeSellerMismatch:            http.StatusUnprocessableEntity,
	errors.CodeShippingOptionUnavailable: http.StatusUnprocessableEntity,
	errors.CodeInvalidTransition:         http.StatusUnprocessableEntity,
	errors.CodePaymentAmountMismatch:     http.StatusUnprocessableEntity,
	errors.CodeNotPayable:                http.StatusUnprocessableEntity,
	errors.CodePaymentRequired:           http.StatusUnprocessableEntity,
	errors.CodeCancelWithParent:          http.StatusUnprocessableEntity,
}

// StatusFor HTTP status of an error code; unknown codes are 500
func StatusFor(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError framework level failures such as a body that does not parse
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := getRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.AbortWithStatusJSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleBindError answers a failed ShouldBind. Validation failures name the
// first offending field; anything else is a malformed body.
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) || len(verrs) == 0 {
		HandleError(c, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	first := verrs[0]
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	appErr := errors.Validation("invalid request parameters")
	if first.Tag() == "postalcode" {
		appErr = errors.New(errors.CodeInvalidPostalCode, "postal code must have 8 digits")
	}
	appErr.Field = first.Field()
	appErr.Details = details
	appErr.Err = err
	HandleAppError(c, appErr)
}

// HandleAppError maps err to its code and status, logs it with the stack of
// where it was raised and answers without leaking internals.
func HandleAppError(c *gin.Context, err error) {
	requestID := getRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := StatusFor(appErr.Code)
	stack := extractStack(err)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
		zap.Strings("stack", stack),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if httpStatus >= http.StatusInternalServerError {
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	resp := &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Field:     appErr.Field,
		Details:   appErr.Details,
		Code:      httpStatus,
		RequestID: requestID,
	}
	if appErr.Code == errors.CodeInternal {
		resp.Message = "internal server error"
		resp.Field = ""
		resp.Details = nil
	}
	c.AbortWithStatusJSON(httpStatus, resp)
}

func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
