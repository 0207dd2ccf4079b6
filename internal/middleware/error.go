package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "prodash/internal/errors"
	"prodash/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error, unless
// a response has already been written. Binding errors become INVALID_INPUT;
// anything that is not an *AppError is logged and hidden behind INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		writeError(c, toAppError(c, last))
	}
}

// NotFound answers unknown routes in the API's error format.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Route not found"))
	}
}

func toAppError(c *gin.Context, ginErr *gin.Error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(ginErr.Err, &appErr):
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
		}
		return appErr
	case ginErr.IsType(gin.ErrorTypeBind):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, ginErr.Error())
	default:
		logger.Get().Errorw("unexpected error",
			"error", ginErr.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		)
		return apperrors.ErrInternalServer
	}
}

func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
