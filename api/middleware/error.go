package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/fyerfyer/doc-summarizer/api/model"
	"github.com/fyerfyer/doc-summarizer/internal/document"
	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/fyerfyer/doc-summarizer/internal/summary"
	"github.com/fyerfyer/doc-summarizer/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误类型常量
const (
	ErrorTypeValidation = "VALIDATION_ERROR" // 输入验证错误
	ErrorTypeNotFound   = "NOT_FOUND_ERROR"  // 资源不存在
	ErrorTypeConflict   = "CONFLICT_ERROR"   // 文档状态不允许当前操作
	ErrorTypeBusiness   = "BUSINESS_ERROR"   // 业务逻辑错误
	ErrorTypeInternal   = "INTERNAL_ERROR"   // 内部错误
)

// AppError 应用错误，Code为HTTP状态码
type AppError struct {
	Type    string
	Message string
	Details string
	Code    int
}

func (e AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType string, code int, message string, details []string) AppError {
	return AppError{
		Type:    errType,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    code,
	}
}

// NewValidationError 创建输入验证错误
func NewValidationError(message string, details ...string) AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(message string) AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, nil)
}

// NewConflictError 创建资源状态冲突错误
func NewConflictError(message string, details ...string) AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewBusinessError 创建业务逻辑错误
func NewBusinessError(message string, details ...string) AppError {
	return newAppError(ErrorTypeBusiness, http.StatusBadRequest, message, details)
}

// NewInternalError 创建内部错误
func NewInternalError(message string, details ...string) AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// domainErrors 服务层哨兵错误到API错误的映射，按顺序匹配
var domainErrors = []struct {
	target error
	build  func(err error) AppError
}{
	{models.ErrDocumentNotFound, func(error) AppError { return NewNotFoundError("文档不存在") }},
	{taskqueue.ErrTaskNotFound, func(error) AppError { return NewNotFoundError("任务未找到") }},
	{models.ErrSummaryNotReady, func(err error) AppError { return NewConflictError("文档摘要尚未生成", err.Error()) }},
	{models.ErrInvalidDocumentStatus, func(err error) AppError { return NewConflictError("文档状态不允许此操作", err.Error()) }},
	{document.ErrUnsupportedFormat, func(err error) AppError { return NewValidationError("不支持的文件类型", err.Error()) }},
	{services.ErrAsyncDisabled, func(error) AppError { return NewBusinessError("未启用异步任务队列") }},
	{summary.ErrInvariantViolation, func(err error) AppError { return NewInternalError("摘要计算内部错误", err.Error()) }},
}

// classifyError 将任意错误转换为AppError
// 第二个返回值表示是否为已知错误
func classifyError(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	var appErrPtr *AppError
	if errors.As(err, &appErrPtr) && appErrPtr != nil {
		return *appErrPtr, true
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.target) {
			return d.build(err), true
		}
	}
	return NewInternalError("Internal server error", err.Error()), false
}

// ErrorMiddleware 统一错误处理中间件，负责panic恢复和c.Errors的响应
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(logrus.Fields{
					"error": rec,
					"stack": string(debug.Stack()),
					"path":  c.Request.URL.Path,
				}).Error("Panic recovered in API request")

				resp := model.NewErrorResponse(http.StatusInternalServerError, "An unexpected error occurred")
				if gin.Mode() == gin.DebugMode {
					resp.Message = fmt.Sprintf("Panic: %v", rec)
				}
				resp.TraceID = traceIDFrom(c)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		traceID := traceIDFrom(c)
		appErr, known := classifyError(err)

		entry := log.WithFields(logrus.Fields{
			"error_type": appErr.Type,
			"trace_id":   traceID,
			"path":       c.Request.URL.Path,
		})
		if appErr.Code >= http.StatusInternalServerError {
			entry.WithError(err).Error(appErr.Message)
		} else {
			entry.Warn(appErr.Message)
		}

		resp := model.NewErrorResponse(appErr.Code, appErr.Message)
		// 未知错误只在调试模式下暴露原始信息
		if !known && gin.Mode() == gin.DebugMode {
			resp.Message = err.Error()
		}
		resp.TraceID = traceID

		c.JSON(appErr.Code, resp)
		c.Abort()
	}
}

func traceIDFrom(c *gin.Context) string {
	if v, ok := c.Get("TraceID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// HandleError 在处理器中记录错误，由ErrorMiddleware统一响应
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
}
