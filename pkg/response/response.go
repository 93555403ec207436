package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/errs"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`    // 状态码
	Message string `json:"message"` // 响应消息
	Data    any    `json:"data"`    // 响应数据
}

// FieldError 参数错误详情
type FieldError struct {
	Field string `json:"field"`
}

// UpstreamDetail 第三方接口错误详情
type UpstreamDetail struct {
	Endpoint   string `json:"endpoint"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功响应
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string, err error) {
	ErrorWithData(c, code, message, nil, err)
}

// ErrorWithData 带详情的错误响应
func ErrorWithData(c *gin.Context, code int, message string, data any, err error) {
	// 记录详细错误信息，但不向客户端暴露
	if err != nil {
		_ = c.Error(err)
	}

	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string, err error) {
	Error(c, http.StatusNotFound, message, err)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, err)
}

// HandleError 按错误分类返回对应状态码，fallback 为未分类错误的提示
func HandleError(c *gin.Context, err error, fallback string) {
	var ve *errs.ValidationError
	var ue *errs.UpstreamError
	switch {
	case errors.As(err, &ve):
		ErrorWithData(c, http.StatusBadRequest, ve.Error(), FieldError{Field: ve.Field}, err)
	case errors.Is(err, errs.ErrValidation):
		BadRequest(c, err.Error(), err)
	case errors.Is(err, errs.ErrNotFound):
		NotFound(c, err.Error(), err)
	case errors.As(err, &ue):
		ErrorWithData(c, http.StatusBadGateway, "新闻服务暂不可用", UpstreamDetail{
			Endpoint:   ue.Endpoint,
			StatusCode: ue.StatusCode,
			Message:    ue.Message,
		}, err)
	default:
		InternalServerError(c, fallback, err)
	}
}
