package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/pkg/response"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
)

// parseID 解析路径中的ID，失败时直接写出400响应
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithData(c, 400, "无效的"+name+"ID", response.FieldError{Field: "id"}, err)
		return 0, false
	}
	return uint(id), true
}

// bindError 参数绑定失败时返回400
func bindError(c *gin.Context, err error) {
	field, msg := utils.BindErrorMessage(err)
	response.HandleError(c, errs.Invalid(field, msg), "参数错误")
}

// noCache 判断是否跳过缓存
func noCache(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// isClientError 客户端错误无需记录错误日志
func isClientError(err error) bool {
	return errors.Is(err, errs.ErrValidation) || errors.Is(err, errs.ErrNotFound)
}
