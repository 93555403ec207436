package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatValidationError 将校验错误转换为可读信息，只返回第一条
func FormatValidationError(errs validator.ValidationErrors) string {
	msgMap := map[string]string{
		"required": "不能为空",
		"min":      "不能小于%v",
		"max":      "长度不能大于%v",
		"oneof":    "必须是[%v]中的一个",
		"gt":       "必须大于%v",
		"gte":      "必须大于等于%v",
		"lt":       "必须小于%v",
		"lte":      "必须小于等于%v",
	}

	fieldMap := map[string]string{
		"Title":       "标题",
		"Content":     "内容",
		"Author":      "作者",
		"Name":        "名称",
		"Description": "描述",
		"ImageURL":    "图片地址",
		"Page":        "页码",
		"PageSize":    "每页条数",
	}

	firstErr := errs[0]

	fieldName := fieldMap[firstErr.Field()]
	if fieldName == "" {
		fieldName = firstErr.Field()
	}

	msgTemplate := msgMap[firstErr.Tag()]
	if msgTemplate == "" {
		msgTemplate = "验证失败"
	}

	if firstErr.Param() != "" {
		return fieldName + fmt.Sprintf(msgTemplate, firstErr.Param())
	}
	return fieldName + msgTemplate
}

// BindErrorMessage 将参数绑定错误转换为可读信息
func BindErrorMessage(err error) (field, message string) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field(), FormatValidationError(ve)
	}
	return "", "参数格式错误: " + err.Error()
}
