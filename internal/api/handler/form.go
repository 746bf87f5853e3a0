package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type registerForm struct {
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required,max=128"`
	Name     string `form:"name" binding:"required,notblank,max=100"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required,max=128"`
}

type postForm struct {
	Title    string `form:"title" binding:"required,notblank,max=250"`
	Subtitle string `form:"subtitle" binding:"required,notblank,max=250"`
	ImgURL   string `form:"img_url" binding:"required,url,max=250"`
	Body     string `form:"body" binding:"required,notblank"`
}

type commentForm struct {
	Comment string `form:"comment" binding:"required,notblank,max=5000"`
}

// fieldErrors 字段名 -> 错误提示，字段名取自 form 标签
type fieldErrors map[string]string

var setupOnce sync.Once

// setupValidator 注册自定义校验并让错误中的字段名使用 form 标签
func setupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// bindForm 绑定表单；校验失败返回字段错误，其他错误原样返回
func bindForm(c *gin.Context, form any) (fieldErrors, error) {
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make(fieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
