package service

import (
	"errors"
	"fmt"
	"quadrant_planner_backend/internal/util"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 与 gin 的 binding 标签保持一致，服务层被直接调用时同样会校验
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateInput 校验输入，失败时返回 ValidationError
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return util.NewValidationError(fe.Field(), reason)
	}
	return util.NewValidationError("", err.Error())
}
