package dto

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BrianLien09/schedule-app/internal/model"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// RegisterValidators 在 gin 的 validator 上註冊自訂規則
//   - hhmm: 24 小時制 HH:MM
//   - ymd:  YYYY-MM-DD 且為真實日期
//   - ym:   YYYY-MM
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding validator 不是 validator.Validate")
	}
	rules := map[string]validator.Func{
		"hhmm": func(fl validator.FieldLevel) bool { return model.IsClock(fl.Field().String()) },
		"ymd":  func(fl validator.FieldLevel) bool { return model.IsDate(fl.Field().String()) },
		"ym":   func(fl validator.FieldLevel) bool { return IsYearMonth(fl.Field().String()) },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("註冊驗證規則 %s 失敗: %w", tag, err)
		}
	}
	return nil
}

// IsYearMonth YYYY-MM
func IsYearMonth(s string) bool {
	return yearMonthPattern.MatchString(s)
}
