package middleware

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

// ValidationConfig represents validation configuration
type ValidationConfig struct {
	CustomValidators map[string]validator.Func
}

// DefaultValidationConfig adds the clinic's own tags: weekday, ddmmyyyy and hhmm.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		CustomValidators: map[string]validator.Func{
			"weekday": func(fl validator.FieldLevel) bool {
				_, err := model.ParseWeekday(fl.Field().String())
				return err == nil
			},
			"ddmmyyyy": func(fl validator.FieldLevel) bool {
				_, err := schedule.ParseDate(fl.Field().String(), time.UTC)
				return err == nil
			},
			"hhmm": func(fl validator.FieldLevel) bool {
				_, err := schedule.FormatTo12Hour(fl.Field().String())
				return err == nil
			},
		},
	}
}

// RegisterValidators configures gin's validator: field names in errors are
// the JSON names and the custom tags are available in binding tags.
func RegisterValidators(config ValidationConfig) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	for tag, fn := range config.CustomValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
