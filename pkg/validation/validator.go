package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

var once sync.Once

// Init configures the global validator used by Gin's binding.
// Errors use JSON tag names; dashboard-specific aliases and validators are registered once.
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

// Register installs tag names, aliases and custom validators on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8,max=72")
	v.RegisterAlias("gridcols", fmt.Sprintf("min=%d,max=%d", entity.MinGridColumns, entity.MaxGridColumns))
	v.RegisterAlias("gridrows", fmt.Sprintf("min=%d,max=%d", entity.MinGridRows, entity.MaxGridRows))
	_ = v.RegisterValidation("widgettype", func(fl validator.FieldLevel) bool {
		return entity.WidgetType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).Valid()
	})
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// Messages flattens details into sorted "field message" lines.
func Messages(details map[string]string) []string {
	out := make([]string, 0, len(details))
	for field, msg := range details {
		out = append(out, field+" "+msg)
	}
	sort.Strings(out)
	return out
}

var staticMessages = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email",
	"url":        "must be a valid URL",
	"uuid":       "must be a valid UUID",
	"alphanum":   "must contain alphanumeric characters only",
	"hexcolor":   "must be a valid hexadecimal color",
	"e164":       "must be a valid phone number",
	"boolean":    "must be a boolean value",
	"dive":       "array validation failed",
	"widgettype": "must be a known widget type",
	"role":       "must be one of: USER, ADMIN, SUPER_ADMIN",
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	if msg, ok := staticMessages[tag]; ok {
		return msg
	}

	switch tag {
	case "len":
		return "must be exactly " + param + " characters long"
	case "min", "gte":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max", "lte":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "must be between 8 and 72 characters long"
	case "gridcols":
		return fmt.Sprintf("must be between %d and %d", entity.MinGridColumns, entity.MaxGridColumns)
	case "gridrows":
		return fmt.Sprintf("must be between %d and %d", entity.MinGridRows, entity.MaxGridRows)
	}
	if param != "" {
		return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
	}
	return fmt.Sprintf("validation failed for '%s'", tag)
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
