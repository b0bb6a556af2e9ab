package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FilterError reports an invalid operation parameter. Callers may recover by
// rerunning the operation without the filter.
type FilterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

var validate = validator.New()

// validateStruct runs tag validation and converts the first failure into a FilterError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	value := fe.Value()
	if p, ok := value.(*float64); ok && p != nil {
		value = *p
	}
	return &FilterError{Param: strings.ToLower(fe.Field()), Value: value, Reason: reasonFor(fe.Tag(), fe.Param())}
}

func reasonFor(tag, param string) string {
	switch tag {
	case "gte":
		return "must be >= " + param
	case "lte":
		return "must be <= " + param
	case "gt":
		return "must be > " + param
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	default:
		return "failed " + tag
	}
}
