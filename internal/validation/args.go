// Package validation checks CLI arguments and configuration values before
// a pipeline run starts. Invalid periods must fail fast, before any
// download begins.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// periodPattern is the strict flag format: four-digit year, dash,
// two-digit month.
var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the pipeline's custom rules
// registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("period", isPeriod)
	})
	return validate
}

// Struct validates any struct carrying validate tags, including the
// custom period rule.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// PeriodArgs is the flag pair shared by both pipeline CLIs.
type PeriodArgs struct {
	From string `validate:"required,period"`
	To   string `validate:"required,period"`
}

// ValidatePeriodArgs rejects malformed -from/-to flag values with a
// message naming the offending flag.
func ValidatePeriodArgs(args PeriodArgs) error {
	err := Struct(args)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range verrs {
		flag := strings.ToLower(fe.Field())
		return fmt.Errorf("invalid -%s value %q: expected YYYY-MM with month 01-12", flag, fe.Value())
	}
	return err
}

// isPeriod implements the period rule: YYYY-MM with a real month.
func isPeriod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !periodPattern.MatchString(value) {
		return false
	}
	month, err := strconv.Atoi(value[5:])
	if err != nil {
		return false
	}
	return month >= 1 && month <= 12
}
