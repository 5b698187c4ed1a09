// Package validation registers the portal's form rules on gin's validator
// and turns validator failures into field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const passwordRule = "use at least 8 characters, one uppercase letter, one lowercase letter, and one number"

var countryCodePattern = regexp.MustCompile(`^\+[1-9][0-9]{0,3}$`)

// now is replaced in tests.
var now = time.Now

// RegisterWithGin installs the custom rules on gin's default validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validation: gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// Register installs JSON field naming and the custom rules on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"strongpassword": strongPassword,
		"digits":         digits,
		"countrycode":    countryCode,
		"pastdate":       pastDate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func digits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func countryCode(fl validator.FieldLevel) bool {
	return countryCodePattern.MatchString(fl.Field().String())
}

func pastDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return d.Before(now())
}

// Bind decodes the JSON body into obj and validates it. Failures come back
// as an apperr validation error carrying per-field messages.
func Bind(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts a binding or validator error into an apperr error.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.CodeValidation, "invalid request body", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return apperr.Validation("please complete all required fields", fields)
}

// fieldPath drops the struct name from the namespace:
// "JobRequest.profile_fields.email" becomes "profile_fields.email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "strongpassword":
		return passwordRule
	case "digits":
		return "must contain digits only"
	case "countrycode":
		return "must be a dialing code such as +62"
	case "pastdate":
		return "must be a past date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gtefield":
		return "must not be less than " + fe.Param()
	default:
		return "is invalid"
	}
}

// CheckProfile enforces a job's profile field levels. present reports which
// applicant fields were filled in. Mandatory fields that are missing come
// back as field messages; a nil map means the application is acceptable.
func CheckProfile(levels map[string]string, present map[string]bool) map[string]string {
	var missing map[string]string
	for field, level := range levels {
		if level != models.FieldMandatory || present[field] {
			continue
		}
		if missing == nil {
			missing = make(map[string]string)
		}
		missing[field] = "is required for this job"
	}
	return missing
}
