package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"stayhost/pkg/logger"
	"stayhost/pkg/model"
	"stayhost/pkg/validation"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type AccommodationValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewAccommodationValidator(log *logger.Logger) *AccommodationValidator {
	v := validation.New()

	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		log.Fatal("Failed to register slug validator", "error", err)
	}
	if err := v.RegisterValidation("image_ref", validateImageRef); err != nil {
		log.Fatal("Failed to register image_ref validator", "error", err)
	}

	return &AccommodationValidator{
		validate: v,
		log:      log,
	}
}

func (v *AccommodationValidator) Validate(a *model.Accommodation) error {
	if err := validation.Struct(v.validate, a, fieldMessage); err != nil {
		return err
	}
	return v.validateBusinessRules(a)
}

// validateBusinessRules checks what struct tags cannot express.
func (v *AccommodationValidator) validateBusinessRules(a *model.Accommodation) error {
	var errs validation.ValidationErrors

	if a.Active {
		if _, ok := a.GuestCapacity(); !ok {
			errs = append(errs, validation.ValidationError{
				Field:   "capacity",
				Message: "must start with the number of guests for active accommodations (e.g. \"4+1 persone\")",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// validateImageRef accepts absolute http(s) URLs and site-relative paths.
func validateImageRef(fl validator.FieldLevel) bool {
	ref := fl.Field().String()
	if strings.ContainsAny(ref, " \t\r\n") {
		return false
	}
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return true
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		switch fe.Kind().String() {
		case "string":
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case "slice":
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "slug":
		return "must contain only lowercase letters, digits and single hyphens"
	case "image_ref":
		return "must be an absolute http(s) URL or a path starting with /"
	case "mongodb":
		return "must be a valid object id"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
