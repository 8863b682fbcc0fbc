// Package validator plugs go-playground/validator into Echo's Validator hook
// and maps failed rules to the shared error envelope. Field names in the
// output come from json tags, so API clients see the names they sent.
package validator

import (
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps a validator instance with an English translator.
type CustomValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

func New() *CustomValidator {
	validate := validator.New()

	validate.RegisterTagNameFunc(jsonFieldName)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic("failed to register validator default translations: " + err.Error())
	}

	return &CustomValidator{
		validator:  validate,
		translator: trans,
	}
}

// jsonFieldName reports the field's json tag name, falling back to the Go
// field name when the tag is absent or suppressed.
func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		return &ValidationError{
			Errors: cv.translateErrors(validationErrors),
		}
	}

	return err
}

func (cv *CustomValidator) translateErrors(errs validator.ValidationErrors) map[string]string {
	translated := make(map[string]string, len(errs))
	for _, err := range errs {
		translated[err.Field()] = err.Translate(cv.translator)
	}
	return translated
}

// ValidationError carries one translated message per offending field.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error joins the field messages in field-name order so the string is stable
// across runs.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, field+": "+e.Errors[field])
	}
	return strings.Join(messages, "; ")
}

type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// HandleValidationError writes 422 with per-field details for validation
// failures and 400 for anything else that reached the validator.
func HandleValidationError(c echo.Context, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Success: false,
			Error:   "Validation failed",
			Details: ve.Errors,
		})
	}

	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}
