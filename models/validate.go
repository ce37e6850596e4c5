package models

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// NameMinLength minimum trimmed record name length
	NameMinLength = 2
	// NameMaxLength maximum trimmed record name length
	NameMaxLength = 60
	// DescriptionMinLength minimum trimmed record description length
	DescriptionMinLength = 3
	// DescriptionMaxLength maximum trimmed record description length
	DescriptionMaxLength = 200
)

// nameCharPattern at least one ASCII alphanumeric or Latin-1 letter
var nameCharPattern = regexp.MustCompile(`[A-Za-z0-9\x{00C0}-\x{00FF}]`)

var (
	fieldValidator = newFieldValidator()

	nameRule        = fmt.Sprintf("min=%d,max=%d,record_name", NameMinLength, NameMaxLength)
	descriptionRule = fmt.Sprintf("min=%d,max=%d", DescriptionMinLength, DescriptionMaxLength)
)

func newFieldValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterWithValidator(v); err != nil {
		panic(err)
	}
	return v
}

/*
RegisterWithValidator register with the validator this custom validation support

	@param v *validator.Validate - the validator to register against
	@return whether successful
*/
func RegisterWithValidator(v *validator.Validate) error {
	if err := v.RegisterValidation(
		"record_name", validateRecordNameChars,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"audit_action", validateAuditActionType,
	); err != nil {
		return err
	}

	return nil
}

// ValidateName whether the trimmed name has 2 to 60 characters, at least one alphanumeric
func ValidateName(name string) bool {
	return fieldValidator.Var(strings.TrimSpace(name), nameRule) == nil
}

// ValidateDescription whether the trimmed description has 3 to 200 characters
func ValidateDescription(description string) bool {
	return fieldValidator.Var(strings.TrimSpace(description), descriptionRule) == nil
}

func validateRecordNameChars(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return nameCharPattern.MatchString(fl.Field().String())
}

func validateAuditActionType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch AuditActionENUMType(fl.Field().String()) {
	case AuditActionCreate:
		fallthrough
	case AuditActionUpdate:
		fallthrough
	case AuditActionActivate:
		fallthrough
	case AuditActionDeactivate:
		fallthrough
	case AuditActionDelete:
		fallthrough
	case AuditActionUndo:
		fallthrough
	case AuditActionLoad:
		fallthrough
	case AuditActionLoadError:
		fallthrough
	case AuditActionSaveError:
		fallthrough
	case AuditActionSaveDone:
		return true
	}
	return false
}
