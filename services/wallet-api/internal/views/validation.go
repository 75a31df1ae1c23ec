package views

import (
	"errors"
	"strings"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("wallet_password", walletPassword)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// walletPassword requires a lowercase letter, a digit and one of !@#.
func walletPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") &&
		strings.ContainsAny(s, "0123456789") &&
		strings.ContainsAny(s, "!@#")
}

// fieldMessages maps "<field>.<tag>" to the message shown to the caller.
type fieldMessages map[string]string

// validateStruct runs the struct rules and folds failures into a validation AppError keyed by json field.
func validateStruct(req any, messages fieldMessages) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields[fe.Field()] = msg
	}
	return pkg.NewValidationError("Validation failed", fields)
}
