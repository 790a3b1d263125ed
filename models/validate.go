package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ReservedUsername is the profile path segment for "own profile" and can
// never be taken as a handle.
const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Validate is the shared validator instance. Request payload structs use
// its tags; the custom "username" tag combines the allowed-characters
// pattern with the reserved-name check.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	return v
}

func ValidUsername(username string) bool {
	return username != "" &&
		username != ReservedUsername &&
		usernamePattern.MatchString(username)
}

func ValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

func ValidCookingTime(minutes int) bool {
	return minutes >= CookingTimeMin && minutes <= CookingTimeMax
}

func ValidAmount(amount int) bool {
	return amount >= AmountMin && amount <= AmountMax
}
