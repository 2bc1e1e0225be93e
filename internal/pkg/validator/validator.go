package validator

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("card_expiry", cardExpiry)
}

// Validate struct fields, returns field -> failed tag
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// cardExpiry accepts MM/YY in the current month or later.
func cardExpiry(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 || s[2] != '/' {
		return false
	}
	month, err := strconv.Atoi(s[:2])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(s[3:])
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	year += 2000
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}
