package client

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names used by the panel forms.
const (
	FieldEmail         = "user_email"
	FieldPhone         = "user_phone"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldNick          = "user_nick"
	FieldPassword      = "user_pass"
	FieldPasswordCheck = "user_pass_check"
)

// FormSubmission maps field names to the values of a submitted form.
type FormSubmission map[string]string

// Redacted returns a copy safe to log: password values are masked.
func (f FormSubmission) Redacted() FormSubmission {
	out := make(FormSubmission, len(f))
	for k, v := range f {
		if strings.Contains(k, "pass") {
			v = "***"
		}
		out[k] = v
	}

	return out
}

var validate = validator.New()

func checkPasswords(form FormSubmission) error {
	if err := validate.VarWithValue(form[FieldPasswordCheck], form[FieldPassword], "eqfield"); err != nil {
		return ErrPasswordMismatch
	}

	return nil
}
