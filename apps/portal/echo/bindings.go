package echoportal

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/brainbuddy/portal/core"
)

type (
	LoginForm struct {
		Username string `form:"username" validate:"required"`
		Password string `form:"password" validate:"required"`
		Next     string `form:"next"`
	}

	RegisterForm struct {
		FullName string `form:"full_name" validate:"required"`
		Email    string `form:"email" validate:"required,email"`
		Username string `form:"username" validate:"required,alphanum_"`
		Password string `form:"password" validate:"required,min=8"`
	}

	LinkForm struct {
		Email    string `form:"email" validate:"required,email"`
		ClassStd int    `form:"class_std" validate:"required"`
	}

	EssayForm struct {
		Essay string `form:"essay" validate:"required"`
	}

	PlanForm struct {
		Subject string `form:"subject" validate:"required"`
	}

	SummarizeForm struct {
		Mode   string `form:"mode"` // "text" | "file"
		Text   string `form:"text"`
		Prompt string `form:"prompt"`
	}

	QuestionForm struct {
		Question string `form:"question" validate:"required"`
	}

	TutorForm struct {
		Question string `form:"question" validate:"required"`
		Subject  string `form:"subject"`
		Goal     string `form:"goal"`
	}

	VideoLoadForm struct {
		Input string `form:"input" validate:"required"` // URL or video id
	}
)

func (f *LoginForm) Validate(validate *validator.Validate) error {
	f.Username = core.CleanString(f.Username, true /* lower */)
	return validate.Struct(f)
}

func (f *RegisterForm) Validate(validate *validator.Validate) error {
	f.FullName = core.CleanString(f.FullName)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Username = core.CleanString(f.Username, true /* lower */)
	return validate.Struct(f)
}

// Validate checks the grade against the configured range rather than a
// hardcoded bound; the API and its old UI have never agreed on one.
func (f *LinkForm) Validate(validate *validator.Validate, conf *core.Config) error {
	f.Email = core.CleanString(f.Email, true /* lower */)
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.ClassStd < conf.Class.Min || f.ClassStd > conf.Class.Max {
		return core.NewValidationError(nil, core.FieldError{
			Field: "class_std",
			Error: fmt.Sprintf("class must be between %d and %d", conf.Class.Min, conf.Class.Max),
		})
	}
	return nil
}

func (f *EssayForm) Validate(validate *validator.Validate) error {
	f.Essay = core.CleanString(f.Essay)
	return validate.Struct(f)
}

func (f *PlanForm) Validate(validate *validator.Validate) error {
	f.Subject = core.CleanString(f.Subject, true /* lower */)
	return validate.Struct(f)
}

func (f *QuestionForm) Validate(validate *validator.Validate) error {
	f.Question = core.CleanString(f.Question)
	return validate.Struct(f)
}

func (f *TutorForm) Validate(validate *validator.Validate) error {
	f.Question = core.CleanString(f.Question)
	f.Subject = core.CleanString(f.Subject)
	f.Goal = core.CleanString(f.Goal)
	return validate.Struct(f)
}

func (f *VideoLoadForm) Validate(validate *validator.Validate) error {
	f.Input = core.CleanString(f.Input)
	return validate.Struct(f)
}
