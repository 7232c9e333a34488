package domain

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from the single-line fields.
// Content is Markdown and is stored as sent.
func (in ProjectInput) Normalize() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.GithubURL = strings.TrimSpace(in.GithubURL)
	in.LiveURL = strings.TrimSpace(in.LiveURL)
	in.Tags = strings.TrimSpace(in.Tags)
	return in
}

// Validate checks a normalized input. Title and description must be non-empty.
func (in ProjectInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Normalize trims every set single-line field; content is left as sent.
func (p ProjectPatch) Normalize() ProjectPatch {
	for _, f := range []**string{&p.Title, &p.Description, &p.ImageURL, &p.GithubURL, &p.LiveURL, &p.Tags} {
		if *f != nil {
			s := strings.TrimSpace(**f)
			*f = &s
		}
	}
	return p
}

// Validate checks only the fields present in a normalized patch. A present
// title or description must still be non-empty.
func (p ProjectPatch) Validate() error {
	fields := map[string]string{}

	check := func(name string, value *string, tag string) {
		if value == nil {
			return
		}
		if err := validate.Var(*value, tag); err != nil {
			fields[name] = fieldMessage(name, err.(validator.ValidationErrors)[0])
		}
	}

	check("title", p.Title, "required,max=200")
	check("description", p.Description, "required,max=1000")
	check("content", p.Content, "max=50000")
	check("imageUrl", p.ImageURL, "omitempty,http_url,max=2048")
	check("githubUrl", p.GithubURL, "omitempty,http_url,max=2048")
	check("liveUrl", p.LiveURL, "omitempty,http_url,max=2048")
	check("tags", p.Tags, "max=500")

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func toValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe.Field(), fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "http_url":
		return fmt.Sprintf("%s must be an http(s) URL", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
