package replopscfg

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kompox/replops/domain/model"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report json field names so errors match the document.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the required fields of the document. The returned error is
// a *model.ConfigurationError naming the first offending field.
func (d *Document) Validate(path string) error {
	err := getValidator().Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &model.ConfigurationError{Path: path, Msg: "validation failed", Err: err}
	}
	fe := verrs[0]
	return &model.ConfigurationError{Path: path, Field: fieldPath(fe), Msg: describe(fe)}
}

// Validate checks a Configuration value before it is saved.
func Validate(cfg *model.Configuration) error {
	if cfg == nil {
		return &model.ConfigurationError{Msg: "configuration is nil"}
	}
	return FromModel(cfg).Validate("")
}

// fieldPath strips the root type name from the validator namespace,
// e.g. "Document.templates[web].path" -> "templates[web].path".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
