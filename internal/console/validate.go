package console

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator runs struct-tag validation and maps failures to user messages
// keyed by JSON field name.
type Validator[T any] struct {
	validate *validator.Validate
	messages map[string]string
}

// NewValidator builds a validator. messages is keyed "field.tag", for example
// "buying_price.gt"; a bare "field" key serves every tag of that field.
func NewValidator[T any](messages map[string]string) *Validator[T] {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator[T]{validate: v, messages: messages}
}

// Validate returns nil when draft is valid.
func (v *Validator[T]) Validate(draft T) map[string]string {
	err := v.validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fieldKey(fe)
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = v.message(name, fe.Tag())
	}
	return out
}

func (v *Validator[T]) message(field, tag string) string {
	if msg, ok := v.messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := v.messages[field]; ok {
		return msg
	}
	leaf := field[strings.LastIndex(field, ".")+1:]
	label := strings.ReplaceAll(leaf, "_", " ")
	switch tag {
	case "required", "notblank":
		return "The " + label + " is required."
	case "gt":
		return "The " + label + " must be greater than zero."
	case "gte":
		return "The " + label + " cannot be negative."
	case "email":
		return "The " + label + " must be a valid email address."
	}
	return "The " + label + " is invalid."
}

// fieldKey is the JSON path of the failing field below the draft, so a
// nested product.category_id never reports as the draft's own category_id.
func fieldKey(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
