package req

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/schema"
	"github.com/xy-planning-network/checkpoint"
)

// A Parser decodes the validated inputs of a request into structs handlers define.
//
// Query, path param and header values decode through "schema" struct tags;
// body values decode through "json" struct tags.
// Either way, "validate" struct tags are then enforced.
type Parser struct {
	decoder *schema.Decoder
	valid   *v10.Validate
}

// NewParser constructs a Parser, which applies default configuration.
func NewParser() *Parser {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}

		return ""
	})

	return &Parser{decoder: dec, valid: v}
}

// DecodeRequest decodes the values c holds in the Input stashed on r's context into structPtr.
func (p *Parser) DecodeRequest(r *http.Request, c Context, structPtr any) error {
	in, err := InputFromContext(r.Context())
	if err != nil {
		return err
	}

	return p.Decode(in, c, structPtr)
}

// Decode decodes the values c holds in in into structPtr.
// If successful, Decode runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) Decode(in Input, c Context, structPtr any) error {
	if err := c.Valid(); err != nil {
		return err
	}

	if rv := reflect.ValueOf(structPtr); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("checkpoint/http/req: %w: Decode called with non-pointer %T", checkpoint.ErrBadConfig, structPtr)
	}

	if c == Body {
		b, err := json.Marshal(in.Body)
		if err != nil {
			return fmt.Errorf("checkpoint/http/req: %w: %s", checkpoint.ErrUnexpected, err)
		}

		if err := json.Unmarshal(b, structPtr); err != nil {
			return fmt.Errorf("checkpoint/http/req: %w: failed decoding request body: %s", checkpoint.ErrBadFormat, err)
		}
	} else if err := p.decoder.Decode(structPtr, toURLValues(in.Values(c))); err != nil {
		return fmt.Errorf("checkpoint/http/req: failed decoding request %s: %w", c, translateDecoderError(err))
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("checkpoint/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// toURLValues converts the string values of a non-body Context into url.Values.
func toURLValues(values map[string]any) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				out.Add(k, fmt.Sprint(item))
			}
		default:
			out.Set(k, fmt.Sprint(val))
		}
	}

	return out
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are mismatches between a request's values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", checkpoint.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				// NOTE: for non-slice values, err.Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate pkg to set "required" fields, not schema`, checkpoint.ErrNotImplemented)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// A field whose type has no schema.Converter registered
			// only errors once a value for it is set.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", checkpoint.ErrNotImplemented)
			}

			return fmt.Errorf("%w: %s", checkpoint.ErrUnexpected, err)
		}
	}

	return validErrs
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags.
// On failure, validate translates each issue to a ValidationError,
// returning them all as ValidationErrors.
func (p *Parser) validate(structPtr any) error {
	err := p.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var validateErrs ValidationErrors
	for _, ve := range errs {
		field := ve.Namespace()
		if ns := strings.SplitN(field, ".", 2); len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}
		rule += "; " + ve.Type().String()

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

// validateEnumerable validates whether field is a valid Enumerable or slice of valid Enumerable.
func validateEnumerable(fl v10.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() == reflect.Slice {
		vals := make([]reflect.Value, 0, field.Len())
		for i := 0; i < field.Len(); i++ {
			vals = append(vals, field.Index(i))
		}

		return checkEnums(vals...)
	}

	return checkEnums(field)
}

// checkEnums asserts each [reflect.Value] is an Enumerable and valid.
func checkEnums(items ...reflect.Value) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		enum, ok := item.Interface().(checkpoint.Enumerable)
		if !ok || enum.Valid() != nil {
			return false
		}
	}

	return true
}
