package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalid is returned for bundles that fail to decode or validate.
	ErrInvalid = errors.New("settings: invalid bundle")
	// ErrIncomplete is returned when a stored bundle omits a field.
	ErrIncomplete = fmt.Errorf("%w: incomplete", ErrInvalid)
)

var validate = validator.New()

// Decode strictly decodes raw into a bundle of type T. Every field must be
// present and the result must pass validation.
func Decode[T any](raw []byte) (T, error) {
	var zero T

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	for _, name := range jsonFields(reflect.TypeOf(zero)) {
		if _, ok := fields[name]; !ok {
			return zero, fmt.Errorf("%w: missing %q", ErrIncomplete, name)
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	if err := Validate(out); err != nil {
		return zero, err
	}
	return out, nil
}

// ParseOrDefault decodes raw, falling back to def as a whole when raw is
// empty, corrupt, partial or invalid. It never merges.
func ParseOrDefault[T any](raw []byte, def T) T {
	if len(raw) == 0 {
		return def
	}
	out, err := Decode[T](raw)
	if err != nil {
		return def
	}
	return out
}

// Validate runs the bundle's struct tag rules.
func Validate(bundle any) error {
	if err := validate.Struct(bundle); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func jsonFields(t reflect.Type) []string {
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}
