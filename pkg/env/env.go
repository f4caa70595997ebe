// Package env fills struct fields from environment variables.
//
// Fields opt in with an `env:"KEY"` tag, optionally `env:"KEY,required"`.
// Unset keys leave the field untouched so env can be layered over a
// config file.
package env

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type Decoder struct {
	env map[string]string
}

func NewDecoder(environ []string) *Decoder {
	env := make(map[string]string, len(environ))
	for _, e := range environ {
		if key, val, ok := strings.Cut(e, "="); ok {
			env[key] = val
		}
	}
	return &Decoder{env: env}
}

func (d *Decoder) Unmarshal(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("env: target must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("env: target must point to a struct")
	}

	t := v.Type()
	for i := range t.NumField() {
		field := v.Field(i)
		sf := t.Field(i)

		tag := sf.Tag.Get("env")
		if tag == "" || !field.CanSet() {
			continue
		}

		key, opts, _ := strings.Cut(tag, ",")
		var required bool
		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "required":
				required = true
			case "":
			default:
				return fmt.Errorf("env: unknown option %q for field '%s.%s'", opt, t.Name(), sf.Name)
			}
		}

		val, found := d.env[key]
		if !found {
			if required {
				return fmt.Errorf("env: required key %q for field '%s.%s' not found", key, t.Name(), sf.Name)
			}
			continue
		}

		if err := set(field, val); err != nil {
			return fmt.Errorf("env: error setting field '%s' from %s: %w", sf.Name, key, err)
		}
	}
	return nil
}

func Unmarshal(target any, environ []string) error {
	return NewDecoder(environ).Unmarshal(target)
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func set(v reflect.Value, s string) error {
	if v.Addr().Type().Implements(textUnmarshalerType) {
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Slice:
		// comma separated, appended to whatever the field already holds
		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := set(elem, item); err != nil {
				return err
			}
			v.Set(reflect.Append(v, elem))
		}
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}
