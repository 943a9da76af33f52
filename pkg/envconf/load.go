// Package envconf fills config structs from environment variables.
package envconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
)

var durationType = reflect.TypeFor[time.Duration]()

// Load fills the exported fields of the struct dst points to. A field tagged
// `env:"NAME"` is required unless it also carries `envDefault:"value"`; an
// empty value keeps the zero value of a non-string field. Untagged struct
// fields are loaded recursively. Supported fields are strings, integers,
// time.Duration and encoding.TextUnmarshaler implementations.
func Load(dst any) error {
	if dst == nil {
		return errors.New("destination is nil")
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a non-nil pointer to a struct")
	}

	return loadStruct(v.Elem())
}

func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		fv := v.Field(i)
		name := sf.Tag.Get("env")

		switch {
		case name == "-":
			continue
		case name == "":
			if fv.Kind() != reflect.Struct {
				continue
			}

			err := loadStruct(fv)
			if err != nil {
				return fmt.Errorf("%s: %w", sf.Name, err)
			}

			continue
		}

		raw, err := lookup(name, sf)
		if err != nil {
			return err
		}

		if raw == "" && fv.Kind() != reflect.String {
			continue
		}

		err = setValue(fv, raw)
		if err != nil {
			return fmt.Errorf("parse %s for field %q: %w", name, sf.Name, err)
		}
	}

	return nil
}

func lookup(name string, sf reflect.StructField) (string, error) {
	raw, ok := os.LookupEnv(name)
	if ok {
		return raw, nil
	}

	def, ok := sf.Tag.Lookup("envDefault")
	if !ok {
		return "", fmt.Errorf("%w: %s (field %q)", ErrMissingRequired, name, sf.Name)
	}

	return def, nil
}

func setValue(fv reflect.Value, raw string) error {
	if u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(raw))
	}

	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}

		fv.SetInt(int64(d))

		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}

		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}

		fv.SetUint(n)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	}

	return nil
}
