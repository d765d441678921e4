// Package envflags reads tool settings from the GOPHERJS_SOURCEMAP
// environment variable.
//
// Settings given on the command line take precedence; the environment only
// provides defaults, which is handy in build scripts that invoke the tool many
// times.
package envflags

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Variable is the name of the environment variable the flags are read from.
const Variable = "GOPHERJS_SOURCEMAP"

var (
	// ErrInvalidDest is returned by Parse when the dest argument does not meet
	// the requirements.
	ErrInvalidDest = errors.New("invalid flag struct")
	// ErrInvalidFormat is returned by Parse when the raw flag string is not
	// valid.
	ErrInvalidFormat = errors.New("invalid flag string format")
)

// Flags contains the settings supported in GOPHERJS_SOURCEMAP.
type Flags struct {
	// Cache enables the on-disk cache of decoded input maps.
	Cache bool `flag:"cache"`
	// Verbose enables informational logging.
	Verbose bool `flag:"verbose"`
	// MaxErrors limits the number of input errors reported at once.
	MaxErrors int `flag:"maxerrors"`
}

// Default flag values, used for flags not present in the environment.
func Default() Flags {
	return Flags{Cache: true, MaxErrors: 10}
}

// FromEnv returns the flags from GOPHERJS_SOURCEMAP on top of Default.
func FromEnv() (Flags, error) {
	flags := Default()
	if err := Parse(os.Getenv(Variable), &flags); err != nil {
		return flags, fmt.Errorf("failed to parse %s: %w", Variable, err)
	}
	return flags, nil
}

// Parse parses the `raw` flags string and populates flag values in `dest`.
//
// `raw` is a comma-separated flag list: `<flag1>,<flag2>=<value>,...`. A flag
// without a value is equivalent to "<name>=true". Spaces around names and
// values are trimmed. Flag names can't be empty. If the same flag is given
// multiple times, the last instance takes effect.
//
// `dest` must be a pointer to a struct. Fields are associated with flags by
// the `flag` field tag; untagged fields are left untouched, as are fields of
// flags missing from `raw`. Boolean and integer fields are supported.
//
// Unknown flags are ignored, so that an environment set up for a newer
// version of the tool keeps working with an older one.
func Parse(raw string, dest any) error {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Pointer || ptr.Type().Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: must be a pointer to a struct", ErrInvalidDest)
	}
	if ptr.IsNil() {
		return fmt.Errorf("%w: must not be nil", ErrInvalidDest)
	}
	fields := fieldMap(ptr.Elem())

	if strings.TrimSpace(raw) == "" {
		return nil
	}
	for _, entry := range strings.Split(raw, ",") {
		key, val, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if !found {
			val = "true"
		}
		if key == "" {
			return fmt.Errorf("%w: empty flag name in %q", ErrInvalidFormat, entry)
		}

		field, ok := fields[key]
		if !ok {
			continue
		}
		if err := set(field, key, val); err != nil {
			return err
		}
	}
	return nil
}

func set(field reflect.Value, key, val string) error {
	switch field.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: can't parse %q as boolean for flag %q", ErrInvalidFormat, val, key)
		}
		field.SetBool(b)
	case reflect.Int:
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: can't parse %q as integer for flag %q", ErrInvalidFormat, val, key)
		}
		field.SetInt(int64(i))
	default:
		return fmt.Errorf("%w: flag %q has unsupported type %s", ErrInvalidDest, key, field.Type())
	}
	return nil
}

// fieldMap returns the struct fields keyed by the value of the "flag" tag.
func fieldMap(s reflect.Value) map[string]reflect.Value {
	typ := s.Type()
	result := map[string]reflect.Value{}
	for i := 0; i < typ.NumField(); i++ {
		if val, ok := typ.Field(i).Tag.Lookup("flag"); ok {
			result[val] = s.Field(i)
		}
	}
	return result
}
