package binder

import (
	"encoding"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")

	// ErrBinderNotApplicable makes handler.Wrap skip the binder for this
	// request, e.g. JSON on a GET.
	ErrBinderNotApplicable = errors.New("binder not applicable to request")
)

// Query binds `query` tagged fields from the URL query string.
//
//	type ListRequest struct {
//		Queue string `query:"queue"`
//		Limit int    `query:"limit"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindFields(v, "query", ErrFailedToParseQuery, func(name string) []string { return q[name] })
	}
}

// Path binds `path` tagged fields through a router extractor such as
// chi.URLParam. A nil extractor makes the binder not applicable.
//
//	type ReplayRequest struct {
//		ID uuid.UUID `path:"id"`
//	}
func Path(extract func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extract == nil {
			return ErrBinderNotApplicable
		}
		return bindFields(v, "path", ErrFailedToParsePath, func(name string) []string {
			if s := extract(r, name); s != "" {
				return []string{s}
			}
			return nil
		})
	}
}

// bindFields walks the exported fields of the struct v points to. A field
// named by its tag (or its lowercased name when untagged) is set from the
// values lookup returns. Missing values leave the field untouched.
func bindFields(v any, tag string, bindErr error, lookup func(name string) []string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct, got %T", bindErr, v)
	}
	rv = rv.Elem()

	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Anonymous || len(sf.Index) > 1 {
			continue
		}
		name := fieldName(sf, tag)
		if name == "" {
			continue
		}
		values := lookup(name)
		if len(values) == 0 {
			continue
		}
		if err := setValue(rv.Field(sf.Index[0]), values); err != nil {
			return fmt.Errorf("%w: %s: %w", bindErr, name, err)
		}
	}
	return nil
}

func fieldName(sf reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(sf.Name)
	}
	return name
}

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func setValue(field reflect.Value, values []string) error {
	t := field.Type()
	switch {
	case t.Kind() == reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setValue(field.Elem(), values)
	case t == durationType:
		d, err := time.ParseDuration(values[0])
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(values[0]))
	case t.Kind() == reflect.Slice:
		var items []string
		for _, v := range values {
			for item := range strings.SplitSeq(v, ",") {
				items = append(items, strings.TrimSpace(item))
			}
		}
		slice := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			if err := setValue(slice.Index(i), []string{item}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}
	return setScalar(field, values[0])
}

func setScalar(field reflect.Value, s string) error {
	t := field.Type()
	switch t.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	default:
		return fmt.Errorf("unsupported field type %s", t)
	}
	return nil
}

// parseBool also accepts the checkbox-style on/off and yes/no.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
