package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"
)

// ErrRendering indicates an engine result could not be turned into text.
var ErrRendering = errors.New("rendering failed")

// RenderingError describes why a result could not be rendered.
type RenderingError struct {
	Reason string
	Err    error
}

// Error returns the error message.
func (e *RenderingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render result: %s: %v", e.Reason, e.Err)
	}
	return "render result: " + e.Reason
}

// Unwrap returns the underlying error.
func (e *RenderingError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// RenderingError matches ErrRendering.
func (e *RenderingError) Is(target error) bool {
	return target == ErrRendering
}

// Render produces the canonical text form of an engine result.
//
// Classification, first match wins:
//  1. text is returned unchanged;
//  2. a sequence whose every element is an integer in [0,255] is decoded as
//     UTF-8 (an empty sequence is empty text);
//  3. anything else is serialized as JSON.
//
// Byte sequences that are not valid UTF-8 are reported as a RenderingError
// instead of being lossily substituted.
func Render(r Result) (string, error) {
	if s, ok := r.Value.(string); ok {
		return s, nil
	}

	if b, ok := AsBytes(r.Value); ok {
		if !utf8.Valid(b) {
			return "", &RenderingError{Reason: "output is not valid UTF-8; add a step such as To Hex or To Base64"}
		}
		return string(b), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Value); err != nil {
		return "", &RenderingError{Reason: "value is not serializable", Err: err}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// AsBytes reports whether v is a finite sequence of integers in [0,255] and
// returns it as bytes. Integer-valued floats count, since JSON decoding
// produces float64 for every number.
func AsBytes(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]byte, rv.Len())
	for i := range out {
		b, ok := byteValue(rv.Index(i))
		if !ok {
			return nil, false
		}
		out[i] = b
	}
	return out, true
}

func byteValue(v reflect.Value) (byte, bool) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}

	if n, ok := v.Interface().(json.Number); ok {
		i, err := n.Int64()
		if err != nil || i < 0 || i > 255 {
			return 0, false
		}
		return byte(i), true
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < 0 || i > 255 {
			return 0, false
		}
		return byte(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > 255 {
			return 0, false
		}
		return byte(u), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || f < 0 || f > 255 {
			return 0, false
		}
		return byte(f), true
	default:
		return 0, false
	}
}
