package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Arg is one positional argument value of a recipe step.
//
// The set of implementations is closed: Text, Number, Boolean and Toggle.
// Each knows its own recipe-grammar literal, so adding a variant means
// implementing Literal and Raw for it.
type Arg interface {
	// Literal returns the value as it appears inside a recipe string.
	Literal() string

	// Raw returns the plain value handed to the engine.
	Raw() any

	arg()
}

// Text covers every textual argument type: strings, short strings, binary
// strings, byte-array text, option and editable option labels, argument
// selectors and the empty populate literal. They all encode alike.
type Text string

// Number is a numeric argument.
type Number float64

// Boolean is a boolean argument.
type Boolean bool

// Toggle is a toggle-string argument: a string plus the option that says
// how to interpret it (e.g. "Hex", "UTF8").
type Toggle struct {
	String string `json:"string"`
	Option string `json:"option"`
}

func (Text) arg()    {}
func (Number) arg()  {}
func (Boolean) arg() {}
func (Toggle) arg()  {}

// Literal wraps the text in single quotes, escaping embedded single quotes
// with a backslash. Nothing else is escaped.
func (t Text) Literal() string {
	return "'" + strings.ReplaceAll(string(t), "'", `\'`) + "'"
}

// Raw returns the text as a string.
func (t Text) Raw() any { return string(t) }

// Literal renders the number the way JavaScript's String(number) does.
func (n Number) Literal() string { return formatNumber(float64(n)) }

// Raw returns the number as a float64.
func (n Number) Raw() any { return float64(n) }

// Literal renders true or false.
func (b Boolean) Literal() string { return strconv.FormatBool(bool(b)) }

// Raw returns the boolean.
func (b Boolean) Raw() any { return bool(b) }

// Literal renders the toggle as a JSON object with double quotes swapped
// for single quotes: {'string':'abc','option':'Hex'}.
func (t Toggle) Literal() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		// Two string fields always encode.
		panic(err)
	}
	return strings.ReplaceAll(strings.TrimSuffix(buf.String(), "\n"), `"`, "'")
}

// Raw returns the toggle as a {"string", "option"} map.
func (t Toggle) Raw() any {
	return map[string]any{"string": t.String, "option": t.Option}
}

// Unescape reverses Text.Literal. It reports false if literal is not a
// single-quoted string.
func Unescape(literal string) (string, bool) {
	if len(literal) < 2 || literal[0] != '\'' || literal[len(literal)-1] != '\'' {
		return "", false
	}
	return strings.ReplaceAll(literal[1:len(literal)-1], `\'`, "'"), true
}

// Args is the ordered argument list of a step. It decodes from a JSON array
// whose elements are strings, numbers, booleans or {"string","option"}
// objects; anything else is rejected with ErrInvalidArgument.
type Args []Arg

// UnmarshalJSON decodes and validates each element.
func (a *Args) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: args must be an array", ErrInvalidArgument)
	}
	if raw == nil {
		*a = nil
		return nil
	}
	out := make(Args, 0, len(raw))
	for i, r := range raw {
		v, err := DecodeArg(r)
		if err != nil {
			return fmt.Errorf("arg %d: %w", i, err)
		}
		out = append(out, v)
	}
	*a = out
	return nil
}

// Raw returns the engine-facing values of every argument.
func (a Args) Raw() []any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = v.Raw()
	}
	return out
}

// Literals returns the recipe-grammar literal of every argument.
func (a Args) Literals() []string {
	out := make([]string, len(a))
	for i, v := range a {
		out[i] = v.Literal()
	}
	return out
}

// DecodeArg decodes a single JSON argument value.
func DecodeArg(data []byte) (Arg, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidArgument)
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return Text(s), nil
	case c == 't' || c == 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return Boolean(b), nil
	case c == '-' || ('0' <= c && c <= '9'):
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return Number(f), nil
	case c == '{':
		return decodeToggle(data)
	default:
		return nil, fmt.Errorf("%w: unsupported value %s", ErrInvalidArgument, data)
	}
}

func decodeToggle(data []byte) (Arg, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	var t Toggle
	for _, f := range []struct {
		key string
		dst *string
	}{{"string", &t.String}, {"option", &t.Option}} {
		raw, ok := fields[f.key]
		if !ok {
			return nil, fmt.Errorf("%w: toggle value missing %q", ErrInvalidArgument, f.key)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("%w: toggle %q must be a string", ErrInvalidArgument, f.key)
		}
	}
	return t, nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
