package local

import (
	"fmt"
	"math"
	"strconv"

	"github.com/noctonic/cyberchef-mcp-sse/engine"
)

// Args gives typed access to a step's raw positional arguments.
// Missing trailing arguments fall back to the supplied default, the way
// CyberChef fills omitted arguments from the operation schema.
type Args []any

func (a Args) at(i int) (any, bool) {
	if i < 0 || i >= len(a) || a[i] == nil {
		return nil, false
	}
	return a[i], true
}

// String returns argument i as text.
func (a Args) String(i int, def string) (string, error) {
	v, ok := a.at(i)
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", argError(i, "a string", v)
	}
}

// Bool returns argument i as a boolean. Numbers are truthy when non-zero.
func (a Args) Bool(i int, def bool) (bool, error) {
	v, ok := a.at(i)
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, argError(i, "a boolean", v)
		}
		return b, nil
	default:
		return false, argError(i, "a boolean", v)
	}
}

// Int returns argument i as an integer.
func (a Args) Int(i int, def int) (int, error) {
	v, ok := a.at(i)
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, argError(i, "an integer", v)
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, argError(i, "an integer", v)
		}
		return n, nil
	default:
		return 0, argError(i, "an integer", v)
	}
}

// Toggle returns argument i as a toggle string and its option. A plain
// string is accepted and paired with defOption.
func (a Args) Toggle(i int, defOption string) (value, option string, err error) {
	v, ok := a.at(i)
	if !ok {
		return "", defOption, nil
	}
	switch x := v.(type) {
	case string:
		return x, defOption, nil
	case map[string]any:
		s, ok1 := x["string"].(string)
		o, ok2 := x["option"].(string)
		if !ok1 || !ok2 {
			return "", "", argError(i, "a {string, option} toggle", v)
		}
		return s, o, nil
	default:
		return "", "", argError(i, "a {string, option} toggle", v)
	}
}

func argError(i int, want string, got any) error {
	return fmt.Errorf("%w: argument %d must be %s, got %T", engine.ErrInvalidArgument, i, want, got)
}
